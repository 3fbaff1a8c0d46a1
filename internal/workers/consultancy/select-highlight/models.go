package selecthighlight

import "consultancy-workers/internal/highlight"

// Input names the variant currently shown (or wanted) and whether to swap.
type Input struct {
	Variant string `json:"variant"`
	Toggle  bool   `json:"toggle"`
}

type Output struct {
	Highlight highlight.Variant `json:"highlight"`
}
