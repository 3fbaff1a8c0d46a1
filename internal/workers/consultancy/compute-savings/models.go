package computesavings

import (
	"consultancy-workers/internal/presenter"
	"consultancy-workers/pkg/calculator"
)

// Input is the job's businessType variable as decoded. Absent and null both
// read as "", anything else is coerced with fmt.Sprint before lookup.
type Input struct {
	BusinessType interface{} `json:"businessType"`
}

type Output struct {
	Savings *calculator.SavingsResult `json:"savings"`
	Display presenter.Display         `json:"display"`
}
