// pkg/calculator/outcome.go
package calculator

// Outcome is the tagged form of a calculation: exactly one of Result and
// Unknown is set.
type Outcome struct {
	Result  *SavingsResult
	Unknown *UnknownBusinessTypeError
}

// OK reports whether the calculation succeeded.
func (o Outcome) OK() bool {
	return o.Result != nil
}

// Evaluate runs ComputeSavings and folds its error into the outcome.
func (t *Table) Evaluate(businessType string) Outcome {
	return fold(t.ComputeSavings(businessType))
}

// EvaluateValue is Evaluate over ComputeSavingsValue.
func (t *Table) EvaluateValue(v interface{}) Outcome {
	return fold(t.ComputeSavingsValue(v))
}

func fold(res *SavingsResult, err error) Outcome {
	if err != nil {
		// ComputeSavings only fails with *UnknownBusinessTypeError.
		ute, _ := AsUnknownBusinessType(err)
		return Outcome{Unknown: ute}
	}
	return Outcome{Result: res}
}
