// Package presenter turns savings results into the strings shown on the
// site's savings panel.
package presenter

import (
	"strconv"

	"consultancy-workers/internal/common/logger"
	"consultancy-workers/pkg/calculator"
)

// Placeholder fills every field when there is nothing to show.
const Placeholder = "-"

// Display holds the rendered panel fields.
type Display struct {
	BaselineHours string `json:"baselineHours"`
	SavedHours    string `json:"savedHours"`
	NewHours      string `json:"newHours"`
	PercentSaved  string `json:"percentSaved"`
}

// Render formats r. Hours print as integers and the percentage keeps at
// most its single decimal ("25%", "32.7%").
func Render(r *calculator.SavingsResult) Display {
	if r == nil {
		return Cleared()
	}
	return Display{
		BaselineHours: strconv.Itoa(r.BaselineHours),
		SavedHours:    strconv.Itoa(r.SavedHours),
		NewHours:      strconv.Itoa(r.NewHours),
		PercentSaved:  strconv.FormatFloat(r.PercentSaved, 'f', -1, 64) + "%",
	}
}

func Cleared() Display {
	return Display{
		BaselineHours: Placeholder,
		SavedHours:    Placeholder,
		NewHours:      Placeholder,
		PercentSaved:  Placeholder,
	}
}

// IsCleared reports whether d shows only placeholders.
func (d Display) IsCleared() bool {
	return d == Cleared()
}

// Presenter binds a profile table to the panel.
type Presenter struct {
	table  *calculator.Table
	logger logger.Logger
}

func New(table *calculator.Table, log logger.Logger) *Presenter {
	if table == nil {
		table = calculator.Default()
	}
	return &Presenter{table: table, logger: log}
}

// Present computes savings for raw and renders them. Unknown input is
// logged and yields a cleared panel; Present never fails.
func (p *Presenter) Present(raw interface{}) Display {
	res, err := p.table.ComputeSavingsValue(raw)
	if err != nil {
		fields := map[string]interface{}{"error": err}
		if ute, ok := calculator.AsUnknownBusinessType(err); ok {
			fields["businessTypeInput"] = ute.Input
			fields["validBusinessTypes"] = ute.ValidTypes
		}
		p.logger.Warn("savings not shown for unknown business type", fields)
		return Cleared()
	}
	return Render(res)
}
