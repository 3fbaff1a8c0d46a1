package computesavings

import (
	"context"

	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/common/metrics"
	"consultancy-workers/internal/presenter"
	"consultancy-workers/pkg/calculator"
)

// ServiceInterface is what the handler needs from Service.
type ServiceInterface interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type ServiceDependencies struct {
	Table  *calculator.Table
	Logger logger.Logger
}

type Service struct {
	table  *calculator.Table
	logger logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	table := deps.Table
	if table == nil {
		table = calculator.Default()
	}
	return &Service{table: table, logger: deps.Logger}
}

// Execute computes the savings and their display strings. An unknown business
// type yields UNKNOWN_BUSINESS_TYPE carrying cleared display values.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := s.table.EvaluateValue(input.BusinessType)
	if !outcome.OK() {
		metrics.RecordCalculation("", false)
		s.logger.Warn("unknown business type", map[string]interface{}{
			"businessTypeInput":  outcome.Unknown.Input,
			"validBusinessTypes": outcome.Unknown.ValidTypes,
		})
		return nil, errors.NewUnknownBusinessTypeError(outcome.Unknown.Input, outcome.Unknown.ValidTypes).
			WithMetadata("display", presenter.Cleared())
	}

	res := outcome.Result
	metrics.RecordCalculation(res.BusinessType, true)
	s.logger.Debug("savings computed", map[string]interface{}{
		"businessType": res.BusinessType,
		"savedHours":   res.SavedHours,
		"percentSaved": res.PercentSaved,
	})

	return &Output{
		Savings: res,
		Display: presenter.Render(res),
	}, nil
}
