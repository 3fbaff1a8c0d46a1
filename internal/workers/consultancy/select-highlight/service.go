package selecthighlight

import (
	"context"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/highlight"
)

type ServiceInterface interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Service struct {
	card   *highlight.Card
	logger logger.Logger
}

func NewService(card *highlight.Card, log logger.Logger) *Service {
	if card == nil {
		card = highlight.DefaultCard()
	}
	return &Service{card: card, logger: log}
}

// CardFromConfig builds the card from highlight.variants, or the defaults
// when none are configured.
func CardFromConfig(cfg config.HighlightConfig) (*highlight.Card, error) {
	if len(cfg.Variants) == 0 {
		return highlight.DefaultCard(), nil
	}
	variants := make([]highlight.Variant, len(cfg.Variants))
	for i, v := range cfg.Variants {
		variants[i] = highlight.Variant{
			Key:         v.Key,
			Title:       v.Title,
			Body:        v.Body,
			MetricLabel: v.MetricLabel,
			MetricValue: v.MetricValue,
		}
	}
	return highlight.NewCard(variants)
}

// Execute returns the variant to show. With toggle set the variant opposite
// to input.Variant is chosen; otherwise input.Variant itself, or the first
// variant when none is named.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		v   highlight.Variant
		err error
	)
	switch {
	case input.Toggle:
		v, err = s.card.Toggle(input.Variant)
	case input.Variant == "":
		v = s.card.First()
	default:
		v, err = s.card.Select(input.Variant)
	}
	if err != nil {
		s.logger.Warn("unknown highlight variant", map[string]interface{}{
			"variantInput":  input.Variant,
			"validVariants": s.card.Keys(),
		})
		return nil, errors.NewUnknownHighlightVariantError(input.Variant, s.card.Keys())
	}

	return &Output{Highlight: v}, nil
}
