// Package highlight models the two-variant highlight card on the landing
// page: one variant is shown at a time and the visitor can swap to the other.
package highlight

import (
	"fmt"
	"strings"
)

// Variant is the text and metric shown for one side of the card.
type Variant struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	MetricLabel string `json:"metricLabel"`
	MetricValue string `json:"metricValue"`
}

// Card holds exactly two variants with distinct keys.
type Card struct {
	variants [2]Variant
}

// DefaultVariants is used when no variants are configured.
var DefaultVariants = []Variant{
	{
		Key:         "automation",
		Title:       "Automate the busywork",
		Body:        "We map your recurring admin and replace it with workflows that run themselves.",
		MetricLabel: "Average hours saved per week",
		MetricValue: "18",
	},
	{
		Key:         "strategy",
		Title:       "Plan the next quarter",
		Body:        "A fixed-scope engagement that turns reclaimed hours into a growth plan.",
		MetricLabel: "Clients who renewed",
		MetricValue: "92%",
	},
}

// UnknownVariantError is returned by Select for a key that is on neither side.
type UnknownVariantError struct {
	Input     string
	ValidKeys []string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown highlight variant %q: valid variants are %s",
		e.Input, strings.Join(e.ValidKeys, ", "))
}

// NewCard validates variants. Keys are lower-cased.
func NewCard(variants []Variant) (*Card, error) {
	if len(variants) != 2 {
		return nil, fmt.Errorf("highlight card needs exactly 2 variants, got %d", len(variants))
	}

	c := &Card{}
	for i, v := range variants {
		v.Key = strings.ToLower(strings.TrimSpace(v.Key))
		if v.Key == "" {
			return nil, fmt.Errorf("highlight variant %d: key is required", i)
		}
		c.variants[i] = v
	}
	if c.variants[0].Key == c.variants[1].Key {
		return nil, fmt.Errorf("highlight variants share key %q", c.variants[0].Key)
	}
	return c, nil
}

func DefaultCard() *Card {
	c, err := NewCard(DefaultVariants)
	if err != nil {
		panic(err)
	}
	return c
}

// Keys returns the variant keys in card order.
func (c *Card) Keys() []string {
	return []string{c.variants[0].Key, c.variants[1].Key}
}

// First is the variant shown before any interaction.
func (c *Card) First() Variant {
	return c.variants[0]
}

// Select returns the variant for key, matched case-insensitively.
func (c *Card) Select(key string) (Variant, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, v := range c.variants {
		if v.Key == k {
			return v, nil
		}
	}
	return Variant{}, &UnknownVariantError{Input: key, ValidKeys: c.Keys()}
}

// Toggle returns the variant opposite to current. An empty current means
// nothing is shown yet, so the first variant is returned.
func (c *Card) Toggle(current string) (Variant, error) {
	if strings.TrimSpace(current) == "" {
		return c.variants[0], nil
	}
	v, err := c.Select(current)
	if err != nil {
		return Variant{}, err
	}
	if v.Key == c.variants[0].Key {
		return c.variants[1], nil
	}
	return c.variants[0], nil
}
