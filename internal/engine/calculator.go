package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// FindVariant looks up a size variant by label, exact match first and then
// case-insensitively.
func FindVariant(dish models.Dish, label string) (models.SizeVariant, bool) {
	variants := dish.Variants()
	for _, v := range variants {
		if v.Label == label {
			return v, true
		}
	}
	for _, v := range variants {
		if strings.EqualFold(v.Label, label) {
			return v, true
		}
	}
	return models.SizeVariant{}, false
}

// CalculatePrice prices one unit of a dish.
//
// The base price comes from the variant labelled sizeLabel, falling back to
// the dish's first variant. Each known choice contributes
// priceDelta × paidQuantity × multiplier%, where the first unit of an
// included-by-default option is free once per group. Choices that do not
// match the schema are skipped; admissibility is the validator's job.
// A choice outside MaxChoiceQuantity or MaxMultiplier fails with
// ErrQuantityOutOfRange and totals leaving the int64 range fail with
// ErrPriceOverflow.
func CalculatePrice(
	dish models.Dish,
	schema models.EffectiveSchema,
	sizeLabel string,
	selection models.Selection,
	currency string,
) (models.PriceBreakdown, error) {
	variant, ok := FindVariant(dish, sizeLabel)
	if !ok {
		variants := dish.Variants()
		if len(variants) == 0 {
			return models.PriceBreakdown{}, models.ErrUnknownSizeVariant
		}
		variant = variants[0]
	}

	breakdown := models.PriceBreakdown{
		SizeLabel: variant.Label,
		BasePrice: variant.Price,
		Currency:  currency,
	}

	for _, group := range schema.Groups {
		choices := selection[group.ID]
		if len(choices) == 0 {
			continue
		}
		freeTaken := make(map[string]bool)
		for _, choice := range choices {
			opt, ok := group.Option(choice.OptionID)
			if !ok {
				continue
			}
			if !choice.InRange() {
				return models.PriceBreakdown{}, fmt.Errorf("option %s in %s: %w", opt.ID, group.ID, models.ErrQuantityOutOfRange)
			}
			units := choice.Units()
			paid := units
			if opt.IsIncludedByDefault && !freeTaken[opt.ID] {
				freeTaken[opt.ID] = true
				paid--
			}
			amount, err := contribution(opt.PriceDelta, paid, choice.Percent())
			if err != nil {
				return models.PriceBreakdown{}, fmt.Errorf("option %s in %s: %w", opt.ID, group.ID, err)
			}
			if breakdown.ModifierTotal, err = breakdown.ModifierTotal.Add(amount); err != nil {
				return models.PriceBreakdown{}, err
			}
			breakdown.Lines = append(breakdown.Lines, models.PricedChoice{
				GroupID:      group.ID,
				GroupName:    group.Name,
				OptionID:     opt.ID,
				OptionName:   opt.Name,
				PriceDelta:   opt.PriceDelta,
				Quantity:     units,
				PaidQuantity: paid,
				Multiplier:   choice.Percent(),
				Amount:       amount,
			})
		}
	}

	total, err := breakdown.BasePrice.Add(breakdown.ModifierTotal)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	breakdown.TotalPrice = total
	return breakdown, nil
}

// contribution rounds fractional multipliers half away from zero.
// paid and percent are already bounded by the in-range check.
func contribution(delta models.Money, paid, percent uint) (models.Money, error) {
	if paid == 0 || delta == 0 {
		return 0, nil
	}
	if percent == 100 {
		return delta.Times(int64(paid))
	}
	amount := decimal.NewFromInt(int64(delta)).
		Mul(decimal.NewFromInt(int64(paid))).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	if !amount.Equal(decimal.NewFromInt(amount.IntPart())) {
		return 0, models.ErrPriceOverflow
	}
	return models.Money(amount.IntPart()), nil
}
