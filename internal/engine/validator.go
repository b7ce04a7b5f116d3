package engine

import (
	"fmt"
	"math"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// Validate decides whether a selection is admissible for a schema.
//
// Groups are checked in schema order: unknown and out-of-range choices
// first, then at most one quantity finding (missing required group, below
// minimum, above maximum). Totals count known, in-range choices only and
// groups without options are never enforced. Selected groups absent from the schema are reported last,
// sorted by id. A nil selection is an empty selection.
func Validate(schema models.EffectiveSchema, selection models.Selection) models.ValidationResult {
	errs := make([]models.ValidationError, 0)
	known := make(map[string]bool, len(schema.Groups))

	for _, group := range schema.Groups {
		known[group.ID] = true

		var total uint
		for _, choice := range selection[group.ID] {
			if _, ok := group.Option(choice.OptionID); !ok {
				errs = append(errs, models.ValidationError{
					Kind:      models.KindUnknownOption,
					GroupID:   group.ID,
					GroupName: group.Name,
					OptionID:  choice.OptionID,
					Message:   fmt.Sprintf("%q is no longer available for %s", choice.OptionID, group.Name),
				})
				continue
			}
			if !choice.InRange() {
				errs = append(errs, models.ValidationError{
					Kind:      models.KindQuantityOutOfRange,
					GroupID:   group.ID,
					GroupName: group.Name,
					OptionID:  choice.OptionID,
					Selected:  choice.Units(),
					Limit:     models.MaxChoiceQuantity,
					Message:   fmt.Sprintf("Choose at most %d of each %s option", models.MaxChoiceQuantity, group.Name),
				})
				continue
			}
			total = addUnits(total, choice.Units())
		}

		if group.IsVacuous() {
			continue
		}
		if e, ok := checkQuantity(group, total); ok {
			errs = append(errs, e)
		}
	}

	for _, id := range selection.GroupIDs() {
		if known[id] {
			continue
		}
		errs = append(errs, models.ValidationError{
			Kind:    models.KindUnknownGroup,
			GroupID: id,
			Message: fmt.Sprintf("customization %q is no longer offered for this dish", id),
		})
	}

	return models.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// addUnits saturates instead of wrapping.
func addUnits(total, units uint) uint {
	if units > math.MaxUint-total {
		return math.MaxUint
	}
	return total + units
}

func checkQuantity(group models.ModifierGroup, total uint) (models.ValidationError, bool) {
	e := models.ValidationError{
		GroupID:   group.ID,
		GroupName: group.Name,
		Selected:  total,
	}

	switch {
	case group.IsRequired && total == 0:
		e.Kind = models.KindMissingRequiredGroup
		e.Limit = max(group.MinSelections, 1)
		e.Message = fmt.Sprintf("Choose at least %d %s", e.Limit, group.Name)
	case total < group.MinSelections:
		e.Kind = models.KindBelowMinimum
		e.Limit = group.MinSelections
		e.Message = fmt.Sprintf("Choose at least %d %s", e.Limit, group.Name)
	case group.MaxSelections != 0 && total > group.MaxSelections:
		e.Kind = models.KindAboveMaximum
		e.Limit = group.MaxSelections
		e.Message = fmt.Sprintf("Choose at most %d %s", e.Limit, group.Name)
	default:
		return models.ValidationError{}, false
	}
	return e, true
}
