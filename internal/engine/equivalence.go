package engine

import "github.com/Lixing-Zhang/storefront-menu/internal/models"

// Equivalent reports whether two schemas offer the customer the same thing:
// same groups in the same order with identical names, constraints and
// options. Group ids, origins and lineage are ignored.
func Equivalent(a, b models.EffectiveSchema) bool {
	if a.DishID != b.DishID || len(a.Groups) != len(b.Groups) {
		return false
	}
	for i := range a.Groups {
		if !equivalentGroup(a.Groups[i], b.Groups[i]) {
			return false
		}
	}
	return true
}

func equivalentGroup(a, b models.ModifierGroup) bool {
	if a.Name != b.Name ||
		a.IsRequired != b.IsRequired ||
		a.MinSelections != b.MinSelections ||
		a.MaxSelections != b.MaxSelections ||
		len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if a.Options[i] != b.Options[i] {
			return false
		}
	}
	return true
}
