package models

import "sort"

// EffectiveSchema is the resolved, ordered list of groups offered for a
// dish. It is derived on every read and never persisted.
type EffectiveSchema struct {
	DishID string          `json:"dishId"`
	Groups []ModifierGroup `json:"groups"`
}

// Group looks up a group by id.
func (s EffectiveSchema) Group(id string) (ModifierGroup, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return ModifierGroup{}, false
}

const (
	// MaxChoiceQuantity bounds the quantity of a single choice.
	MaxChoiceQuantity uint = 99
	// MaxMultiplier bounds a choice's multiplier, in percent.
	MaxMultiplier uint = 1000
)

// Choice is one selected option with a quantity and an opaque multiplier
// in percent. Zero values read as quantity 1 and multiplier 100.
type Choice struct {
	OptionID   string `json:"optionId"`
	Quantity   uint   `json:"quantity,omitempty"`
	Multiplier uint   `json:"multiplier,omitempty"`
}

// Units returns the chosen quantity.
func (c Choice) Units() uint {
	if c.Quantity == 0 {
		return 1
	}
	return c.Quantity
}

// Percent returns the multiplier in percent.
func (c Choice) Percent() uint {
	if c.Multiplier == 0 {
		return 100
	}
	return c.Multiplier
}

// InRange reports whether the quantity and multiplier are within
// MaxChoiceQuantity and MaxMultiplier.
func (c Choice) InRange() bool {
	return c.Units() <= MaxChoiceQuantity && c.Percent() <= MaxMultiplier
}

// Selection is the customer's input: choices keyed by group id.
type Selection map[string][]Choice

// GroupIDs returns the selected group ids in lexical order.
func (s Selection) GroupIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
