package models

import (
	"fmt"
	"strings"
)

// InheritanceState is Inherited or Detached. The transition is one-way.
type InheritanceState string

const (
	Inherited InheritanceState = "inherited"
	Detached  InheritanceState = "detached"
)

// DefaultVariantLabel names the implicit variant of a dish without sizes.
const DefaultVariantLabel = "Regular"

// SizeVariant is a named price point used as the pricing base.
type SizeVariant struct {
	Label string `json:"label"`
	Price Money  `json:"price"`
}

// Dish is a menu item. CustomGroups are kept in creation order.
type Dish struct {
	ID               string           `json:"id"`
	CategoryID       string           `json:"categoryId"`
	Name             string           `json:"name"`
	Position         int              `json:"position"`
	BasePrice        Money            `json:"basePrice"`
	SizeVariants     []SizeVariant    `json:"sizeVariants,omitempty"`
	InheritanceState InheritanceState `json:"inheritanceState"`
	CustomGroups     []ModifierGroup  `json:"customGroups,omitempty"`
}

// Variants returns the explicit size variants, or the implicit Regular
// variant priced at BasePrice.
func (d Dish) Variants() []SizeVariant {
	if len(d.SizeVariants) > 0 {
		return d.SizeVariants
	}
	return []SizeVariant{{Label: DefaultVariantLabel, Price: d.BasePrice}}
}

// IsDetached reports whether the dish no longer inherits category templates.
func (d Dish) IsDetached() bool {
	return d.InheritanceState == Detached
}

// CustomGroup looks up a dish-owned group by id.
func (d Dish) CustomGroup(id string) (ModifierGroup, bool) {
	for _, g := range d.CustomGroups {
		if g.ID == id {
			return g, true
		}
	}
	return ModifierGroup{}, false
}

// Clone returns a deep copy of the dish.
func (d Dish) Clone() Dish {
	out := d
	if d.SizeVariants != nil {
		out.SizeVariants = make([]SizeVariant, len(d.SizeVariants))
		copy(out.SizeVariants, d.SizeVariants)
	}
	out.CustomGroups = cloneGroups(d.CustomGroups)
	return out
}

// Validate checks the dish record before it is written.
func (d Dish) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("dish id is required")
	}
	if d.CategoryID == "" {
		return fmt.Errorf("dish %s: category id is required", d.ID)
	}
	switch d.InheritanceState {
	case Inherited, Detached:
	default:
		return fmt.Errorf("dish %s: unknown inheritance state %q", d.ID, d.InheritanceState)
	}
	labels := make(map[string]bool, len(d.SizeVariants))
	for _, v := range d.SizeVariants {
		key := strings.ToLower(v.Label)
		if v.Label == "" || labels[key] {
			return fmt.Errorf("dish %s: size labels must be unique and non-empty", d.ID)
		}
		labels[key] = true
	}
	ids := make(map[string]bool, len(d.CustomGroups))
	for _, g := range d.CustomGroups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("dish %s: %w", d.ID, err)
		}
		if ids[g.ID] {
			return fmt.Errorf("%w: dish %s has duplicate group %s", ErrInvalidGroup, d.ID, g.ID)
		}
		ids[g.ID] = true
		if g.Origin.Kind != OriginDishCustom || g.Origin.DishID != d.ID {
			return fmt.Errorf("%w: dish %s owns group %s with foreign origin", ErrInvalidGroup, d.ID, g.ID)
		}
	}
	return nil
}

// CheckTemplateCollisions fails with ErrGroupIDCollision when an inherited
// dish owns a custom group whose id is also the id of one of its category's
// templates. Template groups carry the template id in the effective schema,
// so both would answer to the same selection key.
func CheckTemplateCollisions(d Dish, templates []CategoryTemplate) error {
	if d.IsDetached() {
		return nil
	}
	for _, t := range templates {
		if t.CategoryID != d.CategoryID {
			continue
		}
		if _, ok := d.CustomGroup(t.ID); ok {
			return fmt.Errorf("%w: dish %s group %s", ErrGroupIDCollision, d.ID, t.ID)
		}
	}
	return nil
}
