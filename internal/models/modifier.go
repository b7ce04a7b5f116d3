package models

import "fmt"

// OriginKind tags where a modifier group comes from.
type OriginKind string

const (
	OriginCategoryTemplate OriginKind = "category_template"
	OriginDishCustom       OriginKind = "dish_custom"
)

// Origin is a tagged variant: CategoryTemplate{TemplateID} or DishCustom{DishID}.
type Origin struct {
	Kind       OriginKind `json:"kind"`
	TemplateID string     `json:"templateId,omitempty"`
	DishID     string     `json:"dishId,omitempty"`
}

// TemplateOrigin marks a group as inherited from a category template.
func TemplateOrigin(templateID string) Origin {
	return Origin{Kind: OriginCategoryTemplate, TemplateID: templateID}
}

// DishOrigin marks a group as owned by a dish.
func DishOrigin(dishID string) Origin {
	return Origin{Kind: OriginDishCustom, DishID: dishID}
}

// IsTemplate reports whether the group is inherited from a category template.
func (o Origin) IsTemplate() bool {
	return o.Kind == OriginCategoryTemplate
}

// ModifierOption is one selectable choice inside a group.
type ModifierOption struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	PriceDelta          Money  `json:"priceDelta"`
	IsIncludedByDefault bool   `json:"isIncludedByDefault"`
}

// ModifierGroup is an ordered set of options plus selection constraints.
// MaxSelections == 0 means unlimited.
type ModifierGroup struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	IsRequired    bool             `json:"isRequired"`
	MinSelections uint             `json:"minSelections"`
	MaxSelections uint             `json:"maxSelections"`
	Options       []ModifierOption `json:"options"`
	Origin        Origin           `json:"origin"`

	// SourceTemplateID records the template a dish-owned group was copied
	// from. Lineage only; resolution never follows it.
	SourceTemplateID string `json:"sourceTemplateId,omitempty"`
}

// Validate checks the group's structural invariants.
func (g ModifierGroup) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidGroup)
	}
	if g.MaxSelections != 0 && g.MinSelections > g.MaxSelections {
		return fmt.Errorf("%w: group %s has minSelections %d above maxSelections %d",
			ErrInvalidGroup, g.ID, g.MinSelections, g.MaxSelections)
	}
	if g.IsRequired && g.MinSelections < 1 {
		return fmt.Errorf("%w: required group %s must have minSelections >= 1", ErrInvalidGroup, g.ID)
	}
	seen := make(map[string]bool, len(g.Options))
	for _, opt := range g.Options {
		if opt.ID == "" {
			return fmt.Errorf("%w: group %s has an option without id", ErrInvalidGroup, g.ID)
		}
		if seen[opt.ID] {
			return fmt.Errorf("%w: group %s has duplicate option %s", ErrInvalidGroup, g.ID, opt.ID)
		}
		seen[opt.ID] = true
	}
	return nil
}

// Option looks up an option by id.
func (g ModifierGroup) Option(id string) (ModifierOption, bool) {
	for _, opt := range g.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return ModifierOption{}, false
}

// IsVacuous reports whether the group has no options. Such a group is
// always satisfiable and never enforced as required.
func (g ModifierGroup) IsVacuous() bool {
	return len(g.Options) == 0
}

// Clone returns a deep copy of the group.
func (g ModifierGroup) Clone() ModifierGroup {
	out := g
	if g.Options != nil {
		out.Options = make([]ModifierOption, len(g.Options))
		copy(out.Options, g.Options)
	}
	return out
}

func cloneGroups(groups []ModifierGroup) []ModifierGroup {
	if groups == nil {
		return nil
	}
	out := make([]ModifierGroup, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}
