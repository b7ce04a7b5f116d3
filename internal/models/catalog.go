package models

import "fmt"

// Restaurant owns categories and fixes the menu currency.
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Category groups dishes and owns templates.
type Category struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
}

// CategoryTemplate is a reusable modifier group owned by a category.
// The group's id always equals the template id.
type CategoryTemplate struct {
	ID           string        `json:"id"`
	CategoryID   string        `json:"categoryId"`
	DisplayOrder int           `json:"displayOrder"`
	Active       bool          `json:"active"`
	Group        ModifierGroup `json:"group"`
}

// EffectiveGroup returns a copy of the template group stamped with the
// template identity and origin.
func (t CategoryTemplate) EffectiveGroup() ModifierGroup {
	g := t.Group.Clone()
	g.ID = t.ID
	g.Origin = TemplateOrigin(t.ID)
	g.SourceTemplateID = ""
	return g
}

// Validate checks the template before it is written.
func (t CategoryTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if t.CategoryID == "" {
		return fmt.Errorf("template %s: category id is required", t.ID)
	}
	return t.EffectiveGroup().Validate()
}

// Clone returns a deep copy of the template.
func (t CategoryTemplate) Clone() CategoryTemplate {
	out := t
	out.Group = t.Group.Clone()
	return out
}
