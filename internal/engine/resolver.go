package engine

import (
	"sort"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// Resolve computes the effective schema of a dish.
//
// An inherited dish gets its category's active templates in display order
// followed by its own groups in creation order. A detached dish gets only
// its own groups. Templates of other categories are ignored. The returned
// groups are copies.
func Resolve(dish models.Dish, templates []models.CategoryTemplate) models.EffectiveSchema {
	schema := models.EffectiveSchema{
		DishID: dish.ID,
		Groups: make([]models.ModifierGroup, 0, len(templates)+len(dish.CustomGroups)),
	}

	if !dish.IsDetached() {
		for _, t := range ActiveTemplates(dish.CategoryID, templates) {
			schema.Groups = append(schema.Groups, t.EffectiveGroup())
		}
	}
	for _, g := range dish.CustomGroups {
		schema.Groups = append(schema.Groups, g.Clone())
	}

	return schema
}

// ActiveTemplates filters templates down to the active ones owned by
// categoryID, ordered by display order then id.
func ActiveTemplates(categoryID string, templates []models.CategoryTemplate) []models.CategoryTemplate {
	out := make([]models.CategoryTemplate, 0, len(templates))
	for _, t := range templates {
		if t.CategoryID == categoryID && t.Active {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// InheritedGroups returns the template-origin groups of a schema.
func InheritedGroups(schema models.EffectiveSchema) []models.ModifierGroup {
	var out []models.ModifierGroup
	for _, g := range schema.Groups {
		if g.Origin.IsTemplate() {
			out = append(out, g)
		}
	}
	return out
}
