package engine

import "github.com/Lixing-Zhang/storefront-menu/internal/models"

func sizeTemplate(categoryID string, order int) models.CategoryTemplate {
	return models.CategoryTemplate{
		ID:           "tpl-size",
		CategoryID:   categoryID,
		DisplayOrder: order,
		Active:       true,
		Group: models.ModifierGroup{
			Name:          "Size",
			IsRequired:    true,
			MinSelections: 1,
			MaxSelections: 1,
			Options: []models.ModifierOption{
				{ID: "opt-small", Name: "Small"},
				{ID: "opt-large", Name: "Large", PriceDelta: 200},
			},
		},
	}
}

func toppingTemplate(categoryID string, order int) models.CategoryTemplate {
	return models.CategoryTemplate{
		ID:           "tpl-toppings",
		CategoryID:   categoryID,
		DisplayOrder: order,
		Active:       true,
		Group: models.ModifierGroup{
			Name:          "Toppings",
			MaxSelections: 3,
			Options: []models.ModifierOption{
				{ID: "opt-cheese", Name: "Cheese", PriceDelta: 150, IsIncludedByDefault: true},
				{ID: "opt-olives", Name: "Olives", PriceDelta: 100},
				{ID: "opt-no-onion", Name: "No onion", PriceDelta: -25},
			},
		},
	}
}

func customSauce(dishID string) models.ModifierGroup {
	return models.ModifierGroup{
		ID:            "grp-sauce",
		Name:          "Sauce",
		MaxSelections: 1,
		Origin:        models.DishOrigin(dishID),
		Options: []models.ModifierOption{
			{ID: "opt-bbq", Name: "BBQ", PriceDelta: 50},
		},
	}
}

func pizza() models.Dish {
	return models.Dish{
		ID:               "dish-pizza",
		CategoryID:       "cat-pizza",
		Name:             "Margherita",
		BasePrice:        1200,
		InheritanceState: models.Inherited,
		CustomGroups:     []models.ModifierGroup{customSauce("dish-pizza")},
	}
}
