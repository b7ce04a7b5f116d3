package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/repository"
)

// newMenuStore seeds a pizzeria (USD), a cafe (EUR) and a food truck
// without a currency.
func newMenuStore(t *testing.T) *repository.InMemoryStore {
	t.Helper()
	ctx := context.Background()
	s := repository.NewInMemoryStore()

	require.NoError(t, s.SaveRestaurant(ctx, models.Restaurant{ID: "luigis", Name: "Luigi's", Currency: "USD"}))
	require.NoError(t, s.SaveRestaurant(ctx, models.Restaurant{ID: "cafe", Name: "Cafe", Currency: "EUR"}))
	require.NoError(t, s.SaveRestaurant(ctx, models.Restaurant{ID: "truck", Name: "Truck"}))

	require.NoError(t, s.SaveCategory(ctx, models.Category{ID: "pizza", RestaurantID: "luigis", Name: "Pizza", Position: 1}))
	require.NoError(t, s.SaveCategory(ctx, models.Category{ID: "sides", RestaurantID: "luigis", Name: "Sides", Position: 2}))
	require.NoError(t, s.SaveCategory(ctx, models.Category{ID: "drinks", RestaurantID: "cafe", Name: "Drinks"}))
	require.NoError(t, s.SaveCategory(ctx, models.Category{ID: "tacos", RestaurantID: "truck", Name: "Tacos"}))

	require.NoError(t, s.SaveTemplate(ctx, models.CategoryTemplate{
		ID: "tpl-size", CategoryID: "pizza", DisplayOrder: 1, Active: true,
		Group: models.ModifierGroup{
			Name: "Size", IsRequired: true, MinSelections: 1, MaxSelections: 1,
			Options: []models.ModifierOption{
				{ID: "opt-small", Name: "Small"},
				{ID: "opt-large", Name: "Large", PriceDelta: 200},
			},
		},
	}))
	require.NoError(t, s.SaveTemplate(ctx, models.CategoryTemplate{
		ID: "tpl-toppings", CategoryID: "pizza", DisplayOrder: 2, Active: true,
		Group: models.ModifierGroup{
			Name: "Toppings", MaxSelections: 3,
			Options: []models.ModifierOption{
				{ID: "opt-cheese", Name: "Extra Cheese", PriceDelta: 150, IsIncludedByDefault: true},
				{ID: "opt-olives", Name: "Olives", PriceDelta: 100},
			},
		},
	}))

	require.NoError(t, s.SaveDish(ctx, models.Dish{
		ID: "margherita", CategoryID: "pizza", Name: "Margherita", BasePrice: 1200,
		InheritanceState: models.Inherited,
		SizeVariants: []models.SizeVariant{
			{Label: "Small", Price: 800},
			{Label: "Large", Price: 1400},
		},
		CustomGroups: []models.ModifierGroup{{
			ID: "grp-crust", Name: "Crust", MaxSelections: 1, Origin: models.DishOrigin("margherita"),
			Options: []models.ModifierOption{
				{ID: "opt-thin", Name: "Thin"},
				{ID: "opt-stuffed", Name: "Stuffed", PriceDelta: 250},
			},
		}},
	}))
	require.NoError(t, s.SaveDish(ctx, models.Dish{
		ID: "fries", CategoryID: "sides", Name: "Fries", BasePrice: 400, Position: 1,
		InheritanceState: models.Inherited,
	}))
	require.NoError(t, s.SaveDish(ctx, models.Dish{
		ID: "latte", CategoryID: "drinks", Name: "Latte", BasePrice: 320,
		InheritanceState: models.Inherited,
	}))
	require.NoError(t, s.SaveDish(ctx, models.Dish{
		ID: "al-pastor", CategoryID: "tacos", Name: "Al Pastor", BasePrice: 350,
		InheritanceState: models.Inherited,
	}))

	return s
}

func largeWithToppings() models.Selection {
	return models.Selection{
		"tpl-size":     {{OptionID: "opt-large"}},
		"tpl-toppings": {{OptionID: "opt-cheese", Quantity: 2}, {OptionID: "opt-olives"}},
	}
}

type recordingObserver struct {
	validations []models.ValidationResult
	orders      int
}

func (r *recordingObserver) ObserveValidation(result models.ValidationResult) {
	r.validations = append(r.validations, result)
}

func (r *recordingObserver) ObserveOrder() {
	r.orders++
}
