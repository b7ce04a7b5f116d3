package repository

import (
	"context"
	"sort"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// Store defines the persistence contract for restaurants, categories,
// templates and dishes.
//
// UpdateDish is the only way to mutate an existing dish from the engine
// side: it is one atomic read-modify-write keyed by dish id. If fn returns
// an error nothing is written.
type Store interface {
	GetRestaurant(ctx context.Context, id string) (models.Restaurant, error)
	ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	ListDishes(ctx context.Context, categoryID string) ([]models.Dish, error)
	GetDish(ctx context.Context, id string) (models.Dish, error)
	ListTemplates(ctx context.Context, categoryID string) ([]models.CategoryTemplate, error)
	GetTemplate(ctx context.Context, id string) (models.CategoryTemplate, error)

	SaveRestaurant(ctx context.Context, r models.Restaurant) error
	SaveCategory(ctx context.Context, c models.Category) error
	SaveTemplate(ctx context.Context, t models.CategoryTemplate) error
	SaveDish(ctx context.Context, d models.Dish) error
	DeleteTemplate(ctx context.Context, id string) error
	UpdateDish(ctx context.Context, id string, fn func(*models.Dish) error) (models.Dish, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].ID < categories[j].ID
	})
}

func sortDishes(dishes []models.Dish) {
	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].Position != dishes[j].Position {
			return dishes[i].Position < dishes[j].Position
		}
		return dishes[i].ID < dishes[j].ID
	})
}

func sortTemplates(templates []models.CategoryTemplate) {
	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].DisplayOrder != templates[j].DisplayOrder {
			return templates[i].DisplayOrder < templates[j].DisplayOrder
		}
		return templates[i].ID < templates[j].ID
	})
}
