package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/storefront-menu/internal/engine"
	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// CatalogReader is the read side of the menu store.
type CatalogReader interface {
	GetRestaurant(ctx context.Context, id string) (models.Restaurant, error)
	ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	ListDishes(ctx context.Context, categoryID string) ([]models.Dish, error)
	GetDish(ctx context.Context, id string) (models.Dish, error)
	ListTemplates(ctx context.Context, categoryID string) ([]models.CategoryTemplate, error)
}

// ValidationObserver is told about every selection the service validates.
type ValidationObserver interface {
	ObserveValidation(result models.ValidationResult)
}

// Menu is a restaurant's full customer-facing menu.
type Menu struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Categories []MenuCategory    `json:"categories"`
}

// MenuCategory is one category of a menu with its dishes in display order.
type MenuCategory struct {
	Category models.Category `json:"category"`
	Dishes   []MenuDish      `json:"dishes"`
}

// MenuDish pairs a dish with its resolved schema.
type MenuDish struct {
	Dish   models.Dish            `json:"dish"`
	Schema models.EffectiveSchema `json:"schema"`
}

// ResolvedDish is everything needed to validate and price a dish.
type ResolvedDish struct {
	Dish     models.Dish
	Schema   models.EffectiveSchema
	Currency string
}

// PricePreview is the answer to a price request for one dish unit.
type PricePreview struct {
	DishID     string                  `json:"dishId"`
	Price      models.PriceBreakdown   `json:"price"`
	Validation models.ValidationResult `json:"validation"`
}

// MenuService serves menu reads and price previews
type MenuService struct {
	store           CatalogReader
	logger          *slog.Logger
	defaultCurrency string
	observer        ValidationObserver
}

// NewMenuService creates a new menu service. defaultCurrency applies to
// restaurants that do not set one.
func NewMenuService(store CatalogReader, logger *slog.Logger, defaultCurrency string, observer ValidationObserver) *MenuService {
	return &MenuService{
		store:           store,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		observer:        observer,
	}
}

// GetMenu returns every category of a restaurant with its dishes and
// their effective schemas.
func (s *MenuService) GetMenu(ctx context.Context, restaurantID string) (*Menu, error) {
	restaurant, err := s.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	menu := &Menu{
		Restaurant: restaurant,
		Categories: make([]MenuCategory, 0, len(categories)),
	}
	for _, c := range categories {
		templates, err := s.store.ListTemplates(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list templates of category %s: %w", c.ID, err)
		}
		dishes, err := s.store.ListDishes(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list dishes of category %s: %w", c.ID, err)
		}

		mc := MenuCategory{Category: c, Dishes: make([]MenuDish, 0, len(dishes))}
		for _, d := range dishes {
			mc.Dishes = append(mc.Dishes, MenuDish{Dish: d, Schema: engine.Resolve(d, templates)})
		}
		menu.Categories = append(menu.Categories, mc)
	}

	return menu, nil
}

// GetDish returns one dish and its effective schema.
func (s *MenuService) GetDish(ctx context.Context, dishID string) (*MenuDish, error) {
	rd, err := s.ResolveDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return &MenuDish{Dish: rd.Dish, Schema: rd.Schema}, nil
}

// ResolveDish loads a dish, its category templates and its menu currency.
func (s *MenuService) ResolveDish(ctx context.Context, dishID string) (ResolvedDish, error) {
	dish, err := s.store.GetDish(ctx, dishID)
	if err != nil {
		return ResolvedDish{}, err
	}
	templates, err := s.store.ListTemplates(ctx, dish.CategoryID)
	if err != nil {
		return ResolvedDish{}, fmt.Errorf("list templates of category %s: %w", dish.CategoryID, err)
	}
	currency, err := s.currencyOf(ctx, dish.CategoryID)
	if err != nil {
		return ResolvedDish{}, err
	}

	return ResolvedDish{
		Dish:     dish,
		Schema:   engine.Resolve(dish, templates),
		Currency: currency,
	}, nil
}

// PreviewPrice validates a selection and prices one unit of the dish.
// The price is computed even for an invalid selection so clients can show
// a running total while the customer is still choosing.
func (s *MenuService) PreviewPrice(ctx context.Context, dishID, size string, selection models.Selection) (*PricePreview, error) {
	rd, err := s.ResolveDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	validation := s.validate(rd, size, selection)
	price, err := engine.CalculatePrice(rd.Dish, rd.Schema, size, selection, rd.Currency)
	if err != nil {
		return nil, fmt.Errorf("price dish %s: %w", dishID, err)
	}

	return &PricePreview{DishID: dishID, Price: price, Validation: validation}, nil
}

// validate runs the selection validator and adds a finding for an
// explicit size the dish does not offer.
func (s *MenuService) validate(rd ResolvedDish, size string, selection models.Selection) models.ValidationResult {
	result := engine.Validate(rd.Schema, selection)
	if size != "" {
		if _, ok := engine.FindVariant(rd.Dish, size); !ok {
			result.Errors = append([]models.ValidationError{{
				Kind:    models.KindUnknownSizeVariant,
				Message: fmt.Sprintf("size %q is not offered for %s", size, rd.Dish.Name),
			}}, result.Errors...)
			result.IsValid = false
		}
	}
	if s.observer != nil && !result.IsValid {
		s.observer.ObserveValidation(result)
	}
	return result
}

func (s *MenuService) currencyOf(ctx context.Context, categoryID string) (string, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}
	restaurant, err := s.store.GetRestaurant(ctx, category.RestaurantID)
	if err != nil {
		return "", err
	}
	if restaurant.Currency == "" {
		return s.defaultCurrency, nil
	}
	return restaurant.Currency, nil
}
