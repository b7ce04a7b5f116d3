package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore implements Store with in-memory maps guarded by one lock.
// Values are cloned on the way in and out so callers never share state.
type InMemoryStore struct {
	mu          sync.RWMutex
	restaurants map[string]models.Restaurant
	categories  map[string]models.Category
	templates   map[string]models.CategoryTemplate
	dishes      map[string]models.Dish
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		restaurants: make(map[string]models.Restaurant),
		categories:  make(map[string]models.Category),
		templates:   make(map[string]models.CategoryTemplate),
		dishes:      make(map[string]models.Dish),
	}
}

// Ping always succeeds.
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

// GetRestaurant returns a restaurant by its ID
func (s *InMemoryStore) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return models.Restaurant{}, fmt.Errorf("restaurant %s: %w", id, models.ErrRestaurantNotFound)
	}
	return r, nil
}

// ListCategories returns a restaurant's categories in display order
func (s *InMemoryStore) ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0)
	for _, c := range s.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

// GetCategory returns a category by its ID
func (s *InMemoryStore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	return c, nil
}

// ListDishes returns the dishes of a category in display order
func (s *InMemoryStore) ListDishes(ctx context.Context, categoryID string) ([]models.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Dish, 0)
	for _, d := range s.dishes {
		if d.CategoryID == categoryID {
			out = append(out, d.Clone())
		}
	}
	sortDishes(out)
	return out, nil
}

// GetDish returns a dish by its ID
func (s *InMemoryStore) GetDish(ctx context.Context, id string) (models.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dishes[id]
	if !ok {
		return models.Dish{}, fmt.Errorf("dish %s: %w", id, models.ErrDishNotFound)
	}
	return d.Clone(), nil
}

// ListTemplates returns every template of a category, active or not
func (s *InMemoryStore) ListTemplates(ctx context.Context, categoryID string) ([]models.CategoryTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CategoryTemplate, 0)
	for _, t := range s.templates {
		if t.CategoryID == categoryID {
			out = append(out, t.Clone())
		}
	}
	sortTemplates(out)
	return out, nil
}

// GetTemplate returns a template by its ID
func (s *InMemoryStore) GetTemplate(ctx context.Context, id string) (models.CategoryTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return models.CategoryTemplate{}, fmt.Errorf("template %s: %w", id, models.ErrTemplateNotFound)
	}
	return t.Clone(), nil
}

// SaveRestaurant creates or replaces a restaurant
func (s *InMemoryStore) SaveRestaurant(ctx context.Context, r models.Restaurant) error {
	if r.ID == "" {
		return fmt.Errorf("restaurant id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restaurants[r.ID] = r
	return nil
}

// SaveCategory creates or replaces a category
func (s *InMemoryStore) SaveCategory(ctx context.Context, c models.Category) error {
	if c.ID == "" {
		return fmt.Errorf("category id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.restaurants[c.RestaurantID]; !ok {
		return fmt.Errorf("category %s: restaurant %s: %w", c.ID, c.RestaurantID, models.ErrRestaurantNotFound)
	}
	s.categories[c.ID] = c
	return nil
}

// SaveTemplate creates or edits a template in place
func (s *InMemoryStore) SaveTemplate(ctx context.Context, t models.CategoryTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[t.CategoryID]; !ok {
		return fmt.Errorf("template %s: category %s: %w", t.ID, t.CategoryID, models.ErrCategoryNotFound)
	}
	for _, d := range s.dishes {
		if err := models.CheckTemplateCollisions(d, []models.CategoryTemplate{t}); err != nil {
			return err
		}
	}
	s.templates[t.ID] = t.Clone()
	return nil
}

// SaveDish creates or replaces a dish
func (s *InMemoryStore) SaveDish(ctx context.Context, d models.Dish) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[d.CategoryID]; !ok {
		return fmt.Errorf("dish %s: category %s: %w", d.ID, d.CategoryID, models.ErrCategoryNotFound)
	}
	if err := models.CheckTemplateCollisions(d, s.templateList()); err != nil {
		return err
	}
	s.dishes[d.ID] = d.Clone()
	return nil
}

// DeleteTemplate removes a template. Dish-owned copies are unaffected.
func (s *InMemoryStore) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("template %s: %w", id, models.ErrTemplateNotFound)
	}
	delete(s.templates, id)
	return nil
}

// UpdateDish applies fn to a copy of the dish under the write lock and
// stores the result only if fn and validation succeed.
func (s *InMemoryStore) UpdateDish(ctx context.Context, id string, fn func(*models.Dish) error) (models.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.dishes[id]
	if !ok {
		return models.Dish{}, fmt.Errorf("dish %s: %w", id, models.ErrDishNotFound)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return models.Dish{}, err
	}
	if next.ID != id {
		return models.Dish{}, fmt.Errorf("dish %s: id cannot change during update", id)
	}
	if err := next.Validate(); err != nil {
		return models.Dish{}, err
	}
	if err := models.CheckTemplateCollisions(next, s.templateList()); err != nil {
		return models.Dish{}, err
	}

	s.dishes[id] = next.Clone()
	return next, nil
}

// templateList must be called with s.mu held.
func (s *InMemoryStore) templateList() []models.CategoryTemplate {
	out := make([]models.CategoryTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	return out
}
