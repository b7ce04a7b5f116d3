package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/propagation"
	"github.com/Lixing-Zhang/storefront-menu/internal/repository"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
	"github.com/Lixing-Zhang/storefront-menu/pkg/logger"
)

// testStore holds one restaurant with a pizza category (size template,
// margherita with a crust group, calzone) and a salad category (caesar).
func testStore(t *testing.T) *repository.InMemoryStore {
	t.Helper()
	ctx := context.Background()
	s := repository.NewInMemoryStore()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	must(s.SaveRestaurant(ctx, models.Restaurant{ID: "luigis", Name: "Luigi's", Currency: "USD"}))
	must(s.SaveCategory(ctx, models.Category{ID: "pizza", RestaurantID: "luigis", Name: "Pizza", Position: 1}))
	must(s.SaveCategory(ctx, models.Category{ID: "salad", RestaurantID: "luigis", Name: "Salad", Position: 2}))
	must(s.SaveTemplate(ctx, models.CategoryTemplate{
		ID: "tpl-size", CategoryID: "pizza", DisplayOrder: 1, Active: true,
		Group: models.ModifierGroup{
			Name: "Size", IsRequired: true, MinSelections: 1, MaxSelections: 1,
			Options: []models.ModifierOption{
				{ID: "opt-small", Name: "Small"},
				{ID: "opt-large", Name: "Large", PriceDelta: 200},
			},
		},
	}))
	must(s.SaveDish(ctx, models.Dish{
		ID: "margherita", CategoryID: "pizza", Name: "Margherita", BasePrice: 1200,
		InheritanceState: models.Inherited,
		CustomGroups: []models.ModifierGroup{{
			ID: "grp-crust", Name: "Crust", MaxSelections: 1, Origin: models.DishOrigin("margherita"),
			Options: []models.ModifierOption{{ID: "opt-stuffed", Name: "Stuffed", PriceDelta: 250}},
		}},
	}))
	must(s.SaveDish(ctx, models.Dish{
		ID: "calzone", CategoryID: "pizza", Name: "Calzone", BasePrice: 1350, Position: 2,
		InheritanceState: models.Inherited,
	}))
	must(s.SaveDish(ctx, models.Dish{
		ID: "caesar", CategoryID: "salad", Name: "Caesar", BasePrice: 900,
		InheritanceState: models.Inherited,
	}))

	return s
}

type testHandlers struct {
	store *repository.InMemoryStore
	menu  *MenuHandler
	order *OrderHandler
	admin *AdminHandler
}

func newTestHandlers(t *testing.T) testHandlers {
	t.Helper()
	log := logger.New("error")
	store := testStore(t)
	menuService := service.NewMenuService(store, log, "USD", nil)

	return testHandlers{
		store: store,
		menu:  NewMenuHandler(menuService, log),
		order: NewOrderHandler(service.NewOrderService(menuService, log, 100, nil), log),
		admin: NewAdminHandler(propagation.NewService(store, log), log),
	}
}

// router mounts the handlers on their production paths.
func (h testHandlers) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/restaurants/{restaurantId}/menu", h.menu.GetMenu)
	r.Get("/api/dishes/{dishId}", h.menu.GetDish)
	r.Post("/api/dishes/{dishId}/price", h.menu.PreviewPrice)
	r.Post("/api/orders", h.order.PlaceOrder)
	r.Post("/api/admin/templates/{templateId}/apply", h.admin.ApplyToDishes)
	r.Post("/api/admin/templates/{templateId}/apply-category", h.admin.ApplyToCategory)
	r.Post("/api/admin/dishes/{dishId}/break-inheritance", h.admin.BreakInheritance)
	r.Delete("/api/admin/templates/{templateId}", h.admin.DeleteTemplate)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
