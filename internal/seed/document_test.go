package seed

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-menu/internal/engine"
	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/repository"
)

func loadSample(t *testing.T) *Document {
	t.Helper()
	f, err := os.Open(sampleMenu)
	require.NoError(t, err)
	defer f.Close()

	doc, err := Parse(f)
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	doc := loadSample(t)

	require.Len(t, doc.Restaurants, 1)
	pizza := doc.Restaurants[0].Categories[0]
	assert.Equal(t, "pizza", pizza.ID)
	require.Len(t, pizza.Templates, 3)
	assert.Equal(t, Amount(150), pizza.Templates[1].Options[0].Price)
	assert.Equal(t, Amount(100), pizza.Templates[1].Options[1].Price)
	assert.Equal(t, Amount(-25), pizza.Templates[1].Options[2].Price)
	assert.Equal(t, Amount(1350), pizza.Dishes[1].BasePrice)

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty document", input: "", wantErr: ""},
		{name: "unknown key", input: "restaurants:\n  - id: r1\n    owner: bob\n", wantErr: "owner"},
		{name: "bad amount", input: "restaurants:\n  - id: r1\n    categories:\n      - id: c1\n        dishes:\n          - id: d1\n            basePrice: cheap\n", wantErr: "invalid money amount"},
		{name: "amount not scalar", input: "restaurants:\n  - id: r1\n    categories:\n      - id: c1\n        dishes:\n          - id: d1\n            basePrice: [1]\n", wantErr: "must be a scalar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDocument_Apply(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryStore()

	stats, err := loadSample(t).Apply(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Stats{Restaurants: 1, Categories: 2, Templates: 4, Dishes: 4}, stats)

	r, err := store.GetRestaurant(ctx, "luigis")
	require.NoError(t, err)
	assert.Equal(t, "USD", r.Currency)

	cats, err := store.ListCategories(ctx, "luigis")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, []int{1, 2}, []int{cats[0].Position, cats[1].Position})

	dips, err := store.GetTemplate(ctx, "tpl-dips")
	require.NoError(t, err)
	assert.False(t, dips.Active)

	margherita, err := store.GetDish(ctx, "margherita")
	require.NoError(t, err)
	assert.Equal(t, models.Money(800), margherita.SizeVariants[0].Price)
	require.Len(t, margherita.CustomGroups, 1)
	assert.Equal(t, models.DishOrigin("margherita"), margherita.CustomGroups[0].Origin)

	templates, err := store.ListTemplates(ctx, "pizza")
	require.NoError(t, err)
	schema := engine.Resolve(margherita, templates)
	ids := make([]string, 0, len(schema.Groups))
	for _, g := range schema.Groups {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"tpl-size", "tpl-toppings", "grp-crust"}, ids)

	seasonal, err := store.GetDish(ctx, "seasonal")
	require.NoError(t, err)
	assert.True(t, seasonal.IsDetached())
	assert.Len(t, engine.Resolve(seasonal, templates).Groups, 1)
}

func TestDocument_ApplyRejectsInvalidGroups(t *testing.T) {
	input := `
restaurants:
  - id: r1
    currency: USD
    categories:
      - id: c1
        templates:
          - id: broken
            required: true
            min: 0
`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	stats, err := doc.Apply(context.Background(), repository.NewInMemoryStore())
	assert.ErrorIs(t, err, models.ErrInvalidGroup)
	assert.Equal(t, 1, stats.Categories)
	assert.Equal(t, 0, stats.Templates)
}

func TestDocument_ApplyRejectsGroupShadowingTemplate(t *testing.T) {
	input := `
restaurants:
  - id: r1
    currency: USD
    categories:
      - id: c1
        templates:
          - id: sauce
            name: Sauce
            options:
              - {id: tomato, name: Tomato}
        dishes:
          - id: d1
            name: Pasta
            basePrice: "9.00"
            groups:
              - id: sauce
                name: House sauce
                options:
                  - {id: pesto, name: Pesto, price: "1.00"}
`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	stats, err := doc.Apply(context.Background(), repository.NewInMemoryStore())
	assert.ErrorIs(t, err, models.ErrGroupIDCollision)
	assert.Equal(t, 1, stats.Templates)
	assert.Equal(t, 0, stats.Dishes)
}

func TestApplyAll(t *testing.T) {
	extra, err := Parse(strings.NewReader(extraMenu))
	require.NoError(t, err)

	store := repository.NewInMemoryStore()
	stats, err := ApplyAll(context.Background(), store, []*Document{loadSample(t), extra})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Restaurants)
	assert.Equal(t, 5, stats.Dishes)

	latte, err := store.GetDish(context.Background(), "latte")
	require.NoError(t, err)
	assert.Equal(t, models.Money(320), latte.BasePrice)
}
