package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/pkg/logger"
)

func newOrderService(t *testing.T, obs OrderObserver) *OrderService {
	t.Helper()
	log := logger.New("error")
	menu := NewMenuService(newMenuStore(t), log, "USD", nil)
	svc := NewOrderService(menu, log, 100, obs)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     models.OrderRequest
		wantErr error
	}{
		{
			name: "valid order with single item",
			req: models.OrderRequest{
				Items: []models.OrderItem{
					{DishID: "margherita", Size: "Large", Quantity: 2, Selection: largeWithToppings()},
				},
			},
			wantErr: nil,
		},
		{
			name: "valid order with multiple items",
			req: models.OrderRequest{
				Items: []models.OrderItem{
					{DishID: "margherita", Quantity: 1, Selection: models.Selection{"tpl-size": {{OptionID: "opt-small"}}}},
					{DishID: "fries", Quantity: 3},
				},
			},
			wantErr: nil,
		},
		{
			name:    "empty order",
			req:     models.OrderRequest{Items: []models.OrderItem{}},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "invalid quantity - zero",
			req: models.OrderRequest{
				Items: []models.OrderItem{{DishID: "fries", Quantity: 0}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "invalid quantity - negative",
			req: models.OrderRequest{
				Items: []models.OrderItem{{DishID: "fries", Quantity: -1}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "invalid quantity - above line limit",
			req: models.OrderRequest{
				Items: []models.OrderItem{{DishID: "fries", Quantity: MaxLineQuantity + 1}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "items from restaurants with different currencies",
			req: models.OrderRequest{
				Items: []models.OrderItem{
					{DishID: "fries", Quantity: 1},
					{DishID: "latte", Quantity: 1},
				},
			},
			wantErr: ErrMixedCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newOrderService(t, nil)
			order, err := svc.PlaceOrder(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, order.ID)
			assert.Len(t, order.Lines, len(tt.req.Items))
		})
	}
}

func TestOrderService_PlaceOrder_Totals(t *testing.T) {
	obs := &recordingObserver{}
	svc := newOrderService(t, obs)

	order, err := svc.PlaceOrder(context.Background(), models.OrderRequest{
		Items: []models.OrderItem{
			{DishID: "margherita", Size: "Large", Quantity: 2, Selection: largeWithToppings()},
			{DishID: "fries", Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	pizza := order.Lines[0]
	assert.Equal(t, "Margherita", pizza.DishName)
	assert.Equal(t, models.Money(1850), pizza.Unit.TotalPrice)
	assert.Equal(t, models.Money(3700), pizza.LineTotal)
	require.Len(t, pizza.Unit.Lines, 3)
	assert.Equal(t, "Extra Cheese", pizza.Unit.Lines[1].OptionName)
	assert.Equal(t, uint(1), pizza.Unit.Lines[1].PaidQuantity)

	assert.Equal(t, models.Money(1200), order.Lines[1].LineTotal)
	assert.Equal(t, models.Money(4900), order.Total)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), order.CreatedAt)
	assert.Equal(t, 1, obs.orders)
}

func TestOrderService_PlaceOrder_ValidationFailures(t *testing.T) {
	obs := &recordingObserver{}
	svc := newOrderService(t, obs)

	_, err := svc.PlaceOrder(context.Background(), models.OrderRequest{
		Items: []models.OrderItem{
			{DishID: "fries", Quantity: 1},
			{DishID: "margherita", Quantity: 1, Selection: models.Selection{
				"tpl-toppings": {{OptionID: "opt-anchovy"}},
			}},
			{DishID: "ghost", Quantity: 1},
			{DishID: "margherita", Size: "Huge", Quantity: 1, Selection: models.Selection{
				"tpl-size": {{OptionID: "opt-small"}},
			}},
		},
	})

	var verr *OrderValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Lines, 3)

	assert.Equal(t, 1, verr.Lines[0].Index)
	kinds := make([]models.ErrorKind, 0)
	for _, e := range verr.Lines[0].Errors {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []models.ErrorKind{models.KindMissingRequiredGroup, models.KindUnknownOption}, kinds)

	assert.Equal(t, 2, verr.Lines[1].Index)
	assert.Equal(t, models.KindDishNotFound, verr.Lines[1].Errors[0].Kind)

	assert.Equal(t, 3, verr.Lines[2].Index)
	assert.Equal(t, models.KindUnknownSizeVariant, verr.Lines[2].Errors[0].Kind)

	assert.Equal(t, 0, obs.orders)
	assert.Len(t, obs.validations, 1)
}

func TestOrderService_PlaceOrder_RejectsHugeChoiceQuantity(t *testing.T) {
	obs := &recordingObserver{}
	svc := newOrderService(t, obs)

	order, err := svc.PlaceOrder(context.Background(), models.OrderRequest{
		Items: []models.OrderItem{{DishID: "margherita", Quantity: 1, Selection: models.Selection{
			"tpl-size":     {{OptionID: "opt-small"}},
			"tpl-toppings": {{OptionID: "opt-olives", Quantity: math.MaxUint}, {OptionID: "opt-cheese", Quantity: 2}},
		}}},
	})

	assert.Nil(t, order)
	var verr *OrderValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Lines, 1)
	require.Len(t, verr.Lines[0].Errors, 1)
	assert.Equal(t, models.KindQuantityOutOfRange, verr.Lines[0].Errors[0].Kind)
	assert.Equal(t, "opt-olives", verr.Lines[0].Errors[0].OptionID)
	assert.Equal(t, 0, obs.orders)
}

func TestOrderService_PlaceOrder_LargestLineStaysPositive(t *testing.T) {
	svc := newOrderService(t, nil)

	order, err := svc.PlaceOrder(context.Background(), models.OrderRequest{
		Items: []models.OrderItem{{DishID: "margherita", Size: "Large", Quantity: MaxLineQuantity, Selection: models.Selection{
			"tpl-size":     {{OptionID: "opt-large"}},
			"tpl-toppings": {{OptionID: "opt-olives", Quantity: 3}},
		}}},
	})

	require.NoError(t, err)
	// (1400 + 200 + 3*100) * 999
	assert.Equal(t, models.Money(1900*999), order.Total)
}

func TestOrderService_Idempotency(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService(t, nil)

	valid := models.OrderRequest{
		IdempotencyKey: "checkout-42",
		Items:          []models.OrderItem{{DishID: "fries", Quantity: 1}},
	}
	invalid := models.OrderRequest{
		IdempotencyKey: "checkout-43",
		Items:          []models.OrderItem{{DishID: "margherita", Quantity: 1}},
	}

	_, err := svc.PlaceOrder(ctx, valid)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, valid)
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	// A rejected order does not burn its key.
	_, err = svc.PlaceOrder(ctx, invalid)
	var verr *OrderValidationError
	require.ErrorAs(t, err, &verr)
	invalid.Items[0].Selection = models.Selection{"tpl-size": {{OptionID: "opt-small"}}}
	_, err = svc.PlaceOrder(ctx, invalid)
	assert.NoError(t, err)

	// Orders without a key are never deduplicated.
	valid.IdempotencyKey = ""
	_, err = svc.PlaceOrder(ctx, valid)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, valid)
	assert.NoError(t, err)
}

func TestOrderService_ConcurrentDuplicates(t *testing.T) {
	svc := newOrderService(t, nil)
	req := models.OrderRequest{
		IdempotencyKey: "same-key",
		Items:          []models.OrderItem{{DishID: "fries", Quantity: 1}},
	}

	var placed, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), req)
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, ErrDuplicateOrder):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), placed.Load())
	assert.Equal(t, int32(19), duplicates.Load())
}

func TestIdempotencyGuard(t *testing.T) {
	g := newIdempotencyGuard(3)

	for i := 0; i < 3; i++ {
		assert.True(t, g.reserve(fmt.Sprintf("k%d", i)))
	}
	// k0..k2 rotated into the previous generation and are still known.
	for i := 0; i < 3; i++ {
		assert.False(t, g.reserve(fmt.Sprintf("k%d", i)))
	}

	for i := 3; i < 6; i++ {
		assert.True(t, g.reserve(fmt.Sprintf("k%d", i)))
	}
	// Two rotations later the oldest generation is forgotten.
	assert.True(t, g.reserve("k0"))
	assert.False(t, g.reserve("k5"))

	g.release("k5")
	assert.True(t, g.reserve("k5"))
}
