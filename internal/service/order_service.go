package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/storefront-menu/internal/engine"
	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// MaxLineQuantity bounds how many units of a dish one order line holds.
const MaxLineQuantity = 999

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrDuplicateOrder  = errors.New("order with this idempotency key was already placed")
	ErrMixedCurrency   = errors.New("order items are priced in different currencies")
)

// OrderValidationError carries the itemized findings of every invalid
// order line. No line is priced when any line is invalid.
type OrderValidationError struct {
	Lines []models.LineValidation
}

func (e *OrderValidationError) Error() string {
	return fmt.Sprintf("%d order item(s) failed validation", len(e.Lines))
}

// DishResolver loads a dish ready for validation and pricing.
type DishResolver interface {
	ResolveDish(ctx context.Context, dishID string) (ResolvedDish, error)
}

// OrderObserver is told about validations and accepted orders.
type OrderObserver interface {
	ValidationObserver
	ObserveOrder()
}

// OrderService handles order business logic
type OrderService struct {
	dishes   DishResolver
	guard    *idempotencyGuard
	logger   *slog.Logger
	observer OrderObserver
	now      func() time.Time
}

// NewOrderService creates a new order service. idempotencyCapacity bounds
// how many recent idempotency keys are remembered.
func NewOrderService(dishes DishResolver, logger *slog.Logger, idempotencyCapacity int, observer OrderObserver) *OrderService {
	return &OrderService{
		dishes:   dishes,
		guard:    newIdempotencyGuard(idempotencyCapacity),
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// PlaceOrder validates every line against its dish's current effective
// schema and, when all lines are admissible, prices them into an immutable
// order snapshot.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 || item.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if !s.guard.reserve(key) {
			return nil, ErrDuplicateOrder
		}
	}
	placed := false
	defer func() {
		if key != "" && !placed {
			s.guard.release(key)
		}
	}()

	resolved, err := s.validateLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := s.price(req.Items, resolved)
	if err != nil {
		return nil, err
	}
	placed = true

	if s.observer != nil {
		s.observer.ObserveOrder()
	}
	s.logger.Info("order placed",
		"order_id", order.ID,
		"lines", len(order.Lines),
		"total", order.Total.String(),
		"currency", order.Currency,
	)
	return order, nil
}

func (s *OrderService) validateLines(ctx context.Context, items []models.OrderItem) ([]ResolvedDish, error) {
	resolved := make([]ResolvedDish, len(items))
	var invalid []models.LineValidation

	for i, item := range items {
		rd, err := s.dishes.ResolveDish(ctx, item.DishID)
		if errors.Is(err, models.ErrDishNotFound) {
			invalid = append(invalid, models.LineValidation{
				Index:  i,
				DishID: item.DishID,
				Errors: []models.ValidationError{{
					Kind:    models.KindDishNotFound,
					Message: fmt.Sprintf("dish %s is not on the menu", item.DishID),
				}},
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		resolved[i] = rd

		var errs []models.ValidationError
		if item.Size != "" {
			if _, ok := engine.FindVariant(rd.Dish, item.Size); !ok {
				errs = append(errs, models.ValidationError{
					Kind:    models.KindUnknownSizeVariant,
					Message: fmt.Sprintf("size %q is not offered for %s", item.Size, rd.Dish.Name),
				})
			}
		}
		result := engine.Validate(rd.Schema, item.Selection)
		if !result.IsValid && s.observer != nil {
			s.observer.ObserveValidation(result)
		}
		errs = append(errs, result.Errors...)

		if len(errs) > 0 {
			invalid = append(invalid, models.LineValidation{Index: i, DishID: item.DishID, Errors: errs})
		}
	}

	if len(invalid) > 0 {
		s.logger.Info("order rejected by validation", "invalid_lines", len(invalid))
		return nil, &OrderValidationError{Lines: invalid}
	}
	return resolved, nil
}

func (s *OrderService) price(items []models.OrderItem, resolved []ResolvedDish) (*models.Order, error) {
	order := &models.Order{
		ID:        uuid.New().String(),
		Currency:  resolved[0].Currency,
		Lines:     make([]models.OrderLine, 0, len(items)),
		CreatedAt: s.now().UTC(),
	}

	for i, item := range items {
		rd := resolved[i]
		if rd.Currency != order.Currency {
			return nil, fmt.Errorf("item %d is priced in %s, order in %s: %w", i, rd.Currency, order.Currency, ErrMixedCurrency)
		}

		unit, err := engine.CalculatePrice(rd.Dish, rd.Schema, item.Size, item.Selection, rd.Currency)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		lineTotal, err := unit.TotalPrice.Times(int64(item.Quantity))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		line := models.OrderLine{
			DishID:    rd.Dish.ID,
			DishName:  rd.Dish.Name,
			Quantity:  item.Quantity,
			Unit:      unit,
			LineTotal: lineTotal,
		}
		order.Lines = append(order.Lines, line)
		if order.Total, err = order.Total.Add(lineTotal); err != nil {
			return nil, err
		}
	}

	return order, nil
}
