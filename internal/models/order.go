package models

import "time"

// OrderRequest represents an incoming order request
type OrderRequest struct {
	IdempotencyKey string      `json:"idempotencyKey,omitempty"`
	Items          []OrderItem `json:"items"`
}

// OrderItem represents a single dish in an order
type OrderItem struct {
	DishID    string    `json:"dishId"`
	Size      string    `json:"size,omitempty"`
	Quantity  int       `json:"quantity"`
	Selection Selection `json:"selection,omitempty"`
}

// Order represents a confirmed order
type Order struct {
	ID        string      `json:"id"`
	Currency  string      `json:"currency"`
	Lines     []OrderLine `json:"lines"`
	Total     Money       `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderLine is the immutable record of one ordered dish: the unit price
// breakdown and a denormalized copy of the chosen options.
type OrderLine struct {
	DishID    string         `json:"dishId"`
	DishName  string         `json:"dishName"`
	Quantity  int            `json:"quantity"`
	Unit      PriceBreakdown `json:"unit"`
	LineTotal Money          `json:"lineTotal"`
}

// LineValidation lists validation errors for one order item.
type LineValidation struct {
	Index  int               `json:"index"`
	DishID string            `json:"dishId"`
	Errors []ValidationError `json:"errors"`
}
