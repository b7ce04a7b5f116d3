package models

import "errors"

// ErrorKind classifies engine failures and validation findings.
type ErrorKind string

const (
	KindUnknownSizeVariant    ErrorKind = "UnknownSizeVariant"
	KindUnknownOption         ErrorKind = "UnknownOption"
	KindUnknownGroup          ErrorKind = "UnknownGroup"
	KindMissingRequiredGroup  ErrorKind = "MissingRequiredGroup"
	KindBelowMinimum          ErrorKind = "BelowMinimum"
	KindAboveMaximum          ErrorKind = "AboveMaximum"
	KindCrossCategoryMismatch ErrorKind = "CrossCategoryMismatch"
	KindDishNotFound          ErrorKind = "DishNotFound"
	KindTemplateNotFound      ErrorKind = "TemplateNotFound"
	KindCategoryNotFound      ErrorKind = "CategoryNotFound"
	KindRestaurantNotFound    ErrorKind = "RestaurantNotFound"
	KindAlreadyDetached       ErrorKind = "AlreadyDetached"
	KindInvalidGroup          ErrorKind = "InvalidGroup"
	KindQuantityOutOfRange    ErrorKind = "QuantityOutOfRange"
	KindPriceOverflow         ErrorKind = "PriceOverflow"
	KindGroupIDCollision      ErrorKind = "GroupIDCollision"
	KindInternal              ErrorKind = "Internal"
)

var (
	ErrUnknownSizeVariant    = errors.New("unknown size variant")
	ErrCrossCategoryMismatch = errors.New("template belongs to a different category")
	ErrDishNotFound          = errors.New("dish not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrRestaurantNotFound    = errors.New("restaurant not found")
	ErrAlreadyDetached       = errors.New("dish is already detached from its category templates")
	ErrInvalidGroup          = errors.New("invalid modifier group")
	ErrQuantityOutOfRange    = errors.New("choice quantity or multiplier out of range")
	ErrPriceOverflow         = errors.New("price exceeds the representable range")
	ErrGroupIDCollision      = errors.New("group id is already used by a category template")
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnknownSizeVariant, KindUnknownSizeVariant},
	{ErrCrossCategoryMismatch, KindCrossCategoryMismatch},
	{ErrDishNotFound, KindDishNotFound},
	{ErrTemplateNotFound, KindTemplateNotFound},
	{ErrCategoryNotFound, KindCategoryNotFound},
	{ErrRestaurantNotFound, KindRestaurantNotFound},
	{ErrAlreadyDetached, KindAlreadyDetached},
	{ErrInvalidGroup, KindInvalidGroup},
	{ErrQuantityOutOfRange, KindQuantityOutOfRange},
	{ErrPriceOverflow, KindPriceOverflow},
	{ErrGroupIDCollision, KindGroupIDCollision},
}

// KindOf maps an error, possibly wrapped, to its kind. Unclassified errors
// are KindInternal.
func KindOf(err error) ErrorKind {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}
