package models

// PricedChoice is the denormalized record of one priced choice. Order
// lines keep it as the immutable snapshot of what was chosen.
type PricedChoice struct {
	GroupID      string `json:"groupId"`
	GroupName    string `json:"groupName"`
	OptionID     string `json:"optionId"`
	OptionName   string `json:"optionName"`
	PriceDelta   Money  `json:"priceDelta"`
	Quantity     uint   `json:"quantity"`
	PaidQuantity uint   `json:"paidQuantity"`
	Multiplier   uint   `json:"multiplier"`
	Amount       Money  `json:"amount"`
}

// PriceBreakdown is the result of pricing one dish unit.
type PriceBreakdown struct {
	SizeLabel     string         `json:"sizeLabel"`
	BasePrice     Money          `json:"basePrice"`
	ModifierTotal Money          `json:"modifierTotal"`
	TotalPrice    Money          `json:"totalPrice"`
	Currency      string         `json:"currency"`
	Lines         []PricedChoice `json:"lines,omitempty"`
}

// ValidationError is one itemized reason a selection is not admissible.
type ValidationError struct {
	Kind      ErrorKind `json:"kind"`
	GroupID   string    `json:"groupId"`
	GroupName string    `json:"groupName,omitempty"`
	OptionID  string    `json:"optionId,omitempty"`
	Limit     uint      `json:"limit,omitempty"`
	Selected  uint      `json:"selected,omitempty"`
	Message   string    `json:"message"`
}

// ValidationResult is always returned by the validator; IsValid is true
// iff Errors is empty.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors"`
}
