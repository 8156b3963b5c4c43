package core

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	EmptyField ValidationKind = iota + 1
	InvalidAmount
)

type (
	ValidationKind int

	// ValidationError reports why form input could not become an Expense.
	ValidationError struct {
		Kind ValidationKind
	}

	// Expense is a single spending entry. Values are never mutated after creation.
	Expense struct {
		Description string
		Amount      float64
		Category    string
	}
)

var (
	ErrEmptyField    = &ValidationError{Kind: EmptyField}
	ErrInvalidAmount = &ValidationError{Kind: InvalidAmount}
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyField:
		return "empty_field"
	case InvalidAmount:
		return "invalid_amount"
	default:
		return "unknown"
	}
}

// Error returns the user-facing message for the failure.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyField:
		return "Please fill in all fields."
	case InvalidAmount:
		return "Amount should be a valid number."
	default:
		return "invalid expense"
	}
}

// Is matches any ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	var ve *ValidationError
	if !errors.As(target, &ve) {
		return false
	}
	return ve.Kind == e.Kind
}

// NewExpense builds an Expense from raw form input. Emptiness of the three
// inputs is checked before the amount is parsed. A description or category
// that is blank or not valid UTF-8 counts as unfilled; an amount counts as
// unfilled only when it is the empty string, so whitespace reaches the parser
// and is reported as an invalid number.
func NewExpense(description, amountText, category string) (Expense, error) {
	if !isFilled(description) || amountText == "" || !isFilled(category) {
		return Expense{}, ErrEmptyField
	}
	amount, err := ParseAmount(amountText)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Description: description,
		Amount:      amount,
		Category:    category,
	}, nil
}

// String renders the expense as a single listing line.
func (e Expense) String() string {
	return "Description: " + e.Description +
		", Amount: " + FormatAmount(e.Amount) +
		", Category: " + e.Category
}

func isFilled(s string) bool {
	return utf8.ValidString(s) && strings.TrimSpace(s) != ""
}
