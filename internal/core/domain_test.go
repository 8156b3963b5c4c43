package core

import (
	"errors"
	"testing"
)

func TestNewExpense(t *testing.T) {
	good, err := NewExpense("Coffee", "3.50", "Food")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := Expense{Description: "Coffee", Amount: 3.5, Category: "Food"}
	if good != want {
		t.Fatalf("got %+v, want %+v", good, want)
	}

	bads := []struct {
		desc, amount, cat string
		want              error
	}{
		{"", "1", "c", ErrEmptyField},
		{"a", "", "c", ErrEmptyField},
		{"a", "1", "", ErrEmptyField},
		{"   ", "1", "c", ErrEmptyField},
		{"a", "1", "\t", ErrEmptyField},
		{"caf\xe9", "1", "c", ErrEmptyField}, // not UTF-8
		{"a", "1", "\xff", ErrEmptyField},
		{"a", "   ", "c", ErrInvalidAmount}, // whitespace is not an empty amount
		{"", "abc", "c", ErrEmptyField}, // emptiness wins over parsing
		{"a", "abc", "c", ErrInvalidAmount},
		{"a", "12abc", "c", ErrInvalidAmount},
	}
	for i, tc := range bads {
		_, err := NewExpense(tc.desc, tc.amount, tc.cat)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestValidationErrorMessages(t *testing.T) {
	if got := ErrEmptyField.Error(); got != "Please fill in all fields." {
		t.Fatalf("unexpected empty-field message %q", got)
	}
	if got := ErrInvalidAmount.Error(); got != "Amount should be a valid number." {
		t.Fatalf("unexpected invalid-amount message %q", got)
	}
	if errors.Is(ErrEmptyField, ErrInvalidAmount) {
		t.Fatalf("kinds must not match each other")
	}
	if !errors.Is(&ValidationError{Kind: EmptyField}, ErrEmptyField) {
		t.Fatalf("expected kind match")
	}
}

func TestExpenseString(t *testing.T) {
	e := Expense{Description: "Bus", Amount: 2, Category: "Transport"}
	want := "Description: Bus, Amount: 2.0, Category: Transport"
	if got := e.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
