// Package app maps the four user actions (add, view, total, reset) onto the
// expense store and turns the outcomes into messages for whichever front end
// is driving it.
package app

import (
	"context"
	"errors"
	"strings"

	"exptracker/internal/core"
	"exptracker/internal/expenses"
)

const (
	MsgAdded     = "Expense added successfully."
	MsgReset     = "All expenses have been reset."
	MsgNotReset  = "Reset cancelled."
	MsgListTitle = "Expense List:"
	MsgSaveWarn  = "Warning: changes could not be saved to disk and exist only in this session."
)

type (
	// Form holds the raw text of the three input fields.
	Form struct {
		Description string
		Amount      string
		Category    string
	}

	// Feedback is what the user sees after an action.
	Feedback struct {
		OK      bool
		Message string
		// Warning is non-blocking: the action itself succeeded.
		Warning string
		// Form is what the input fields should contain afterwards. It is
		// cleared after a successful add and kept otherwise.
		Form Form
	}

	// App is the application state shared by the front ends.
	App struct {
		Store *expenses.Store
	}
)

func New(store *expenses.Store) *App {
	return &App{Store: store}
}

// AddExpense validates and stores the form contents.
func (a *App) AddExpense(ctx context.Context, f Form) Feedback {
	_, err := a.Store.Add(ctx, f.Description, f.Amount, f.Category)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return Feedback{Message: ve.Error(), Form: f}
		}
		return Feedback{Message: err.Error(), Form: f}
	}
	return Feedback{OK: true, Message: MsgAdded, Warning: a.saveWarning()}
}

// ViewExpenses renders the full listing, one expense per line.
func (a *App) ViewExpenses() string {
	var sb strings.Builder
	sb.WriteString(MsgListTitle)
	sb.WriteString("\n")
	for _, e := range a.Store.List() {
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// TotalExpense renders the grand total.
func (a *App) TotalExpense() string {
	return "Total Expense: " + core.FormatAmount(a.Store.Total())
}

// Reset clears every expense once c confirms.
func (a *App) Reset(ctx context.Context, c expenses.Confirmer) Feedback {
	ok, err := a.Store.Reset(ctx, c)
	if err != nil {
		return Feedback{Message: err.Error()}
	}
	if !ok {
		return Feedback{OK: true, Message: MsgNotReset}
	}
	return Feedback{OK: true, Message: MsgReset, Warning: a.saveWarning()}
}

func (a *App) saveWarning() string {
	if a.Store.SaveError() != nil {
		return MsgSaveWarn
	}
	return ""
}
