package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exptracker/internal/core"
	"exptracker/internal/expenses"
	"exptracker/internal/persist"
	"exptracker/internal/persist/file"
)

type failingGateway struct{}

func (failingGateway) Save(context.Context, []core.Expense) error { return errors.New("disk full") }
func (failingGateway) Load(context.Context) persist.LoadResult { return persist.Absent() }

func newApp(t *testing.T) *App {
	t.Helper()
	store, _ := expenses.Open(context.Background(), file.New(filepath.Join(t.TempDir(), "expenses.json"), nil), nil)
	return New(store)
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	fb := a.AddExpense(ctx, Form{Description: "Coffee", Amount: "3.50", Category: "Food"})
	assert.True(t, fb.OK)
	assert.Equal(t, MsgAdded, fb.Message)
	assert.Empty(t, fb.Warning)
	assert.Equal(t, Form{}, fb.Form)

	bad := Form{Description: "Coffee", Amount: "", Category: "Food"}
	fb = a.AddExpense(ctx, bad)
	assert.False(t, fb.OK)
	assert.Equal(t, "Please fill in all fields.", fb.Message)
	assert.Equal(t, bad, fb.Form)

	bad = Form{Description: "Coffee", Amount: "abc", Category: "Food"}
	fb = a.AddExpense(ctx, bad)
	assert.False(t, fb.OK)
	assert.Equal(t, "Amount should be a valid number.", fb.Message)
	assert.Equal(t, bad, fb.Form)

	assert.Equal(t, 1, a.Store.Len())
}

func TestViewAndTotal(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	assert.Equal(t, "Expense List:\n", a.ViewExpenses())
	assert.Equal(t, "Total Expense: 0.0", a.TotalExpense())

	require.True(t, a.AddExpense(ctx, Form{"Coffee", "3.50", "Food"}).OK)
	require.True(t, a.AddExpense(ctx, Form{"Bus", "2.00", "Transport"}).OK)

	assert.Equal(t, "Expense List:\n"+
		"Description: Coffee, Amount: 3.5, Category: Food\n"+
		"Description: Bus, Amount: 2.0, Category: Transport\n", a.ViewExpenses())
	assert.Equal(t, "Total Expense: 5.5", a.TotalExpense())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	require.True(t, a.AddExpense(ctx, Form{"Coffee", "3.50", "Food"}).OK)

	fb := a.Reset(ctx, expenses.Always(false))
	assert.True(t, fb.OK)
	assert.Equal(t, MsgNotReset, fb.Message)
	assert.Equal(t, 1, a.Store.Len())

	fb = a.Reset(ctx, expenses.Always(true))
	assert.True(t, fb.OK)
	assert.Equal(t, MsgReset, fb.Message)
	assert.Equal(t, 0, a.Store.Len())

	fb = a.Reset(ctx, expenses.ConfirmFunc(func(context.Context, string) (bool, error) {
		return false, errors.New("no terminal")
	}))
	assert.False(t, fb.OK)
	assert.Equal(t, "no terminal", fb.Message)
}

func TestSaveFailureWarns(t *testing.T) {
	ctx := context.Background()
	a := New(expenses.New(failingGateway{}, nil))

	fb := a.AddExpense(ctx, Form{"Coffee", "3.50", "Food"})
	assert.True(t, fb.OK)
	assert.Equal(t, MsgSaveWarn, fb.Warning)
	assert.Equal(t, 1, a.Store.Len())

	fb = a.Reset(ctx, expenses.Always(true))
	assert.True(t, fb.OK)
	assert.Equal(t, MsgSaveWarn, fb.Warning)
}
