// Package expenses holds the in-memory expense collection for the running
// session and keeps the persistence gateway in step with it.
package expenses

import (
	"context"
	"sync"

	"exptracker/internal/core"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
)

// ResetPrompt is the question asked before the store is cleared.
const ResetPrompt = "Are you sure you want to reset all expenses?"

// Confirmer answers a yes/no question posed to the user.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Store is the ordered expense collection. Every successful mutation is
// followed by a full save through the gateway. A failed save is logged and
// remembered but never undoes the in-memory change.
type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	gateway persist.Gateway
	logger  *applog.Logger
	saveErr error
}

// New returns an empty store bound to gateway.
func New(gateway persist.Gateway, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Store{
		items:   []core.Expense{},
		gateway: gateway,
		logger:  logger.WithComponent(applog.ComponentStore),
	}
}

// Open creates a store and fills it from the gateway. Load failures leave
// the store empty; the result says why.
func Open(ctx context.Context, gateway persist.Gateway, logger *applog.Logger) (*Store, persist.LoadResult) {
	s := New(gateway, logger)
	res := gateway.Load(ctx)

	switch res.Status {
	case persist.StatusLoaded:
		s.items = append(s.items, res.Expenses...)
		s.logger.InfoContext(ctx, "Expenses loaded",
			applog.FieldLoadStatus, res.Status,
			applog.FieldCount, len(res.Expenses))
	case persist.StatusCorrupt:
		s.logger.WarnContext(ctx, "Stored expenses unreadable, starting empty",
			applog.FieldLoadStatus, res.Status,
			applog.FieldError, res.Err)
	default:
		s.logger.InfoContext(ctx, "No stored expenses, starting empty",
			applog.FieldLoadStatus, res.Status)
	}
	return s, res
}

// Add validates the raw form input and appends the resulting expense.
// Validation failures return a *core.ValidationError and change nothing.
func (s *Store) Add(ctx context.Context, description, amountText, category string) (core.Expense, error) {
	e, err := core.NewExpense(description, amountText, category)
	if err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, e)
	s.logger.InfoContext(ctx, "Expense added",
		applog.NewFields().
			WithExpense(e.Description, e.Amount, e.Category).
			WithOperation(applog.OpAdd).
			ToSlice()...)
	s.save(ctx, applog.OpAdd)
	return e, nil
}

// List returns a copy of all expenses in insertion order.
func (s *Store) List() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the sum of all amounts, 0 for an empty store.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return core.Total(s.items)
}

// Len returns the number of stored expenses.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Reset clears the store after the confirmer agrees. A declined or failed
// confirmation leaves the store and the persisted data untouched.
func (s *Store) Reset(ctx context.Context, c Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, ResetPrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		s.logger.DebugContext(ctx, "Reset declined", applog.FieldOperation, applog.OpReset)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.items)
	s.items = []core.Expense{}
	s.logger.InfoContext(ctx, "Expenses reset",
		applog.FieldOperation, applog.OpReset,
		applog.FieldCount, removed)
	s.save(ctx, applog.OpReset)
	return true, nil
}

// SaveError returns the error from the most recent save, or nil.
func (s *Store) SaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveErr
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context, op string) {
	snapshot := make([]core.Expense, len(s.items))
	copy(snapshot, s.items)

	if err := s.gateway.Save(ctx, snapshot); err != nil {
		s.saveErr = err
		s.logger.ErrorContext(ctx, "Failed to save expenses",
			applog.FieldOperation, op,
			applog.FieldCount, len(snapshot),
			applog.FieldError, err)
		return
	}
	s.saveErr = nil
}
