// Package persist defines the boundary between the in-memory expense store
// and whatever keeps it across runs.
package persist

import (
	"context"

	"exptracker/internal/core"
)

const (
	StatusLoaded  LoadStatus = "loaded"
	StatusAbsent  LoadStatus = "absent"
	StatusCorrupt LoadStatus = "corrupt"
)

type (
	// LoadStatus tells "no prior data" apart from "data present but unreadable".
	// Both leave the store empty.
	LoadStatus string

	// LoadResult is the outcome of Gateway.Load. Expenses is never nil.
	LoadResult struct {
		Expenses []core.Expense
		Status   LoadStatus
		Err      error
	}

	// Gateway saves and loads the whole expense collection.
	Gateway interface {
		// Save replaces the persisted collection with expenses.
		Save(ctx context.Context, expenses []core.Expense) error
		// Load returns the persisted collection, or an empty one on any failure.
		Load(ctx context.Context) LoadResult
	}
)

// Loaded wraps a successfully read collection.
func Loaded(expenses []core.Expense) LoadResult {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return LoadResult{Expenses: expenses, Status: StatusLoaded}
}

// Absent reports that nothing has been saved yet.
func Absent() LoadResult {
	return LoadResult{Expenses: []core.Expense{}, Status: StatusAbsent}
}

// Corrupt reports persisted data that could not be read.
func Corrupt(err error) LoadResult {
	return LoadResult{Expenses: []core.Expense{}, Status: StatusCorrupt, Err: err}
}
