package persist

import (
	"errors"
	"fmt"

	"exptracker/internal/core"
)

// SchemaVersion is written into every saved document.
const SchemaVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported document version")

type (
	// Document is the on-disk shape of the store: an ordered list of
	// description/amount/category triples, independent of in-memory types.
	Document struct {
		Version  int      `json:"version" yaml:"version"`
		Expenses []Record `json:"expenses" yaml:"expenses"`
	}

	Record struct {
		Description string  `json:"description" yaml:"description"`
		Amount      float64 `json:"amount" yaml:"amount"`
		Category    string  `json:"category" yaml:"category"`
	}
)

// NewDocument converts expenses to the persisted schema.
func NewDocument(expenses []core.Expense) Document {
	doc := Document{
		Version:  SchemaVersion,
		Expenses: make([]Record, 0, len(expenses)),
	}
	for _, e := range expenses {
		doc.Expenses = append(doc.Expenses, Record{
			Description: e.Description,
			Amount:      e.Amount,
			Category:    e.Category,
		})
	}
	return doc
}

// ToExpenses converts a decoded document back to expenses. Records are
// trusted as-is; only the version is checked.
func (d Document) ToExpenses() ([]core.Expense, error) {
	if d.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	out := make([]core.Expense, 0, len(d.Expenses))
	for _, r := range d.Expenses {
		out = append(out, core.Expense{
			Description: r.Description,
			Amount:      r.Amount,
			Category:    r.Category,
		})
	}
	return out, nil
}
