package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"exptracker/internal/core"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"

	_ "modernc.org/sqlite"
)

var ErrSnapshotMismatch = errors.New("snapshot count does not match stored rows")

// SQLiteRepository keeps the expense store in a SQLite database. Each save
// replaces every row inside one transaction.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *applog.Logger
}

var _ persist.Gateway = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements persist.Gateway
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (position, description, amount, category)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, i, e.Description, e.Amount, e.Category); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, version, count, saved_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version, count = excluded.count, saved_at = excluded.saved_at`,
		persist.SchemaVersion, len(expenses), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.DebugContext(ctx, "Expenses saved to SQLite",
		applog.FieldDataPath, r.path,
		applog.FieldCount, len(expenses),
		applog.FieldOperation, applog.OpSave)
	return nil
}

// Load implements persist.Gateway
func (r *SQLiteRepository) Load(ctx context.Context) persist.LoadResult {
	var version, count int
	err := r.db.QueryRowContext(ctx, `SELECT version, count FROM snapshot WHERE id = 1`).Scan(&version, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return persist.Absent()
	}
	if err != nil {
		return persist.Corrupt(fmt.Errorf("read snapshot: %w", err))
	}
	if version != persist.SchemaVersion {
		return persist.Corrupt(fmt.Errorf("%w: %d", persist.ErrUnsupportedVersion, version))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT description, amount, category
		FROM expenses
		ORDER BY position`)
	if err != nil {
		return persist.Corrupt(fmt.Errorf("query expenses: %w", err))
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0, count)
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.Description, &e.Amount, &e.Category); err != nil {
			return persist.Corrupt(fmt.Errorf("scan expense: %w", err))
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return persist.Corrupt(fmt.Errorf("iterate expenses: %w", err))
	}
	if len(expenses) != count {
		return persist.Corrupt(fmt.Errorf("%w: snapshot=%d rows=%d", ErrSnapshotMismatch, count, len(expenses)))
	}

	r.logger.DebugContext(ctx, "Expenses loaded from SQLite",
		applog.FieldDataPath, r.path,
		applog.FieldCount, len(expenses),
		applog.FieldOperation, applog.OpLoad)
	return persist.Loaded(expenses)
}
