// Package file persists the expense store as a single JSON or YAML data file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"exptracker/internal/core"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
)

// DefaultPath is the data file used when none is configured.
const DefaultPath = "expenses.json"

var (
	ErrEmptyFile    = errors.New("data file is empty")
	ErrTrailingData = errors.New("unexpected data after document")
	ErrInvalidText  = errors.New("text is not valid UTF-8")
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the codec from the file extension: .yaml/.yml is YAML,
// anything else is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Gateway stores the whole collection in one file, replaced atomically on
// every save.
type Gateway struct {
	path   string
	format Format
	logger *applog.Logger
}

var _ persist.Gateway = (*Gateway)(nil)

func New(path string, logger *applog.Logger) *Gateway {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &Gateway{
		path:   path,
		format: FormatFor(path),
		logger: logger.WithComponent(applog.ComponentPersist),
	}
}

// Path returns the data file location.
func (g *Gateway) Path() string {
	return g.path
}

// Save encodes expenses and replaces the data file. The bytes go to a temp
// file in the same directory which is synced and renamed over the target, so
// a crash mid-write leaves the previous file intact.
func (g *Gateway) Save(ctx context.Context, expenses []core.Expense) error {
	data, err := g.encode(persist.NewDocument(expenses))
	if err != nil {
		return fmt.Errorf("encode %s: %w", g.format, err)
	}

	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(g.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, g.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	committed = true

	g.logger.DebugContext(ctx, "Expenses saved",
		applog.FieldDataPath, g.path,
		applog.FieldCount, len(expenses),
		applog.FieldOperation, applog.OpSave)
	return nil
}

// Load reads the data file. A missing file is StatusAbsent; anything that
// cannot be read or decoded into the expected document is StatusCorrupt.
func (g *Gateway) Load(ctx context.Context) persist.LoadResult {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persist.Absent()
		}
		return persist.Corrupt(fmt.Errorf("read data file: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return persist.Corrupt(ErrEmptyFile)
	}

	doc, err := g.decode(data)
	if err != nil {
		return persist.Corrupt(fmt.Errorf("decode %s: %w", g.format, err))
	}
	expenses, err := doc.ToExpenses()
	if err != nil {
		return persist.Corrupt(err)
	}

	g.logger.DebugContext(ctx, "Expenses loaded",
		applog.FieldDataPath, g.path,
		applog.FieldCount, len(expenses),
		applog.FieldOperation, applog.OpLoad)
	return persist.Loaded(expenses)
}

func (g *Gateway) encode(doc persist.Document) ([]byte, error) {
	if g.format == FormatYAML {
		// YAML keeps arbitrary bytes; JSON would replace them with U+FFFD.
		return yaml.Marshal(doc)
	}
	for i, r := range doc.Expenses {
		if !utf8.ValidString(r.Description) || !utf8.ValidString(r.Category) {
			return nil, fmt.Errorf("expense %d: %w", i, ErrInvalidText)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (g *Gateway) decode(data []byte) (persist.Document, error) {
	var doc persist.Document
	if g.format == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return doc, err
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return doc, ErrTrailingData
		}
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return doc, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return doc, ErrTrailingData
	}
	return doc, nil
}
