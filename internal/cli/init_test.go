package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exptracker/internal/app"
	"exptracker/internal/config"
)

func TestSetupLoggerFallsBackOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("chatty", &buf)
	logger.Info("hello")
	assert.Contains(t, buf.String(), "Falling back to info log level")
	assert.Contains(t, buf.String(), "hello")
}

func TestLoadAndValidateConfigAppliesOverrides(t *testing.T) {
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("PORT", "")
	cfg, err := LoadAndValidateConfig(func(c *config.Config) {
		c.DataFile = "custom.yaml"
	})
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.DataFile)

	_, err = LoadAndValidateConfig(func(c *config.Config) {
		c.DataBackend = "sheets"
	})
	assert.Error(t, err)
}

func TestOpenAppPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DataBackend: "file", DataFile: filepath.Join(t.TempDir(), "expenses.json"), Port: "8081"}

	a, cleanup, err := OpenApp(ctx, cfg, nil)
	require.NoError(t, err)
	require.True(t, a.AddExpense(ctx, app.Form{Description: "Coffee", Amount: "3.50", Category: "Food"}).OK)
	require.NoError(t, cleanup())

	b, cleanup, err := OpenApp(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	assert.Equal(t, 1, b.Store.Len())
}
