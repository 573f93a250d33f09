package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ",", c.Delimiter)
	assert.Equal(t, "text", c.Format)
	assert.Equal(t, 4, c.Precision)
	assert.Zero(t, c.MaxRecords)
	assert.Equal(t, filepath.Join(home, ".csvutils", "history.db"), c.HistoryDB)
}

func TestDefaultHistoryDB(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	db, err := DefaultHistoryDB()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".csvutils", "history.db"), db)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")

	c, err := Load(p)
	require.NoError(t, err, "missing file falls back to defaults")
	c.Delimiter = ";"
	c.SkipHeader = true
	c.MaxRecords = 50
	require.NoError(t, Save(c, p))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ";", got.Delimiter)
	assert.True(t, got.SkipHeader)
	assert.Equal(t, 50, got.MaxRecords)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, Save(&Global{Format: "markdown", Precision: 2}, p))
	t.Setenv("CSVUTILS_FORMAT", "json")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, 2, c.Precision)
}
