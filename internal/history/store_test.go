package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/csvutils-cli/internal/analysis"
	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "hist", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openStore(t)
	rep := &analysis.Report{
		RunID:     "11111111-1111-1111-1111-111111111111",
		Name:      "a.csv",
		Path:      "/tmp/a.csv",
		Delimiter: ';',
		Rows:      3,
		StartedAt: time.Now(),
		Cols: []profile.Column{
			{Position: 0, Title: "id", MaxWidth: 1, Tally: profile.Tally{Integer: 3}, EverNonEmpty: true},
			{Position: 1, Title: profile.Placeholder, Tally: profile.Tally{Text: 2}},
		},
	}
	require.NoError(t, s.Record(rep))

	run, err := s.Get(rep.RunID)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", run.File)
	assert.Equal(t, ";", run.Delimiter)
	assert.Equal(t, 2, run.Columns)
	require.Len(t, run.Cols, 2)
	assert.Equal(t, rep.Cols[0], run.Cols[0].Profile())
	assert.Equal(t, rep.Cols[1], run.Cols[1].Profile())
}

func TestRecentNewestFirst(t *testing.T) {
	s := openStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, s.Record(&analysis.Report{RunID: id, Name: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	runs, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRequiresRunID(t *testing.T) {
	s := openStore(t)
	assert.Error(t, s.Record(&analysis.Report{}))
	assert.Error(t, s.Record(nil))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
