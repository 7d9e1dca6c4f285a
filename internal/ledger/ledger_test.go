package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "processed_files.json"))
}

func TestLedger_MissingFileIsEmpty(t *testing.T) {
	l := newTestLedger(t)

	processed, err := l.Processed()
	require.NoError(t, err)
	assert.Empty(t, processed)

	ok, err := l.IsProcessed("report.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_MarkAndCheck(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.MarkProcessed("a.pdf"))
	require.NoError(t, l.MarkProcessed("b.pdf"))

	ok, err := l.IsProcessed("a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.IsProcessed("c.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_MarkIsIdempotent(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.MarkProcessed("a.pdf"))
	require.NoError(t, l.MarkProcessed("a.pdf"))

	processed, err := l.Processed()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, processed)
}

func TestLedger_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed_files.json")

	require.NoError(t, New(path).MarkProcessed("a.pdf"))

	ok, err := New(path).IsProcessed("a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_CorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed_files.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).Processed()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger: parse")
}

func TestLedger_ExternalEditsPickedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed_files.json")
	l := New(path)

	require.NoError(t, l.MarkProcessed("a.pdf"))

	// Another process rewrites the ledger between checks.
	require.NoError(t, os.WriteFile(path, []byte(`{"processed_files":["a.pdf","x.pdf"]}`), 0o644))

	ok, err := l.IsProcessed("x.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}
