// Package ledger records which source documents have completed a full
// extract-score-persist cycle. It is a plain JSON file so an interrupted
// batch resumes by rereading it, and an analyst can inspect or edit it by
// hand.
package ledger

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/rotisserie/eris"
)

// Ledger tracks processed filenames in a local JSON document. The file is
// fully reread before each check and fully rewritten on each mark, so
// concurrent external edits are picked up and a crash mid-run loses at most
// the in-flight document.
type Ledger struct {
	path string
}

type ledgerFile struct {
	ProcessedFiles []string `json:"processed_files"`
}

// New creates a Ledger at the given path. The file is created lazily on the
// first mark.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Processed returns the recorded filenames. A missing file is an empty
// ledger, not an error; a corrupt file is.
func (l *Ledger) Processed() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ledger: read")
	}

	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "ledger: parse")
	}
	return f.ProcessedFiles, nil
}

// IsProcessed reports whether filename has already completed a run.
func (l *Ledger) IsProcessed(filename string) (bool, error) {
	processed, err := l.Processed()
	if err != nil {
		return false, err
	}
	return slices.Contains(processed, filename), nil
}

// MarkProcessed records filename as done. Marking an already-recorded file
// is a no-op, so the ledger never accumulates duplicates.
func (l *Ledger) MarkProcessed(filename string) error {
	processed, err := l.Processed()
	if err != nil {
		return err
	}
	if slices.Contains(processed, filename) {
		return nil
	}
	processed = append(processed, filename)

	data, err := json.MarshalIndent(ledgerFile{ProcessedFiles: processed}, "", "  ")
	if err != nil {
		return eris.Wrap(err, "ledger: marshal")
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return eris.Wrap(err, "ledger: write")
	}
	return nil
}
