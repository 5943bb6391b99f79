package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/warisan/internal/model"
)

// ErrExport is returned when the history cannot be written to its destination
var ErrExport = errors.New("export failed")

// Encoder serialises entries in a named format
type Encoder interface {
	Write(w io.Writer, format string, entries []model.HistoryEntry) error
}

// Export writes every entry in insertion order to w
func (l *Ledger) Export(w io.Writer, enc Encoder, format string) error {
	if err := enc.Write(w, format, l.entries); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// ExportFile writes the history to path, replacing any existing file.
// Content goes to a temporary file in the same directory first, so a failed
// export never leaves a truncated report behind.
func (l *Ledger) ExportFile(path string, enc Encoder, format string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".warisan-export-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrExport, dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = l.Export(bw, enc, format); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrExport, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrExport, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrExport, path, err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrExport, path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrExport, path, err)
	}
	return nil
}
