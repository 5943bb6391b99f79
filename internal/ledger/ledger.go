// Package ledger keeps the ordered history of computations for one session.
//
// A Ledger only grows by Append; entries leave it through DeleteAt or Clear.
// Entries themselves are never modified. Nothing is persisted except through
// an explicit export. A Ledger is not safe for concurrent use.
package ledger

import (
	"errors"
	"fmt"

	"github.com/ppiankov/warisan/internal/model"
)

// ErrIndexOutOfRange is returned when an index names no entry
var ErrIndexOutOfRange = errors.New("history index out of range")

// Ledger is an ordered sequence of history entries
type Ledger struct {
	entries []model.HistoryEntry
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{}
}

// Append adds an entry at the end
func (l *Ledger) Append(entry model.HistoryEntry) {
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order
func (l *Ledger) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the entry at the 0-based index
func (l *Ledger) At(index int) (model.HistoryEntry, error) {
	if index < 0 || index >= len(l.entries) {
		return model.HistoryEntry{}, fmt.Errorf("%w: %d (entries: %d)", ErrIndexOutOfRange, index, len(l.entries))
	}
	return l.entries[index], nil
}

// Last returns the most recent entry, false if the ledger is empty
func (l *Ledger) Last() (model.HistoryEntry, bool) {
	if len(l.entries) == 0 {
		return model.HistoryEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// DeleteAt removes the entry at the 0-based index, keeping the order of the rest.
// An invalid index leaves the ledger unchanged.
func (l *Ledger) DeleteAt(index int) error {
	if index < 0 || index >= len(l.entries) {
		return fmt.Errorf("%w: %d (entries: %d)", ErrIndexOutOfRange, index, len(l.entries))
	}
	l.entries = append(l.entries[:index:index], l.entries[index+1:]...)
	return nil
}

// Clear removes every entry
func (l *Ledger) Clear() {
	l.entries = nil
}
