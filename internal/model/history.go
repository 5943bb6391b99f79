package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout of history timestamps in reports
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryEntry records one successful computation.
// Entries are never mutated after they are appended to a ledger.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Estate    decimal.Decimal `json:"estate"` // Rounded to whole currency units
	Input     Input           `json:"input"`
	Result    Allocation      `json:"result"`
}

// NewHistoryEntry stamps an allocation with a fresh ID and the given time
func NewHistoryEntry(at time.Time, in Input, result Allocation) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.New(),
		Timestamp: at,
		Estate:    in.Estate.RoundBank(0),
		Input:     in,
		Result:    result.Clone(),
	}
}

// Time returns the timestamp formatted for reports
func (e HistoryEntry) Time() string {
	return e.Timestamp.Format(TimestampLayout)
}
