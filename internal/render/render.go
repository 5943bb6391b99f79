// Package render formats allocations and history for terminals and export files.
package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer writes allocations and history in the supported formats
type Renderer struct {
	printer *message.Printer
}

// NewRenderer creates a renderer grouping thousands per the given BCP 47 locale
// ("en" groups with commas, "id" with dots)
func NewRenderer(locale string) (*Renderer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Renderer{printer: message.NewPrinter(tag)}, nil
}

// Rupiah formats an amount as a whole, thousands-grouped Rupiah value
func (r *Renderer) Rupiah(v decimal.Decimal) string {
	return "Rp " + r.printer.Sprintf("%d", v.RoundBank(0).IntPart())
}

// Write serialises entries in ledger order in the given format
func (r *Renderer) Write(w io.Writer, format string, entries []model.HistoryEntry) error {
	switch format {
	case model.FormatText, "":
		return r.WriteText(w, entries)
	case model.FormatYAML:
		return r.WriteYAML(w, entries)
	case model.FormatJSON:
		return r.WriteJSON(w, entries)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
