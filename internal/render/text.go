package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/warisan/internal/model"
)

// WriteText writes the flat text history report, one block per entry:
//
//	=== Riwayat 1 ===
//	Waktu: 2026-01-02 15:04:05
//	Total Harta: Rp 6,000,000
//	Input:
//	  ayah: False
//	  ...
//	Hasil:
//	  Ibu: Rp 2,000,000
//	  Sisa (tidak terdistribusi): Rp 4,000,000
func (r *Renderer) WriteText(w io.Writer, entries []model.HistoryEntry) error {
	var err error
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	for i, e := range entries {
		printf("=== Riwayat %d ===\n", i+1)
		printf("Waktu: %s\n", e.Time())
		printf("Total Harta: %s\n", r.Rupiah(e.Estate))
		printf("Input:\n")
		for _, f := range e.Input.Fields() {
			printf("  %s: %s\n", f.Key, f.Value)
		}
		printf("Hasil:\n")
		for _, s := range e.Result.Shares {
			printf("  %s: %s\n", s.DisplayLabel(), r.Rupiah(s.Amount))
		}
		printf("\n")
	}
	return err
}

// WriteAllocation writes a single result for the terminal.
// verbose adds the fraction or rule behind every amount.
func (r *Renderer) WriteAllocation(w io.Writer, in model.Input, a model.Allocation, verbose bool) error {
	var err error
	printf := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	printf("Total Harta: %s\n\n", r.Rupiah(in.Estate))
	for _, s := range a.Shares {
		if verbose && s.Basis != "" {
			printf("  %s [%s]: %s\n", s.DisplayLabel(), s.Basis, r.Rupiah(s.Amount))
			continue
		}
		printf("  %s: %s\n", s.DisplayLabel(), r.Rupiah(s.Amount))
	}
	if verbose {
		printf("\n")
		if a.AwlApplied {
			printf("  ⚠️  Awl applied: fixed shares exceeded the estate and were scaled down\n")
		}
		printf("  Fixed shares total: %s\n", r.Rupiah(a.FixedTotal))
	}
	return err
}

// WriteHistoryList writes one summary line per entry, numbered from 1
func (r *Renderer) WriteHistoryList(w io.Writer, entries []model.HistoryEntry) error {
	for i, e := range entries {
		if _, err := fmt.Fprintf(w, "%d. %s — %s\n", i+1, e.Time(), r.Rupiah(e.Estate)); err != nil {
			return err
		}
	}
	return nil
}
