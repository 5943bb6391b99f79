package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/warisan/internal/model"
	"gopkg.in/yaml.v3"
)

// historyDoc is the YAML/JSON shape of an exported ledger
type historyDoc struct {
	Riwayat []entryDoc `yaml:"riwayat" json:"riwayat"`
}

type entryDoc struct {
	No         int        `yaml:"no" json:"no"`
	ID         string     `yaml:"id" json:"id"`
	Waktu      string     `yaml:"waktu" json:"waktu"`
	TotalHarta int64      `yaml:"total_harta" json:"total_harta"`
	Input      inputDoc   `yaml:"input" json:"input"`
	Hasil      []shareDoc `yaml:"hasil" json:"hasil"`
	Awl        bool       `yaml:"awl,omitempty" json:"awl,omitempty"`
}

type inputDoc struct {
	Ayah          bool `yaml:"ayah" json:"ayah"`
	Ibu           bool `yaml:"ibu" json:"ibu"`
	Suami         bool `yaml:"suami" json:"suami"`
	Istri         bool `yaml:"istri" json:"istri"`
	AnakLaki      int  `yaml:"anak_laki" json:"anak_laki"`
	AnakPerempuan int  `yaml:"anak_perempuan" json:"anak_perempuan"`
}

type shareDoc struct {
	Label  string `yaml:"label" json:"label"`
	Jenis  string `yaml:"jenis" json:"jenis"`
	Bagian string `yaml:"bagian,omitempty" json:"bagian,omitempty"`
	Jumlah int64  `yaml:"jumlah" json:"jumlah"`
}

func newHistoryDoc(entries []model.HistoryEntry) historyDoc {
	doc := historyDoc{Riwayat: make([]entryDoc, 0, len(entries))}
	for i, e := range entries {
		ed := entryDoc{
			No:         i + 1,
			ID:         e.ID.String(),
			Waktu:      e.Time(),
			TotalHarta: e.Estate.IntPart(),
			Input: inputDoc{
				Ayah:          e.Input.Father,
				Ibu:           e.Input.Mother,
				Suami:         e.Input.Husband,
				Istri:         e.Input.Wife,
				AnakLaki:      e.Input.Sons,
				AnakPerempuan: e.Input.Daughters,
			},
			Hasil: make([]shareDoc, 0, len(e.Result.Shares)),
			Awl:   e.Result.AwlApplied,
		}
		for _, s := range e.Result.Shares {
			ed.Hasil = append(ed.Hasil, shareDoc{
				Label:  s.Label,
				Jenis:  string(s.Kind),
				Bagian: s.Basis,
				Jumlah: s.Amount.IntPart(),
			})
		}
		doc.Riwayat = append(doc.Riwayat, ed)
	}
	return doc
}

// WriteYAML writes the ledger as a YAML document
func (r *Renderer) WriteYAML(w io.Writer, entries []model.HistoryEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newHistoryDoc(entries)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}

// WriteJSON writes the ledger as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, entries []model.HistoryEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newHistoryDoc(entries)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
