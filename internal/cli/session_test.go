package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var replTime = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	s, err := session.New(session.WithClock(func() time.Time { return replTime }))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	cfg := model.DefaultConfig()
	cfg.Export.Dir = t.TempDir()

	var out bytes.Buffer
	return &repl{session: s, cfg: cfg, out: &out, now: func() time.Time { return replTime }}, &out
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestREPL_ComputeAndHistory(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"compute --harta 12000000 --ayah --ibu --anak-laki 1",
		"compute --harta 6000000 --ibu",
		"history",
	))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "  Ayah: Rp 2,000,000")
	assert.Contains(t, text, "  └─ Anak Laki-laki 1: Rp 8,000,000")
	assert.Contains(t, text, "✓ Saved as entry 2")
	assert.Contains(t, text, "1. 2026-10-18 09:00:00 — Rp 12,000,000")
	assert.Contains(t, text, "2. 2026-10-18 09:00:00 — Rp 6,000,000")

	// flags from the first line do not carry over
	second, err := r.session.Entry(1)
	require.NoError(t, err)
	assert.False(t, second.Input.Father)
	assert.False(t, second.Result.Has(model.LabelFather))
}

func TestREPL_ErrorsKeepSessionRunning(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"compute --harta 0 --ibu",
		"compute --harta 24000000 --suami --istri --anak-laki 1",
		"compute --ibu",
		"delete 3",
		"show x",
		"frobnicate",
		"compute --harta 6000000 --ibu",
	))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "✗ estate must be greater than 0")
	assert.Contains(t, text, "✗ invalid input: choose husband or wife, not both")
	assert.Contains(t, text, `required flag(s) "harta" not set`)
	assert.Contains(t, text, "✗ history index out of range")
	assert.Contains(t, text, `✗ invalid entry number "x"`)
	assert.Contains(t, text, `unknown command "frobnicate"`)
	assert.Equal(t, 1, r.session.Len())
}

func TestREPL_ShowDeleteClear(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"compute --harta 3000000 --ibu",
		"compute --harta 6000000 --ibu",
		"compute --harta 9000000 --ibu",
		"show 2",
		"delete 1",
	))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "=== Riwayat 2 === 2026-10-18 09:00:00")
	assert.Contains(t, out.String(), "Total Harta: Rp 6,000,000")
	assert.Contains(t, out.String(), "✓ Deleted entry 1")

	history := r.session.History()
	require.Len(t, history, 2)
	assert.Equal(t, int64(6_000_000), history[0].Estate.IntPart())
	assert.Equal(t, int64(9_000_000), history[1].Estate.IntPart())

	require.NoError(t, r.run(script("clear", "history")))
	assert.Contains(t, out.String(), "✓ History cleared")
	assert.Contains(t, out.String(), "No history yet")
	assert.Equal(t, 0, r.session.Len())
}

func TestREPL_Export(t *testing.T) {
	r, out := newTestREPL(t)
	explicit := filepath.Join(t.TempDir(), "riwayat.json")

	err := r.run(script(
		"compute --harta 6000000 --ibu",
		"export",
		"export "+explicit+" --format json",
		"export out.xml --format xml",
	))
	require.NoError(t, err)

	defaultPath := filepath.Join(r.cfg.Export.Dir, "Warisan_Riwayat_20261018_090000.txt")
	data, err := os.ReadFile(defaultPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "=== Riwayat 1 ===\n"))

	data, err = os.ReadFile(explicit)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_harta": 6000000`)

	assert.Contains(t, out.String(), `✗ unsupported format "xml"`)
	assert.Equal(t, 1, r.session.Len())
}

func TestREPL_ExportEmptyHistory(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"export",
		"export - --format json",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "✗ no history to export"))
	assert.NotContains(t, out.String(), "✓ Exported")
	files, err := os.ReadDir(r.cfg.Export.Dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestREPL_ExportToStdout(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"compute --harta 6000000 --ibu",
		"export - --format json",
		"export -",
	))
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"total_harta": 6000000`)
	assert.Contains(t, out.String(), "=== Riwayat 1 ===\nWaktu: 2026-10-18 09:00:00\n")
	files, err := os.ReadDir(r.cfg.Export.Dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestREPL_HistoryShowsLatestEntry(t *testing.T) {
	r, out := newTestREPL(t)

	require.NoError(t, r.run(script(
		"compute --harta 12000000 --ayah --ibu --anak-laki 1",
		"compute --harta 6000000 --ibu",
	)))
	out.Reset()
	require.NoError(t, r.run(script("history")))

	text := out.String()
	list := strings.Index(text, "2. 2026-10-18 09:00:00 — Rp 6,000,000")
	detail := strings.Index(text, "=== Riwayat 2 === 2026-10-18 09:00:00")
	require.NotEqual(t, -1, list)
	require.NotEqual(t, -1, detail)
	assert.Less(t, list, detail)
	assert.Contains(t, text[detail:], "Total Harta: Rp 6,000,000")
	assert.NotContains(t, text[detail:], "Ayah")
}

func TestREPL_Explain(t *testing.T) {
	r, out := newTestREPL(t)

	require.NoError(t, r.run(script("explain", "help")))
	assert.Contains(t, out.String(), "Penjelasan Singkat Faraidh")
	assert.Contains(t, out.String(), "Explain the inheritance rules used")
}

func TestREPL_QuitAndHelp(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.run(script(
		"help",
		"",
		"quit",
		"compute --harta 6000000 --ibu",
	))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "compute")
	assert.Contains(t, out.String(), "Allocate an estate and add it to the history")
	assert.Equal(t, 0, r.session.Len())
}

func TestEntryIndex(t *testing.T) {
	i, err := entryIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = entryIndex("three")
	assert.Error(t, err)
}
