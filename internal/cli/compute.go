package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/validate"
	"github.com/spf13/cobra"
)

// inputFlags holds the heir flags shared by compute in the shell and in a session
type inputFlags struct {
	harta         string
	ayah          bool
	ibu           bool
	suami         bool
	istri         bool
	anakLaki      int
	anakPerempuan int
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.harta, "harta", "", `estate value, e.g. 12000000 or "Rp 12.000.000"`)
	cmd.Flags().BoolVar(&f.ayah, "ayah", false, "father is alive")
	cmd.Flags().BoolVar(&f.ibu, "ibu", false, "mother is alive")
	cmd.Flags().BoolVar(&f.suami, "suami", false, "husband is alive")
	cmd.Flags().BoolVar(&f.istri, "istri", false, "wife is alive")
	cmd.Flags().IntVar(&f.anakLaki, "anak-laki", 0, "number of sons")
	cmd.Flags().IntVar(&f.anakPerempuan, "anak-perempuan", 0, "number of daughters")
	_ = cmd.MarkFlagRequired("harta")
}

func (f *inputFlags) input() (model.Input, error) {
	estate, err := validate.ParseEstate(f.harta)
	if err != nil {
		return model.Input{}, err
	}
	return model.Input{
		Estate:    estate,
		Father:    f.ayah,
		Mother:    f.ibu,
		Husband:   f.suami,
		Wife:      f.istri,
		Sons:      f.anakLaki,
		Daughters: f.anakPerempuan,
	}, nil
}

var (
	computeFlags  inputFlags
	computeExport string
	exportFormat  string
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Allocate an estate among heirs",
	Long: `Compute allocates an estate among the heirs present:
- Applies fixed shares, awl and ashabah
- Rounds every share to whole Rupiah
- Optionally exports the result as a one-entry history

Example:
  warisan compute --harta 12000000 --ayah --ibu --anak-laki 1
  warisan compute --harta "Rp 15.000.000" --suami --ayah --ibu --anak-perempuan 2 -v
  warisan compute --harta 6000000 --ibu --export riwayat.txt`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)

	computeFlags.bind(computeCmd)
	computeCmd.Flags().StringVar(&computeExport, "export", "", "write the result to this file")
	computeCmd.Flags().StringVar(&exportFormat, "format", "", "export format: text, yaml or json (default from config)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	in, err := computeFlags.input()
	if err != nil {
		return err
	}

	s, err := newSession(appConfig, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Compute(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := s.Renderer().WriteAllocation(out, in, result, appConfig.Output.Verbose); err != nil {
		return err
	}

	if computeExport != "" {
		format := resolveFormat(exportFormat, appConfig)
		if err := s.Export(computeExport, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", computeExport)
	}
	return nil
}

// resolveFormat returns the explicit format or the configured default
func resolveFormat(explicit string, cfg *model.Config) string {
	if explicit != "" {
		return explicit
	}
	return cfg.Export.Format
}

// defaultExportPath names an export file after the configured pattern
func defaultExportPath(cfg *model.Config, format string, now time.Time) string {
	ext := ".txt"
	switch format {
	case model.FormatYAML:
		ext = ".yaml"
	case model.FormatJSON:
		ext = ".json"
	}
	return filepath.Join(cfg.Export.Dir, now.Format(cfg.Export.FilenamePattern)+ext)
}
