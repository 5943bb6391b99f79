package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	concurrency  int
	batchOutput  string
	batchFormat  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Compute many allocations from a YAML file",
	Long: `Batch reads a YAML list of inputs and computes them in parallel:
- Each entry has harta, ayah, ibu, suami, istri, anak_laki, anak_perempuan
- Allocations run on a bounded worker pool
- Results are recorded and exported in input order

Example input:
  - harta: 12000000
    ayah: true
    ibu: true
    anak_laki: 1
  - harta: "Rp 6.000.000"
    ibu: true

Example:
  warisan batch inputs.yaml
  warisan batch inputs.yaml --output riwayat.json --format json --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "export file (default from config pattern)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "export format: text, yaml or json (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	workers := concurrency
	if workers <= 0 {
		workers = appConfig.Concurrency.Workers
	}
	format := resolveFormat(batchFormat, appConfig)
	if !model.ValidFormat(format) {
		return fmt.Errorf("unsupported format %q", format)
	}
	output := batchOutput
	if output == "" {
		output = defaultExportPath(appConfig, format, time.Now())
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Warisan Batch Processing\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s\n", file)
	fmt.Fprintf(errOut, "  Workers:      %d\n", workers)
	fmt.Fprintf(errOut, "  Output:       %s (%s)\n", output, format)
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(errOut, "\n")

	s, err := newSession(appConfig, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	processor := worker.NewBatchProcessor(s.Allocator(), workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	// Recorded from this goroutine only, in input order
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ entry %d: %v\n", result.Index+1, result.Error)
			continue
		}
		s.Record(result.Input, result.Allocation)
		fmt.Fprintf(errOut, "✓ entry %d: %s\n", result.Index+1, s.Renderer().Rupiah(result.Input.Estate))
	}

	if s.Len() > 0 {
		if err := s.Export(output, format); err != nil {
			return err
		}
	}

	logger.Info("batch complete",
		zap.String("file", file),
		zap.Int("total", len(results)),
		zap.Int("failures", failureCount),
	)

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Batch Complete\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d inputs\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", s.Len())
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	if s.Len() > 0 {
		fmt.Fprintf(errOut, "  Output:    %s\n", output)
	}
	fmt.Fprintf(errOut, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d inputs failed", failureCount, len(results))
	}
	return nil
}
