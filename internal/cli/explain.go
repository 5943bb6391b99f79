package cli

import (
	"github.com/ppiankov/warisan/internal/render"
	"github.com/spf13/cobra"
)

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the inheritance rules used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render.WriteExplanation(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
