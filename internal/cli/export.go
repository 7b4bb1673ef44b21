package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	analysisUC "chess_analyse/internal/usecase/analysis"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Print the game as PGN with comments and variations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysisUC.ExportPGN(tree))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "analyse v0.1.0")
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
