package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	analysisUC "chess_analyse/internal/usecase/analysis"
)

type renderDoc struct {
	Path     string               `json:"path" yaml:"path"`
	Late     bool                 `json:"late" yaml:"late"`
	Controls []analysisUC.Control `json:"controls" yaml:"controls"`
	Moves    []analysisUC.NodeDoc `json:"moves" yaml:"moves"`
}

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Print the move list with the cursor on a path",
	Long: `Print the move list of a game. --path takes a path token as found in
the data-path of a move ("0" is the starting position, "5:1,6" is ply 6 of
the first variation on ply 5). A token that is not in the tree is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		nav := analysisUC.NewNavigator(tree, newLogger())
		if token := viper.GetString("path"); token != "" {
			if _, err := tree.Locate(token); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v, showing the start\n", err)
			}
			nav.JumpToken(token)
		}
		return writeBoard(cmd.OutOrStdout(), nav, viper.GetString("format"), !viper.GetBool("no-comments"))
	},
}

func writeBoard(w io.Writer, nav *analysisUC.Navigator, format string, comments bool) error {
	snap := nav.Snapshot()
	nodes := analysisUC.Render(nav.Tree(), snap.Path, analysisUC.RenderOptions{ShowComments: comments})

	switch format {
	case "", "text":
		_, err := io.WriteString(w, analysisUC.RenderText(nodes))
		return err
	case "yaml", "json":
		doc := renderDoc{
			Path:     snap.Token(),
			Late:     snap.Late,
			Controls: snap.Controls,
			Moves:    analysisUC.Docs(nodes),
		}
		if format == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown format %q", format)
}

func init() {
	renderCmd.Flags().String("path", "", "path token of the move to put the cursor on")
	renderCmd.Flags().Bool("no-comments", false, "hide openings, comments and variations")
	renderCmd.Flags().String("format", "text", "output format: text, yaml or json")
	_ = viper.BindPFlag("path", renderCmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("no-comments", renderCmd.Flags().Lookup("no-comments"))
	_ = viper.BindPFlag("format", renderCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(renderCmd)
}
