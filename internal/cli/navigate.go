package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	analysisUC "chess_analyse/internal/usecase/analysis"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate FILE",
	Short: "Replay navigation steps and print where the cursor ends",
	Long: `Replay a space separated list of steps (first, prev, next, last, or
jump=TOKEN) from the starting position, printing the cursor after each step,
then print the board.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		nav := analysisUC.NewNavigator(tree, newLogger())
		out := cmd.OutOrStdout()

		for _, step := range strings.Fields(viper.GetString("steps")) {
			if err := applyStep(nav, step); err != nil {
				return err
			}
			fmt.Fprintf(out, "%-12s -> %s\n", step, nav.Token())
		}
		fmt.Fprintln(out)
		return writeBoard(out, nav, "text", true)
	},
}

func applyStep(nav *analysisUC.Navigator, step string) error {
	name, arg, _ := strings.Cut(step, "=")
	switch analysisUC.Action(name) {
	case analysisUC.ActionFirst:
		nav.First()
	case analysisUC.ActionPrev:
		nav.Prev()
	case analysisUC.ActionNext:
		nav.Next()
	case analysisUC.ActionLast:
		nav.Last()
	case analysisUC.ActionJump:
		nav.JumpToken(arg)
	default:
		return fmt.Errorf("unknown step %q", step)
	}
	return nil
}

func init() {
	navigateCmd.Flags().String("steps", "", `steps to replay, e.g. "next next jump=3:1,3 prev"`)
	_ = viper.BindPFlag("steps", navigateCmd.Flags().Lookup("steps"))

	rootCmd.AddCommand(navigateCmd)
}
