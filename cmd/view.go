package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repaint-dev/repaint/internal/controller"
	m "github.com/repaint-dev/repaint/internal/model"
)

var viewInteractiveFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Re-display the most recently saved run record",
		Long: `Reload the run record from the reports directory, re-validate it, and
present it the same way plan does.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ui := controller.NewUI(cmd, viewInteractiveFlag && controller.IsTTY(os.Stdout))

			_, _, err := newWorkflow(ui).View(cmd.Context(), m.Path(viper.GetString(outputFlagName)))

			return err
		},
	}

	cmd.Flags().BoolVarP(&viewInteractiveFlag, "interactive", "i", false, "review diffs in a full-screen pager")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
