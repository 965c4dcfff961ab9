package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repaint-dev/repaint/internal/controller"
	"github.com/repaint-dev/repaint/internal/domain"
	m "github.com/repaint-dev/repaint/internal/model"
)

var planInteractiveFlag bool

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Preview the color migration without modifying any file",
		Long: `Scan the project, resolve every mapped color constant, and print the
rewrites as diffs together with validation findings. Nothing is written;
the run record is saved so it can be reviewed later with "repaint view".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := loadMapping(cmd)
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd, planInteractiveFlag && controller.IsTTY(os.Stdout))

			_, _, err = newWorkflow(ui).Plan(cmd.Context(), domain.PlanArgs{
				Root:    projectRoot(args),
				Mapping: mapping,
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Reports: m.Path(viper.GetString(outputFlagName)),
			})

			return err
		},
	}

	cmd.Flags().BoolVarP(&planInteractiveFlag, "interactive", "i", false, "review diffs in a full-screen pager")

	return cmd
}

func init() {
	rootCmd.AddCommand(planCmd)
}
