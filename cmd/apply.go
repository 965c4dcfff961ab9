package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/repaint-dev/repaint/internal/controller"
	"github.com/repaint-dev/repaint/internal/domain"
	m "github.com/repaint-dev/repaint/internal/model"
)

var applyForceFlag bool

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [path]",
		Short: "Rewrite mapped color constants in place",
		Long: `Re-plan the project and write the rewritten files. The write is gated:
validation errors abort before anything is touched (override with --force),
and a verifiable backup is taken before the first byte changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := loadMapping(cmd)
			if err != nil {
				return err
			}

			ui := controller.NewUI(cmd, false)

			_, _, err = newWorkflow(ui).Apply(cmd.Context(), domain.ApplyArgs{
				PlanArgs: domain.PlanArgs{
					Root:    projectRoot(args),
					Mapping: mapping,
					Exclude: viper.GetStringSlice(excludeConfigKey),
					Reports: m.Path(viper.GetString(outputFlagName)),
				},
				Force: applyForceFlag,
			})

			return err
		},
	}

	cmd.Flags().BoolVar(&applyForceFlag, "force", false, "apply even when validation reports blocking issues")

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
