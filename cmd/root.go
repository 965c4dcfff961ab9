// Package cmd provides the root command and CLI setup for repaint.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/repaint-dev/repaint/internal/adapter"
	"github.com/repaint-dev/repaint/internal/controller"
	"github.com/repaint-dev/repaint/internal/domain"
	m "github.com/repaint-dev/repaint/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var dartAdapter adapter.DartFileAdapter
var mappingStore adapter.MappingStore
var manifestStore adapter.ManifestStore
var reportStore adapter.ReportStore

// reportsOutputDirFlag is a root-level flag shared by commands that read/write run records.
var reportsOutputDirFlag string

// mappingFileFlag points at the YAML file holding the mapping table.
var mappingFileFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	dartAdapter = adapter.NewLocalDartFileAdapter()
	mappingStore = adapter.NewLocalMappingStore()
	manifestStore = adapter.NewLocalManifestStore()
	reportStore = adapter.NewLocalReportStore()
}

const rootLongDescription = `Repaint migrates legacy Flutter color constants (e.g. Palette.primaryBlue)
to theme-based expressions like Theme.of(context).colorScheme.primary,
driven by a user-authored mapping table in repaint.yaml.

Every apply is validated first and preceded by a verifiable backup, so a
migration can always be reviewed before and undone after.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repaint",
		Short: "Flutter color constant migration tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for run records",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&mappingFileFlag, mappingFlagName, "m",
			viper.GetString(mappingConfigKey),
			"YAML file holding the color mapping table",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(mappingFlagName), mappingConfigKey)

	cmd.PersistentFlags().
		StringArrayVarP(
			&excludePatterns, excludeFlagName, "x",
			viper.GetStringSlice(excludeConfigKey),
			"exclude files matching glob (relative to project root, can be repeated)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().
		BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newBackupManager builds the backup manager against the configured backup
// root. Constructed per command so flag and config overrides are visible.
func newBackupManager() domain.BackupManager {
	return domain.NewBackupManager(fsAdapter, manifestStore, m.Path(viper.GetString(backupRootConfigKey)))
}

// newWorkflow assembles the full pipeline behind the plan/apply/view commands.
func newWorkflow(ui controller.UI) domain.Workflow {
	return domain.NewWorkflow(
		fsAdapter,
		dartAdapter,
		reportStore,
		newBackupManager(),
		domain.NewValidator(dartAdapter),
		ui,
	)
}

// loadMapping reads the mapping table, prints its validation findings, and
// aborts on error-severity ones.
func loadMapping(cmd *cobra.Command) (m.MappingTable, error) {
	table, issues, err := mappingStore.Load(m.Path(viper.GetString(mappingConfigKey)))
	if err != nil {
		return m.MappingTable{}, err
	}

	blocking := 0

	for _, issue := range issues {
		label := "warning"
		if issue.Severity == m.SeverityError {
			label = "error"
			blocking++
		}

		cmd.Printf("mapping %s: %s\n", label, issue.Message)

		if issue.Suggestion != "" {
			cmd.Printf("  hint: %s\n", issue.Suggestion)
		}
	}

	if blocking > 0 {
		return m.MappingTable{}, fmt.Errorf("mapping table has %d blocking issue(s)", blocking)
	}

	return table, nil
}

// projectRoot resolves the optional positional path argument.
func projectRoot(args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return m.Path(".")
}
