package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter repaint.yaml configuration file",
		Long: `Create a repaint.yaml in the current working directory populated with the
CLI defaults and a skeleton mapping table so it can be edited manually.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			seedMappingDefaults()

			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

// seedMappingDefaults registers a skeleton mapping table so the generated
// file shows the expected shape.
func seedMappingDefaults() {
	viper.SetDefault("mapping.namespaces", []string{"Palette"})
	viper.SetDefault("mapping.strict", map[string]string{
		"Palette.primaryBlue": "primary",
	})
	viper.SetDefault("mapping.extensions", []map[string]interface{}{
		{
			"group": "BrandColors",
			"properties": map[string]string{
				"Palette.accentGold": "accent",
			},
		},
	})
	viper.SetDefault("mapping.preserved", []string{})
}

func init() {
	rootCmd.AddCommand(initCmd)
}
