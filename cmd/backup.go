package cmd

import (
	"github.com/spf13/cobra"

	"github.com/repaint-dev/repaint/internal/controller"
)

// backupCmd groups the snapshot management subcommands.
var backupCmd = newBackupCmd()

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage the pre-write snapshots taken by apply runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupVerifyCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())

	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifests, err := newBackupManager().List()
			if err != nil {
				return err
			}

			return controller.NewSimpleUI(cmd).PresentBackups(cmd.Context(), manifests)
		},
	}
}

func newBackupVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Re-hash a backup's files against its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verification, err := newBackupManager().Verify(args[0])
			if err != nil {
				return err
			}

			return controller.NewSimpleUI(cmd).PresentVerification(cmd.Context(), args[0], verification)
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Copy a backup's files back over the project",
		Long: `Restore every intact file from the snapshot to its original location.
Corrupted or missing snapshot copies are skipped and reported; they never
abort the recovery of the remaining files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := newBackupManager().Restore(args[0])
			if err != nil {
				return err
			}

			return controller.NewSimpleUI(cmd).PresentRestore(cmd.Context(), args[0], report)
		},
	}
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a backup and its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newBackupManager().Delete(args[0]); err != nil {
				return err
			}

			cmd.Printf("Deleted backup %s\n", args[0])

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
