package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// SyncController handles the "sync" subcommand, also run by the bare root command.
type SyncController struct {
	command commands.Run
}

// NewSyncController creates a new SyncController.
func NewSyncController(command commands.Run) *SyncController {
	return &SyncController{command: command}
}

// GetBind returns the Cobra command metadata for the sync controller.
func (it *SyncController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync [root]",
		Short: "Commit and push every directory under the root",
		Long: `For every immediate subdirectory of the root, make sure a remote
repository exists on each configured provider, commit all local changes
and push them.

When a remote rejects the push because its history diverged, the local
git metadata is discarded, the directory is re-initialized and a single
fresh commit is force-pushed to every provider.

This is the command intended to be used in a cronjob.`,
	}
}

// Execute runs one sync pass. It fails when any directory failed.
func (it *SyncController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	directoryFilter, _ := cmd.Flags().GetString("dir")
	workers, _ := cmd.Flags().GetInt("workers")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Infof("Starting autosync run in %q...", settings.Root)

	summary, err := it.command.Execute(ctx, settings, commands.RunOptions{
		Verbose:       verbose,
		ProviderName:  providerFilter,
		DirectoryName: directoryFilter,
		Workers:       workers,
		Timeout:       timeout,
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d directories failed", summary.Count(entities.OutcomeFailed), summary.Total())
	}
	return nil
}

// AddFlags adds the sync-specific flags to the given Cobra command.
func (it *SyncController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Only sync to this provider (type or remote name)")
	cmd.Flags().String("dir", "", "Only process this directory")
	cmd.Flags().Int("workers", 0, "Number of directories processed in parallel (default: from config, 1)")
	cmd.Flags().Duration("timeout", 0, "Per-directory timeout, e.g. 5m (default: none)")
}
