package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autosync/internal"
	"github.com/rios0rios0/autosync/internal/infrastructure/controllers"
)

func buildRootCommand(syncController *controllers.SyncController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "autosync [root]",
		Short: "Keep a folder of projects backed up on every Git hosting provider",
		Long: `Walks the immediate subdirectories of a root folder and, for each one,
makes sure a repository exists on every configured hosting provider,
commits all local changes and pushes them.

Supports GitHub, GitLab, Bitbucket and Azure DevOps.

Usage modes:
  autosync                 Sync the root from the config file or AUTOSYNC_ROOT
  autosync /path/to/root   Sync a specific root folder
  autosync status          Show what the next sync would change`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          syncController.Execute,
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect, then environment variables)")
	cmd.PersistentFlags().String("root", "",
		"Root folder whose subdirectories are synced (overrides config)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	syncController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			RunE:  controller.Execute,
		}

		// Add controller-specific flags
		controller.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	container := newContainer()
	cobraRoot := buildRootCommand(injectSyncController(container))

	// Add all subcommands
	addSubcommands(cobraRoot, injectAppContext(container))

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'autosync': %s", err)
	}
}
