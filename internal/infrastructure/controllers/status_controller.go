package controllers

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// StatusController handles the "status" subcommand.
type StatusController struct {
	command commands.Status
}

// NewStatusController creates a new StatusController.
func NewStatusController(command commands.Status) *StatusController {
	return &StatusController{command: command}
}

// GetBind returns the Cobra command metadata for the status controller.
func (it *StatusController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "status [root]",
		Short: "Show which directories would be changed by the next sync",
		Long: `Inspect every directory under the root without contacting any
provider or modifying git metadata, and report directories that are not
initialized, miss a provider remote or have uncommitted changes.`,
	}
}

// Execute prints one line per directory.
func (it *StatusController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}

	directoryFilter, _ := cmd.Flags().GetString("dir")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reports, err := it.command.Execute(ctx, settings, directoryFilter)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	pending := 0
	for _, report := range reports {
		if report.InSync() {
			logger.Infof("[%s] In sync", report.Directory)
			continue
		}
		pending++
		logger.Warnf("[%s] %s", report.Directory, describe(report))
	}

	logger.Infof("%d of %d directories need a sync", pending, len(reports))
	return nil
}

// AddFlags adds the status-specific flags to the given Cobra command.
func (it *StatusController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "Only inspect this directory")
}

func describe(report entities.DirectoryReport) string {
	if report.Err != nil {
		return "Error: " + report.Err.Error()
	}

	var parts []string
	if !report.HasVersionControl {
		parts = append(parts, "not initialized")
	}
	if len(report.MissingRemotes) > 0 {
		parts = append(parts, "missing remotes: "+strings.Join(report.MissingRemotes, ", "))
	}
	if report.Changes > 0 {
		parts = append(parts, fmt.Sprintf("%d uncommitted change(s)", report.Changes))
	}
	return strings.Join(parts, "; ")
}
