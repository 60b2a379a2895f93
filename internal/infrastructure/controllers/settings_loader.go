package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autosync/internal/domain/entities"
)

// loadSettings resolves the configuration in order: --config, a config file
// in the default locations, then environment variables. The root comes from
// the positional argument, then --root, then the configuration.
func loadSettings(cmd *cobra.Command, args []string) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")
	if len(args) > 0 {
		root = args[0]
	}

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, reading settings from the environment: %v", err)
			settings, envErr := entities.NewSettingsFromEnv(root)
			if envErr != nil {
				return nil, fmt.Errorf(
					"failed to load settings from the environment: %w\n"+
						"Specify a config file with --config or create autosync.yaml", envErr,
				)
			}
			return settings, nil
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}
