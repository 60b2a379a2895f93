package internal

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/autosync/internal/domain/commands"
	"github.com/rios0rios0/autosync/internal/domain/entities"
	"github.com/rios0rios0/autosync/internal/infrastructure/controllers"
	"github.com/rios0rios0/autosync/internal/infrastructure/repositories"
)

// RegisterProviders registers every layer with the DIG container, bottom-up:
// repositories, entities, commands, controllers and finally the AppInternal.
func RegisterProviders(container *dig.Container) error {
	layers := []struct {
		name     string
		register func(*dig.Container) error
	}{
		{"repositories", repositories.RegisterProviders},
		{"entities", entities.RegisterProviders},
		{"commands", commands.RegisterProviders},
		{"controllers", controllers.RegisterProviders},
	}

	for _, layer := range layers {
		if err := layer.register(container); err != nil {
			return fmt.Errorf("failed to register %s: %w", layer.name, err)
		}
	}

	return container.Provide(NewAppInternal)
}
