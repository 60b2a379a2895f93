package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
// Settings depend on the --config flag, so the controllers load them per invocation.
func RegisterProviders(_ *dig.Container) error {
	return nil
}
