package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/autosync/internal"
	"github.com/rios0rios0/autosync/internal/infrastructure/controllers"
)

func newContainer() *dig.Container {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}
	return container
}

func injectAppContext(container *dig.Container) *internal.AppInternal {
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return appInternal
}

func injectSyncController(container *dig.Container) *controllers.SyncController {
	var syncController *controllers.SyncController
	if err := container.Invoke(func(sc *controllers.SyncController) {
		syncController = sc
	}); err != nil {
		panic(err)
	}

	return syncController
}
