// Package main is the entry point for the tool manager.
package main

import (
	"os"

	"github.com/stacklok/toolhive-tool-manager/cmd/thv-tool-manager/app"
	"github.com/stacklok/toolhive-tool-manager/internal/logger"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
