// Command txnimport imports bank statements and exports Sossoldi backups from a terminal.
package main

import (
	"os"

	"github.com/amirasaad/txnimport/infra/initializer"
	"github.com/amirasaad/txnimport/pkg/app"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/fatih/color"
)

func main() {
	if err := newRootCommand(loadApp).Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

// loadApp wires the services from the environment, the same way the server does.
func loadApp() (*app.App, func(), error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, func() {}, err
	}
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return app.New(deps), cleanup, nil
}
