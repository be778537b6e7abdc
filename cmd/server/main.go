package main

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/txnimport/infra/initializer"
	"github.com/amirasaad/txnimport/pkg/app"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/webapi"
	log "github.com/charmbracelet/log"
)

// @title txnimport API
// @version 1.0.0
// @description Bank statement import and Sossoldi export
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	// Initialize all dependencies
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := slog.Default()

	// Setup Fiber app with all routes and middleware
	fiberApp := webapi.SetupApp(app.New(deps))

	// Start the server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	return fiberApp.Listen(addr)
}
