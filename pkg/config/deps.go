package config

import (
	"log/slog"

	"github.com/amirasaad/txnimport/pkg/importer"
	"github.com/amirasaad/txnimport/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow        repository.UnitOfWork
	Dispatcher *importer.Dispatcher
	Logger     *slog.Logger
	Config     *App
}
