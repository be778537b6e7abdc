package app

import (
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/service/account"
	"github.com/amirasaad/txnimport/pkg/service/auth"
	"github.com/amirasaad/txnimport/pkg/service/export"
	"github.com/amirasaad/txnimport/pkg/service/imports"
	"github.com/amirasaad/txnimport/pkg/service/user"
)

// App groups the services shared by the HTTP server and the CLI.
type App struct {
	Deps           config.Deps
	Config         *config.App
	AuthService    *auth.Service
	UserService    *user.Service
	AccountService *account.Service
	ImportService  *imports.Service
	ExportService  *export.Service
}

func New(deps config.Deps) *App {
	app := &App{
		Deps:   deps,
		Config: deps.Config,
	}
	var jwtCfg *config.Jwt
	if deps.Config != nil && deps.Config.Auth != nil {
		jwtCfg = deps.Config.Auth.Jwt
	}
	if jwtCfg == nil {
		jwtCfg = &config.Jwt{}
	}
	app.AuthService = auth.New(jwtCfg, deps.Logger)
	app.UserService = user.New(deps.Uow, deps.Logger)
	app.AccountService = account.NewService(deps)
	app.ImportService = imports.NewService(deps)
	app.ExportService = export.NewService(deps)
	return app
}
