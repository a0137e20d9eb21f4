package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/evgeny-myasishchev/ledger.accounts-service/config"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/app"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/dal"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/idempotency"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/rest"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/statement"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	port int
}

func init() {
	flag.IntVar(&cliArgs.port, "port", 0, "Port to listen on. Defaults to server/port config param")

	flag.Parse()
}

func main() {
	// Missing .env file is fine, config falls back to local json files
	godotenv.Load()

	appCfg := config.LoadAppConfig()

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogMode("json")
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})

	ctx := context.Background()
	injector := app.BootstrapServices(appCfg)

	if err := injector(func(storage dal.Storage, registry idempotency.Registry) error {
		if err := storage.Setup(ctx); err != nil {
			return err
		}
		return registry.Setup(ctx)
	}); err != nil {
		logger.WithError(err).Error(ctx, "Failed to setup storage")
		os.Exit(1)
	}

	port := cliArgs.port
	if port == 0 {
		port = appCfg.Server.Port.Value()
	}

	if err := injector(func(svc ledger.Service, reader statement.Reader) error {
		return router.StartServer(port, func(r router.Router) {
			r.Use(diag.NewRequestIDMiddleware())
			r.Use(diag.NewLogRequestsMiddleware(
				diag.IgnorePath("/v1/healthcheck/ping"),
				diag.ObfuscateHeaders("Authorization"),
			))
			rest.SetupRoutes(r, rest.WithService(svc), rest.WithReader(reader))
		})
	}); err != nil {
		logger.WithError(err).Error(ctx, "Server failed")
		os.Exit(1)
	}
}
