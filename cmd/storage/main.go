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
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: setup")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	if cliArgs.cmd == "" {
		showHelpAndExit()
	}
	ctx := context.Background()

	// Missing .env file is fine, config falls back to local json files
	godotenv.Load()

	appCfg := config.LoadAppConfig()

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})

	injector := app.BootstrapServices(appCfg)

	switch cliArgs.cmd {
	case "setup":
		if err := injector(func(storage dal.Storage, registry idempotency.Registry) error {
			if err := storage.Setup(ctx); err != nil {
				return err
			}
			return registry.Setup(ctx)
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to setup storage")
			os.Exit(1)
		}

	default:
		flag.PrintDefaults()
		os.Exit(1)
	}
}
