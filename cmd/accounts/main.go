package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/ledger.accounts-service/config"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/app"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/client"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd     string
	owner   string
	account string
	source  string
	dest    string
	amount  int64
	memo    string
	key     string
	limit   int
	cursor  string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: create-account, get-account, deposit, withdraw, transfer, statement")
	flag.StringVar(&cliArgs.owner, "owner", "", "Owner name (create-account)")
	flag.StringVar(&cliArgs.account, "account", "", "Account id (get-account, deposit, withdraw, statement)")
	flag.StringVar(&cliArgs.source, "source", "", "Source account id (transfer)")
	flag.StringVar(&cliArgs.dest, "dest", "", "Dest account id (transfer)")
	flag.Int64Var(&cliArgs.amount, "amount", 0, "Amount in minor units (deposit, withdraw, transfer)")
	flag.StringVar(&cliArgs.memo, "memo", "", "Optional memo (deposit, withdraw, transfer)")
	flag.StringVar(&cliArgs.key, "key", "", "Idempotency key. Random key is generated if not given")
	flag.IntVar(&cliArgs.limit, "limit", 0, "Max statement entries per page (statement)")
	flag.StringVar(&cliArgs.cursor, "cursor", "", "Statement page cursor (statement)")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func printJSON(payload interface{}) error {
	buffer, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buffer))
	return nil
}

func idempotencyKey() string {
	if cliArgs.key != "" {
		return cliArgs.key
	}
	return uuid.NewV4().String()
}

func main() {
	if cliArgs.cmd == "" {
		showHelpAndExit()
	}

	// Missing .env file is fine, config falls back to local json files
	godotenv.Load()

	appCfg := config.LoadAppConfig()

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level.Value())
	})

	injector := app.BootstrapServices(appCfg)
	ctx := context.Background()

	if err := injector(func(api client.API) error {
		switch cliArgs.cmd {
		case "create-account":
			if cliArgs.owner == "" {
				showHelpAndExit()
			}
			account, err := api.CreateAccount(ctx, cliArgs.owner)
			if err != nil {
				return err
			}
			return printJSON(account)

		case "get-account":
			if cliArgs.account == "" {
				showHelpAndExit()
			}
			account, err := api.GetAccount(ctx, cliArgs.account)
			if err != nil {
				return err
			}
			return printJSON(account)

		case "deposit":
			if cliArgs.account == "" || cliArgs.amount == 0 {
				showHelpAndExit()
			}
			account, err := api.Deposit(ctx, &ledger.MoneyMovement{
				AccountID:      cliArgs.account,
				Amount:         cliArgs.amount,
				Memo:           cliArgs.memo,
				IdempotencyKey: idempotencyKey(),
			})
			if err != nil {
				return err
			}
			return printJSON(account)

		case "withdraw":
			if cliArgs.account == "" || cliArgs.amount == 0 {
				showHelpAndExit()
			}
			account, err := api.Withdraw(ctx, &ledger.MoneyMovement{
				AccountID:      cliArgs.account,
				Amount:         cliArgs.amount,
				Memo:           cliArgs.memo,
				IdempotencyKey: idempotencyKey(),
			})
			if err != nil {
				return err
			}
			return printJSON(account)

		case "transfer":
			if cliArgs.source == "" || cliArgs.dest == "" || cliArgs.amount == 0 {
				showHelpAndExit()
			}
			result, err := api.Transfer(ctx, &ledger.TransferRequest{
				SourceAccountID: cliArgs.source,
				DestAccountID:   cliArgs.dest,
				Amount:          cliArgs.amount,
				Memo:            cliArgs.memo,
				IdempotencyKey:  idempotencyKey(),
			})
			if err != nil {
				return err
			}
			return printJSON(result)

		case "statement":
			if cliArgs.account == "" {
				showHelpAndExit()
			}
			stmt, err := api.GetStatement(ctx, cliArgs.account, cliArgs.limit, cliArgs.cursor)
			if err != nil {
				return err
			}
			return printJSON(stmt)

		default:
			flag.PrintDefaults()
			os.Exit(1)
			return nil
		}
	}); err != nil {
		logger.WithError(err).Error(ctx, "Failed to run %v", cliArgs.cmd)
		os.Exit(1)
	}
}
