package app

import (
	"database/sql"

	"go.uber.org/dig"

	// Registers the postgres driver so it can be selected via storage config
	_ "github.com/lib/pq"

	"github.com/evgeny-myasishchev/ledger.accounts-service/config"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/client"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/dal"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/idempotency"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/statement"
)

// MemoryStorageDriver is a storage driver that keeps all data in memory.
// Useful for local setups. Any other driver value is treated as a sql driver name.
const MemoryStorageDriver = "memory"

// Injector is a function that will inject desired services
// to a target function
type Injector func(function interface{}) error

// BootstrapServices setup di container with all app services
func BootstrapServices(appCfg *config.AppConfig) Injector {
	c := dig.New()

	if appCfg.Storage.Driver.Value() == MemoryStorageDriver {
		c.Provide(func() dal.Storage {
			return dal.NewMemStorage()
		})

		c.Provide(func() idempotency.Registry {
			return idempotency.NewMemoryRegistry()
		})
	} else {
		c.Provide(func() (*sql.DB, error) {
			return sql.Open(appCfg.Storage.Driver.Value(), appCfg.Storage.DSN.Value())
		})

		c.Provide(func(db *sql.DB) (dal.Storage, error) {
			return dal.NewSQLStorage(dal.WithSQLDb(db))
		})

		c.Provide(func(db *sql.DB) (idempotency.Registry, error) {
			return idempotency.NewSQLRegistry(idempotency.WithSQLDb(db))
		})
	}

	c.Provide(func(storage dal.Storage, registry idempotency.Registry) ledger.Service {
		return ledger.NewService(
			ledger.WithStorage(storage),
			ledger.WithRegistry(registry),
		)
	})

	c.Provide(func(storage dal.Storage) statement.Reader {
		return statement.NewReader(statement.WithStorage(storage))
	})

	c.Provide(func() client.API {
		return client.NewAPI(appCfg.API.BaseURL.Value())
	})

	return func(function interface{}) error {
		return c.Invoke(function)
	}
}
