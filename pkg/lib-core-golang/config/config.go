package config

import (
	"context"
	"flag"
	"os"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

const (
	appEnvVar = "APP_ENV"

	facetVar = "APP_ENV_FACET"
)

var logger = diag.CreateLogger()

// AppEnv represents app env
type AppEnv struct {
	// ServiceName is a name of a current service
	ServiceName string

	// Name is a env name. By default taken from APP_ENV. Corresponds to NODE_ENV
	Name string

	// Facet is a env facet like preprod (for production). By default taken from APP_ENV_FACET. Corresponds to NODE_APP_INSTANCE
	Facet string
}

type appEnvCfg struct {
	lookupFlag func(name string) *flag.Flag
}

type appEnvOpt func(*appEnvCfg)

func withLookupFlag(lookupFlag func(name string) *flag.Flag) appEnvOpt {
	return func(cfg *appEnvCfg) {
		cfg.lookupFlag = lookupFlag
	}
}

// NewAppEnv creates a new instance of the app env from os env
// Will use "dev" by default and "test" when running under go test
func NewAppEnv(serviceName string, opts ...appEnvOpt) AppEnv {
	cfg := appEnvCfg{
		lookupFlag: flag.Lookup,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	appEnv := os.Getenv(appEnvVar)
	if appEnv == "" {
		if v := cfg.lookupFlag("test.v"); v == nil {
			appEnv = "dev"
		} else {
			appEnv = "test"
		}
	}
	return AppEnv{
		Name:        appEnv,
		Facet:       os.Getenv(facetVar),
		ServiceName: serviceName,
	}
}

// Source is an abstraction to read params
type Source interface {
	GetParameters(ctx context.Context, params []param) (map[param]interface{}, error)
}

// ServiceConfig provides access to loaded param values
type ServiceConfig interface {
	StringParam(p StringParam) StringVal
	IntParam(p IntParam) IntVal
	BoolParam(p BoolParam) BoolVal
}

type serviceConfig struct {
	values map[param]paramValue
}

func (c *serviceConfig) paramValue(p param) paramValue {
	value, ok := c.values[p]
	if !ok {
		// Params are built with a builder so a missing value is a developer mistake
		panic("Parameter " + p.key() + " is not bound")
	}
	return value
}

func (c *serviceConfig) StringParam(p StringParam) StringVal {
	return c.paramValue(p).(StringVal)
}

func (c *serviceConfig) IntParam(p IntParam) IntVal {
	return c.paramValue(p).(IntVal)
}

func (c *serviceConfig) BoolParam(p BoolParam) BoolVal {
	return c.paramValue(p).(BoolVal)
}
