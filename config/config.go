package config

import (
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/config"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/version"
)

var appEnv = config.NewAppEnv(version.AppName)
var configBuilder = config.NewBuilder(appEnv)

var localParams = configBuilder.NewParamsBuilder(configBuilder.WithLocalSource())

// Do not change vars below at runtime
var (
	LogLevel = localParams.NewParam("log/logLevel").String()

	ServerPort = localParams.NewParam("server/port").Int()

	APIBaseURL = localParams.NewParam("api/base-url").String()

	StorageDriver = localParams.NewParam("storage/driver").String()
	StorageDSN    = localParams.NewParam("storage/data-source-name").String()
)

// Log represents logger specific options
type Log struct {
	Level config.StringVal
}

// Server represents http server settings
type Server struct {
	Port config.IntVal
}

// API represents settings of the accounts service api
type API struct {
	BaseURL config.StringVal
}

// Storage represents storage settings
type Storage struct {
	Driver config.StringVal
	DSN    config.StringVal
}

// AppConfig is a toplevel config structure
type AppConfig struct {
	Log     Log
	Server  Server
	API     API
	Storage Storage
}

// Load will load and initialize config
func Load() config.ServiceConfig {
	cfg, err := configBuilder.LoadConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadAppConfig will load and initialize app config structure
func LoadAppConfig() *AppConfig {
	cfg, err := configBuilder.LoadConfig()
	if err != nil {
		panic(err)
	}

	appCfg := AppConfig{
		Log: Log{
			Level: cfg.StringParam(LogLevel),
		},
		Server: Server{
			Port: cfg.IntParam(ServerPort),
		},
		API: API{
			BaseURL: cfg.StringParam(APIBaseURL),
		},
		Storage: Storage{
			Driver: cfg.StringParam(StorageDriver),
			DSN:    cfg.StringParam(StorageDSN),
		},
	}

	return &appCfg
}
