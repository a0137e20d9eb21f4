// Package rest exposes the ledger engine over HTTP
package rest

import (
	"net/http"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/statement"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/version"
)

type routesCfg struct {
	svc    ledger.Service
	reader statement.Reader
}

// RoutesOpt is an option of the routes setup
type RoutesOpt func(cfg *routesCfg)

// WithService option sets the ledger service
func WithService(svc ledger.Service) RoutesOpt {
	return func(cfg *routesCfg) {
		cfg.svc = svc
	}
}

// WithReader option sets the statement reader
func WithReader(reader statement.Reader) RoutesOpt {
	return func(cfg *routesCfg) {
		cfg.reader = reader
	}
}

// SetupRoutes registers all routes of the service
func SetupRoutes(r router.Router, opts ...RoutesOpt) {
	cfg := routesCfg{}
	for _, opt := range opts {
		opt(&cfg)
	}
	r.Handle("POST", "/v1/accounts", createAccountHandler(cfg.svc))
	r.Handle("GET", "/v1/accounts/:accountID", getAccountHandler(cfg.svc))
	r.Handle("POST", "/v1/accounts/:accountID/deposit", depositHandler(cfg.svc))
	r.Handle("POST", "/v1/accounts/:accountID/withdraw", withdrawHandler(cfg.svc))
	r.Handle("GET", "/v1/accounts/:accountID/statement", statementHandler(cfg.reader))
	r.Handle("POST", "/v1/transfers", transferHandler(cfg.svc))
	r.Handle("GET", "/v1/healthcheck/ping", pingHandler())
}

type pingResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

func pingHandler() router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		return h.WriteJSON(pingResponse{OK: true, Version: version.Version})
	}
}
