package rest

import (
	"net/http"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/router"
	"github.com/pkg/errors"
)

// idempotencyKeyHeader carries the client supplied retry key of a
// money moving request
const idempotencyKeyHeader = "Idempotency-Key"

func idempotencyKey(req *http.Request) (string, error) {
	key := req.Header.Get(idempotencyKeyHeader)
	if key == "" {
		return "", router.BadRequestError(idempotencyKeyHeader + " header is required")
	}
	return key, nil
}

func asHTTPError(err error) error {
	typed, ok := errors.Cause(err).(*ledger.Error)
	if !ok {
		return err
	}
	switch typed.Kind {
	case ledger.KindInvalidInput, ledger.KindSelfTransferNotAllowed:
		return router.BadRequestError(typed.Message)
	case ledger.KindNotFound:
		return router.ResourceNotFoundError(typed.Message)
	case ledger.KindInsufficientFunds, ledger.KindIdempotencyConflict:
		return router.ConflictError(typed.Message)
	case ledger.KindUnavailable:
		return router.ServiceUnavailableError(typed.Message)
	default:
		return err
	}
}
