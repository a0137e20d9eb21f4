// Package idempotency tracks operation keys so retries of an already
// performed operation are recognized and served the stored result
// instead of being executed again.
package idempotency

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var (
	// ErrFingerprintMismatch is returned when a key is reused with a different request body
	ErrFingerprintMismatch = errors.New("Fingerprint mismatch")

	// ErrInProgress is returned when a reservation of a concurrent caller did not settle in time
	ErrInProgress = errors.New("Operation in progress")
)

// Outcome is a result of a LookupOrReserve call
type Outcome struct {
	// Existing is true if a completed result was found for the key.
	// False means the key is now reserved and the caller must execute
	// the operation and then either Commit or Release
	Existing bool

	// Result holds the stored result of a completed operation
	Result []byte
}

// Registry tracks idempotency keys scoped by route
type Registry interface {
	Setup(ctx context.Context) error

	// LookupOrReserve atomically reserves an unseen key. Exactly one of
	// the concurrent callers with the same key wins the reservation
	LookupOrReserve(ctx context.Context, route string, key string, fingerprint string) (*Outcome, error)

	// Commit stores the result of a won reservation
	Commit(ctx context.Context, route string, key string, result []byte) error

	// Release frees a reservation after a failed execution so the key
	// stays retryable
	Release(ctx context.Context, route string, key string) error
}

// Fingerprint returns a stable hash of a canonical request representation
func Fingerprint(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

type registryCfg struct {
	db           *sql.DB
	now          func() time.Time
	pollInterval time.Duration
	pollAttempts int
}

// RegistryOpt is an option of a registry
type RegistryOpt func(cfg *registryCfg)

// WithSQLDb will set an explicit db instance for a registry
func WithSQLDb(db *sql.DB) RegistryOpt {
	return func(cfg *registryCfg) {
		cfg.db = db
	}
}

// WithNow will set a custom time source. Used by tests
func WithNow(now func() time.Time) RegistryOpt {
	return func(cfg *registryCfg) {
		cfg.now = now
	}
}

// WithPolling will set how long a sql registry polls a pending
// reservation before giving up with ErrInProgress
func WithPolling(interval time.Duration, attempts int) RegistryOpt {
	return func(cfg *registryCfg) {
		cfg.pollInterval = interval
		cfg.pollAttempts = attempts
	}
}

func newRegistryCfg(opts []RegistryOpt) registryCfg {
	cfg := registryCfg{
		now:          time.Now,
		pollInterval: 50 * time.Millisecond,
		pollAttempts: 10,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
