package idempotency

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	stateReserved  = "reserved"
	stateCompleted = "completed"
)

type sqlRegistry struct {
	db           *sql.DB
	now          func() time.Time
	pollInterval time.Duration
	pollAttempts int
}

func (r *sqlRegistry) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup SQL idempotency registry")
	// Results are serialized JSON so a text column is portable
	// across sqlite and postgres
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS idempotency_keys(
	route varchar(255) NOT NULL,
	idem_key varchar(255) NOT NULL,
	fingerprint varchar(64) NOT NULL,
	state varchar(10) NOT NULL,
	result text NOT NULL,
	created_at bigint NOT NULL,
	PRIMARY KEY(route, idem_key)
);
`)
	return errors.Wrap(err, "Failed to setup idempotency registry")
}

func (r *sqlRegistry) LookupOrReserve(ctx context.Context, route string, key string, fingerprint string) (*Outcome, error) {
	for attempt := 0; ; attempt++ {
		res, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys(route, idem_key, fingerprint, state, result, created_at)
		VALUES($1, $2, $3, $4, '', $5)
		ON CONFLICT(route, idem_key) DO NOTHING`,
			route, key, fingerprint, stateReserved, r.now().UnixNano())
		if err != nil {
			return nil, errors.Wrap(err, "Failed to reserve idempotency key")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to get affected rows")
		}
		if affected == 1 {
			return &Outcome{Existing: false}, nil
		}

		row := r.db.QueryRowContext(ctx, `
		SELECT fingerprint, state, result
		FROM idempotency_keys WHERE route = $1 AND idem_key = $2`, route, key)
		var storedFingerprint, state, result string
		if err := row.Scan(&storedFingerprint, &state, &result); err != nil {
			if err == sql.ErrNoRows {
				// Released by a concurrent caller, next round re-reserves
				continue
			}
			return nil, errors.Wrap(err, "Failed to query idempotency key")
		}
		if storedFingerprint != fingerprint {
			return nil, ErrFingerprintMismatch
		}
		if state == stateCompleted {
			return &Outcome{Existing: true, Result: []byte(result)}, nil
		}
		if attempt+1 >= r.pollAttempts {
			return nil, ErrInProgress
		}
		select {
		case <-time.After(r.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *sqlRegistry) Commit(ctx context.Context, route string, key string, result []byte) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE idempotency_keys SET state = $1, result = $2
	WHERE route = $3 AND idem_key = $4 AND state = $5`,
		stateCompleted, string(result), route, key, stateReserved)
	if err != nil {
		return errors.Wrap(err, "Failed to commit idempotency key")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "Failed to get affected rows")
	}
	if affected == 0 {
		return errors.Errorf("No reservation found for key: %v", key)
	}
	return nil
}

func (r *sqlRegistry) Release(ctx context.Context, route string, key string) error {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM idempotency_keys
	WHERE route = $1 AND idem_key = $2 AND state = $3`,
		route, key, stateReserved)
	if err != nil {
		return errors.Wrap(err, "Failed to release idempotency key")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "Failed to get affected rows")
	}
	if affected == 1 {
		return nil
	}
	row := r.db.QueryRowContext(ctx, `
	SELECT state FROM idempotency_keys WHERE route = $1 AND idem_key = $2`, route, key)
	var state string
	if err := row.Scan(&state); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "Failed to query idempotency key")
	}
	if state == stateCompleted {
		return errors.Errorf("Reservation already committed for key: %v", key)
	}
	return nil
}

// NewSQLRegistry returns a sql backed registry. Reservation atomicity
// relies on the insert conflict target so it needs sqlite 3.24+ or postgres
func NewSQLRegistry(opts ...RegistryOpt) (Registry, error) {
	cfg := newRegistryCfg(opts)
	if cfg.db == nil {
		return nil, errors.New("No db instance provided")
	}
	return &sqlRegistry{
		db:           cfg.db,
		now:          cfg.now,
		pollInterval: cfg.pollInterval,
		pollAttempts: cfg.pollAttempts,
	}, nil
}
