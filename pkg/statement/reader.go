// Package statement assembles paginated account statements from
// stored ledger entries
package statement

import (
	"context"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/dal"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
	"github.com/pkg/errors"
)

var logger = diag.CreateLogger()

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Query is a statement page request. A zero Limit selects the default
// page size. An empty Cursor starts from the newest entry
type Query struct {
	AccountID string
	Limit     int
	Cursor    string
}

// Reader returns pages of account entries ordered newest first
type Reader interface {
	GetStatement(ctx context.Context, query Query) (*ledger.Statement, error)
}

type readerCfg struct {
	storage dal.Storage
}

// ReaderOpt is an option of a statement reader
type ReaderOpt func(cfg *readerCfg)

// WithStorage option sets the entries storage
func WithStorage(storage dal.Storage) ReaderOpt {
	return func(cfg *readerCfg) {
		cfg.storage = storage
	}
}

type reader struct {
	storage dal.Storage
}

// NewReader returns an instance of a statement reader
func NewReader(opts ...ReaderOpt) Reader {
	cfg := readerCfg{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &reader{storage: cfg.storage}
}

func (r *reader) GetStatement(ctx context.Context, query Query) (*ledger.Statement, error) {
	if query.AccountID == "" {
		return nil, ledger.NewError(ledger.KindInvalidInput, "Account id can not be empty")
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		return nil, ledger.NewError(ledger.KindInvalidInput, "Limit must be between 1 and %v", maxLimit)
	}

	// One extra row decides if there is a next page
	listQuery := dal.ListEntriesQuery{AccountID: query.AccountID, Limit: limit + 1}
	if query.Cursor != "" {
		c, err := decodeCursor(query.Cursor)
		if err != nil {
			logger.WithError(err).Warn(ctx, "Rejecting malformed statement cursor")
			return nil, ledger.NewError(ledger.KindInvalidInput, "Invalid cursor")
		}
		listQuery.BeforeTs = c.Ts
		listQuery.BeforeID = c.ID
	}

	// The lookup makes a statement of a missing account a not found
	// failure rather than an empty page
	if _, err := r.storage.GetAccount(ctx, query.AccountID); err != nil {
		return nil, r.mapStorageError(ctx, err)
	}

	entries, err := r.storage.ListEntries(ctx, listQuery)
	if err != nil {
		return nil, r.mapStorageError(ctx, err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	items := make([]ledger.Entry, 0, len(entries))
	for i := range entries {
		items = append(items, *ledger.EntryFromDTO(&entries[i]))
	}
	result := &ledger.Statement{Items: items}
	if hasMore {
		last := entries[len(entries)-1]
		encoded, err := encodeCursor(cursor{Ts: last.Ts, ID: last.ID})
		if err != nil {
			return nil, errors.Wrap(err, "Failed to encode next cursor")
		}
		result.NextCursor = &encoded
	}
	return result, nil
}

func (r *reader) mapStorageError(ctx context.Context, err error) error {
	if errors.Cause(err) == dal.ErrAccountNotFound {
		return ledger.NewError(ledger.KindNotFound, "Account not found")
	}
	logger.WithError(err).Error(ctx, "Storage operation failed")
	return ledger.NewError(ledger.KindUnavailable, "Storage unavailable")
}
