package dal

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

// Entry types. CREDIT increases an account balance, DEBIT decreases it
const (
	EntryTypeDebit  = "DEBIT"
	EntryTypeCredit = "CREDIT"
)

var (
	// ErrAccountNotFound is returned if a referenced account does not exist
	ErrAccountNotFound = errors.New("Account not found")

	// ErrInsufficientFunds is returned if a debit would drive a balance below zero
	ErrInsufficientFunds = errors.New("Insufficient funds")

	// ErrOwnerNameRequired is returned on an attempt to create an account without an owner
	ErrOwnerNameRequired = errors.New("Owner name required")
)

// AccountDTO is a persisted account record.
// Timestamps are unix nanoseconds
type AccountDTO struct {
	ID        string
	OwnerName string
	Balance   int64
	CreatedAt int64
}

// EntryDTO is a persisted ledger entry record. Entries are append-only.
// TransferID is empty unless the entry belongs to a transfer pair
type EntryDTO struct {
	ID         string
	AccountID  string
	Amount     int64
	Type       string
	Ref        string
	TransferID string
	Ts         int64
}

// EntryInput describes a single entry to apply. Amount is a positive
// value in minor units, the direction is defined by Type
type EntryInput struct {
	AccountID  string
	Amount     int64
	Type       string
	Ref        string
	TransferID string
}

// ApplyResult holds appended entries with post apply snapshots
// of every touched account
type ApplyResult struct {
	Entries  []EntryDTO
	Accounts map[string]AccountDTO
}

// ListEntriesQuery is a filter for ListEntries. If BeforeID is set
// then only entries strictly older than the (BeforeTs, BeforeID)
// boundary are returned
type ListEntriesQuery struct {
	AccountID string
	Limit     int
	BeforeTs  int64
	BeforeID  string
}

// Storage is a persistence layer of the ledger. It is the sole
// owner of account balances and the entry log
type Storage interface {
	Setup(ctx context.Context) error
	CreateAccount(ctx context.Context, ownerName string) (*AccountDTO, error)
	GetAccount(ctx context.Context, accountID string) (*AccountDTO, error)

	// ApplyEntries mutates balances and appends entries as a single atomic
	// unit. Either all entries are applied or none
	ApplyEntries(ctx context.Context, inputs []EntryInput) (*ApplyResult, error)

	// ListEntries returns a page of account entries ordered by (ts desc, id desc)
	ListEntries(ctx context.Context, query ListEntriesQuery) ([]EntryDTO, error)
}

func entryDelta(input EntryInput) (int64, error) {
	if input.Amount < 1 {
		return 0, errors.Errorf("Invalid entry amount: %v", input.Amount)
	}
	switch input.Type {
	case EntryTypeCredit:
		return input.Amount, nil
	case EntryTypeDebit:
		return -input.Amount, nil
	default:
		return 0, errors.Errorf("Invalid entry type: %v", input.Type)
	}
}

type storageCfg struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// StorageOpt is an option of a storage
type StorageOpt func(cfg *storageCfg)

// WithSQLDb will set an explicit db instance for a storage
func WithSQLDb(db *sql.DB) StorageOpt {
	return func(cfg *storageCfg) {
		cfg.db = db
	}
}

// WithNow will set a custom time source. Used by tests
func WithNow(now func() time.Time) StorageOpt {
	return func(cfg *storageCfg) {
		cfg.now = now
	}
}

// WithNewID will set a custom id source. Used by tests
func WithNewID(newID func() string) StorageOpt {
	return func(cfg *storageCfg) {
		cfg.newID = newID
	}
}

func newStorageCfg(opts []StorageOpt) storageCfg {
	cfg := storageCfg{
		now:   time.Now,
		newID: func() string { return uuid.NewV4().String() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
