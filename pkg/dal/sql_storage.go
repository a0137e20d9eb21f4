package dal

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/pkg/errors"

	// Default sql driver
	_ "github.com/mattn/go-sqlite3"
)

type sqlStorage struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func (s *sqlStorage) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup SQL storage")
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS accounts(
	id varchar(36) NOT NULL PRIMARY KEY,
	owner_name varchar(255) NOT NULL,
	balance bigint NOT NULL,
	created_at bigint NOT NULL
);
CREATE TABLE IF NOT EXISTS entries(
	id varchar(36) NOT NULL PRIMARY KEY,
	account_id varchar(36) NOT NULL,
	amount bigint NOT NULL,
	entry_type varchar(10) NOT NULL,
	ref varchar(255) NOT NULL,
	transfer_id varchar(36),
	ts bigint NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_account_id_ts ON entries(account_id, ts DESC, id DESC);
`)
	return errors.Wrap(err, "Failed to setup storage")
}

func (s *sqlStorage) CreateAccount(ctx context.Context, ownerName string) (*AccountDTO, error) {
	if ownerName == "" {
		return nil, ErrOwnerNameRequired
	}
	account := &AccountDTO{
		ID:        s.newID(),
		OwnerName: ownerName,
		Balance:   0,
		CreatedAt: s.now().UnixNano(),
	}
	if _, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts(id, owner_name, balance, created_at)
	VALUES($1, $2, $3, $4)`,
		account.ID, account.OwnerName, account.Balance, account.CreatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "Failed to insert account")
	}
	return account, nil
}

func (s *sqlStorage) GetAccount(ctx context.Context, accountID string) (*AccountDTO, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, owner_name, balance, created_at
	FROM accounts WHERE id = $1`, accountID)
	result := &AccountDTO{}
	if err := row.Scan(
		&result.ID,
		&result.OwnerName,
		&result.Balance,
		&result.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "Failed to query account")
	}
	return result, nil
}

func (s *sqlStorage) ApplyEntries(ctx context.Context, inputs []EntryInput) (*ApplyResult, error) {
	if len(inputs) == 0 {
		return nil, errors.New("No entries to apply")
	}
	deltas := map[string]int64{}
	for _, input := range inputs {
		delta, err := entryDelta(input)
		if err != nil {
			return nil, err
		}
		deltas[input.AccountID] += delta
	}
	accountIDs := make([]string, 0, len(deltas))
	for accountID := range deltas {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to begin transaction")
	}
	result, err := s.applyEntriesTx(ctx, tx, inputs, deltas, accountIDs)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "Failed to commit transaction")
	}
	return result, nil
}

func (s *sqlStorage) applyEntriesTx(
	ctx context.Context, tx *sql.Tx,
	inputs []EntryInput, deltas map[string]int64, accountIDs []string,
) (*ApplyResult, error) {
	// Rows are updated in ascending account id order so concurrent
	// multi-account batches can not deadlock
	for _, accountID := range accountIDs {
		delta := deltas[accountID]
		res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $1
		WHERE id = $2 AND balance + $1 >= 0`, delta, accountID)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to update account %v balance", accountID)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to get affected rows")
		}
		if affected == 0 {
			var total int
			row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE id = $1`, accountID)
			if err := row.Scan(&total); err != nil {
				return nil, errors.Wrap(err, "Failed to probe account")
			}
			if total == 0 {
				return nil, ErrAccountNotFound
			}
			return nil, ErrInsufficientFunds
		}
	}

	result := &ApplyResult{
		Entries:  make([]EntryDTO, 0, len(inputs)),
		Accounts: map[string]AccountDTO{},
	}
	ts := s.now().UnixNano()
	for _, input := range inputs {
		entry := EntryDTO{
			ID:         s.newID(),
			AccountID:  input.AccountID,
			Amount:     input.Amount,
			Type:       input.Type,
			Ref:        input.Ref,
			TransferID: input.TransferID,
			Ts:         ts,
		}
		var transferID interface{}
		if entry.TransferID != "" {
			transferID = entry.TransferID
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO entries(id, account_id, amount, entry_type, ref, transfer_id, ts)
		VALUES($1, $2, $3, $4, $5, $6, $7)`,
			entry.ID, entry.AccountID, entry.Amount, entry.Type, entry.Ref, transferID, entry.Ts,
		); err != nil {
			return nil, errors.Wrap(err, "Failed to insert entry")
		}
		result.Entries = append(result.Entries, entry)
	}
	for _, accountID := range accountIDs {
		row := tx.QueryRowContext(ctx, `
		SELECT id, owner_name, balance, created_at
		FROM accounts WHERE id = $1`, accountID)
		var account AccountDTO
		if err := row.Scan(
			&account.ID,
			&account.OwnerName,
			&account.Balance,
			&account.CreatedAt,
		); err != nil {
			return nil, errors.Wrapf(err, "Failed to read account %v", accountID)
		}
		result.Accounts[account.ID] = account
	}
	return result, nil
}

func (s *sqlStorage) ListEntries(ctx context.Context, query ListEntriesQuery) ([]EntryDTO, error) {
	if query.Limit < 1 {
		return nil, errors.Errorf("Invalid limit: %v", query.Limit)
	}
	sqlQuery := `
	SELECT id, account_id, amount, entry_type, ref, transfer_id, ts
	FROM entries
	WHERE account_id = $1
	ORDER BY ts DESC, id DESC
	LIMIT $2`
	args := []interface{}{query.AccountID, query.Limit}
	if query.BeforeID != "" {
		sqlQuery = `
	SELECT id, account_id, amount, entry_type, ref, transfer_id, ts
	FROM entries
	WHERE account_id = $1 AND (ts < $2 OR (ts = $2 AND id < $3))
	ORDER BY ts DESC, id DESC
	LIMIT $4`
		args = []interface{}{query.AccountID, query.BeforeTs, query.BeforeID, query.Limit}
	}
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query entries")
	}
	defer rows.Close()

	entries := []EntryDTO{}
	for rows.Next() {
		var entry EntryDTO
		var transferID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&entry.Type,
			&entry.Ref,
			&transferID,
			&entry.Ts,
		); err != nil {
			return nil, errors.Wrap(err, "Failed to scan entry")
		}
		entry.TransferID = transferID.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// NewSQLStorage returns a sql backed storage
func NewSQLStorage(opts ...StorageOpt) (Storage, error) {
	cfg := newStorageCfg(opts)
	if cfg.db == nil {
		return nil, errors.New("No db instance provided")
	}
	return &sqlStorage{db: cfg.db, now: cfg.now, newID: cfg.newID}, nil
}
