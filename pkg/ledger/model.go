package ledger

import (
	"time"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/dal"
)

// EntryType is a direction of a ledger entry
type EntryType string

// CREDIT increases an account balance, DEBIT decreases it
const (
	EntryTypeDebit  EntryType = dal.EntryTypeDebit
	EntryTypeCredit EntryType = dal.EntryTypeCredit
)

// Account is an account snapshot with a balance in minor units
type Account struct {
	ID        string    `json:"id"`
	OwnerName string    `json:"owner_name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry is a single immutable ledger record
type Entry struct {
	ID         string    `json:"id"`
	Ts         time.Time `json:"ts"`
	AccountID  string    `json:"account_id"`
	Amount     int64     `json:"amount"`
	Type       EntryType `json:"type"`
	Ref        string    `json:"ref,omitempty"`
	TransferID string    `json:"transfer_id,omitempty"`
}

// Statement is a page of account entries ordered newest first
type Statement struct {
	Items      []Entry `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

// TransferResult holds both sides of a completed transfer
type TransferResult struct {
	Source *Account `json:"source"`
	Dest   *Account `json:"dest"`
	Debit  *Entry   `json:"debit"`
	Credit *Entry   `json:"credit"`
}

// MoneyMovement is a deposit or a withdrawal command
type MoneyMovement struct {
	AccountID      string
	Amount         int64
	Memo           string
	IdempotencyKey string
}

// TransferRequest is a command to move funds between two accounts
type TransferRequest struct {
	SourceAccountID string
	DestAccountID   string
	Amount          int64
	Memo            string
	IdempotencyKey  string
}

// AccountFromDTO converts a storage account record to a model
func AccountFromDTO(dto *dal.AccountDTO) *Account {
	return &Account{
		ID:        dto.ID,
		OwnerName: dto.OwnerName,
		Balance:   dto.Balance,
		CreatedAt: time.Unix(0, dto.CreatedAt).UTC(),
	}
}

// EntryFromDTO converts a storage entry record to a model
func EntryFromDTO(dto *dal.EntryDTO) *Entry {
	return &Entry{
		ID:         dto.ID,
		Ts:         time.Unix(0, dto.Ts).UTC(),
		AccountID:  dto.AccountID,
		Amount:     dto.Amount,
		Type:       EntryType(dto.Type),
		Ref:        dto.Ref,
		TransferID: dto.TransferID,
	}
}
