// Package client is a typed HTTP client of the accounts service API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/request"
	"github.com/pkg/errors"
)

const idempotencyKeyHeader = "Idempotency-Key"

// API is an interface to communicate with the accounts service
type API interface {
	CreateAccount(ctx context.Context, ownerName string) (*ledger.Account, error)
	GetAccount(ctx context.Context, accountID string) (*ledger.Account, error)
	Deposit(ctx context.Context, cmd *ledger.MoneyMovement) (*ledger.Account, error)
	Withdraw(ctx context.Context, cmd *ledger.MoneyMovement) (*ledger.Account, error)
	Transfer(ctx context.Context, cmd *ledger.TransferRequest) (*ledger.TransferResult, error)
	GetStatement(ctx context.Context, accountID string, limit int, cursor string) (*ledger.Statement, error)
}

type api struct {
	baseURL string
}

type createAccountPayload struct {
	OwnerName string `json:"owner_name"`
}

type movementPayload struct {
	Amount int64  `json:"amount"`
	Memo   string `json:"memo,omitempty"`
}

type transferPayload struct {
	SourceAccountID string `json:"source_account_id"`
	DestAccountID   string `json:"dest_account_id"`
	Amount          int64  `json:"amount"`
	Memo            string `json:"memo,omitempty"`
}

func (a *api) CreateAccount(ctx context.Context, ownerName string) (*ledger.Account, error) {
	payload, err := json.Marshal(createAccountPayload{OwnerName: ownerName})
	if err != nil {
		return nil, err
	}
	req := request.Post(a.baseURL+"/v1/accounts", "application/json", bytes.NewReader(payload))
	account := ledger.Account{}
	if err := request.Do(ctx, req).DecodeJSON(&account); err != nil {
		return nil, errors.Wrap(err, "Failed to create account")
	}
	return &account, nil
}

func (a *api) GetAccount(ctx context.Context, accountID string) (*ledger.Account, error) {
	req := request.Get(a.baseURL + "/v1/accounts/" + accountID)
	account := ledger.Account{}
	if err := request.Do(ctx, req).DecodeJSON(&account); err != nil {
		return nil, errors.Wrap(err, "Failed to get account")
	}
	return &account, nil
}

func (a *api) Deposit(ctx context.Context, cmd *ledger.MoneyMovement) (*ledger.Account, error) {
	return a.applyMovement(ctx, "deposit", cmd)
}

func (a *api) Withdraw(ctx context.Context, cmd *ledger.MoneyMovement) (*ledger.Account, error) {
	return a.applyMovement(ctx, "withdraw", cmd)
}

func (a *api) applyMovement(ctx context.Context, action string, cmd *ledger.MoneyMovement) (*ledger.Account, error) {
	payload, err := json.Marshal(movementPayload{Amount: cmd.Amount, Memo: cmd.Memo})
	if err != nil {
		return nil, err
	}
	req := request.Post(
		fmt.Sprintf("%v/v1/accounts/%v/%v", a.baseURL, cmd.AccountID, action),
		"application/json",
		bytes.NewReader(payload)).
		WithHeader(idempotencyKeyHeader, cmd.IdempotencyKey)
	account := ledger.Account{}
	if err := request.Do(ctx, req).DecodeJSON(&account); err != nil {
		return nil, errors.Wrapf(err, "Failed to %v", action)
	}
	return &account, nil
}

func (a *api) Transfer(ctx context.Context, cmd *ledger.TransferRequest) (*ledger.TransferResult, error) {
	payload, err := json.Marshal(transferPayload{
		SourceAccountID: cmd.SourceAccountID,
		DestAccountID:   cmd.DestAccountID,
		Amount:          cmd.Amount,
		Memo:            cmd.Memo,
	})
	if err != nil {
		return nil, err
	}
	req := request.Post(a.baseURL+"/v1/transfers", "application/json", bytes.NewReader(payload)).
		WithHeader(idempotencyKeyHeader, cmd.IdempotencyKey)
	result := ledger.TransferResult{}
	if err := request.Do(ctx, req).DecodeJSON(&result); err != nil {
		return nil, errors.Wrap(err, "Failed to transfer")
	}
	return &result, nil
}

func (a *api) GetStatement(ctx context.Context, accountID string, limit int, cursor string) (*ledger.Statement, error) {
	statementURL, err := url.Parse(fmt.Sprintf("%v/v1/accounts/%v/statement", a.baseURL, accountID))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse statement url")
	}
	query := statementURL.Query()
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	statementURL.RawQuery = query.Encode()
	req := request.Get(statementURL.String())
	page := ledger.Statement{}
	if err := request.Do(ctx, req).DecodeJSON(&page); err != nil {
		return nil, errors.Wrap(err, "Failed to get statement")
	}
	return &page, nil
}

// NewAPI returns an api instance bound to a given base url
func NewAPI(baseURL string) API {
	return &api{baseURL: baseURL}
}
