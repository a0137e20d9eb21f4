package ledger

import (
	"context"
	"encoding/json"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/dal"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/idempotency"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var logger = diag.CreateLogger()

// Routes scope idempotency keys so the same key can be
// used independently for different operations
const (
	routeDeposit  = "deposit"
	routeWithdraw = "withdraw"
	routeTransfer = "transfer"
)

// Service is a transactional ledger engine. Balances are maintained
// in integer minor units and every mutation is recorded as an
// append-only entry
type Service interface {
	// CreateAccount registers a new account with a zero balance
	CreateAccount(ctx context.Context, ownerName string) (*Account, error)

	// GetAccount returns a current account snapshot
	GetAccount(ctx context.Context, accountID string) (*Account, error)

	// Deposit credits an account and returns its updated snapshot.
	// Retries with the same idempotency key return the stored result
	Deposit(ctx context.Context, cmd *MoneyMovement) (*Account, error)

	// Withdraw debits an account and returns its updated snapshot.
	// Fails with KindInsufficientFunds if the balance would go negative
	Withdraw(ctx context.Context, cmd *MoneyMovement) (*Account, error)

	// Transfer atomically debits the source account and credits the
	// dest account with a pair of entries sharing a transfer id
	Transfer(ctx context.Context, cmd *TransferRequest) (*TransferResult, error)
}

type serviceCfg struct {
	storage  dal.Storage
	registry idempotency.Registry
	newID    func() string
}

// ServiceOpt is an option of a ledger service
type ServiceOpt func(cfg *serviceCfg)

// WithStorage option sets the entries storage
func WithStorage(storage dal.Storage) ServiceOpt {
	return func(cfg *serviceCfg) {
		cfg.storage = storage
	}
}

// WithRegistry option sets the idempotency registry
func WithRegistry(registry idempotency.Registry) ServiceOpt {
	return func(cfg *serviceCfg) {
		cfg.registry = registry
	}
}

// WithNewID option sets the transfer id source, defaults to uuid
func WithNewID(newID func() string) ServiceOpt {
	return func(cfg *serviceCfg) {
		cfg.newID = newID
	}
}

type service struct {
	storage  dal.Storage
	registry idempotency.Registry
	newID    func() string
}

// NewService returns an instance of a ledger service
func NewService(opts ...ServiceOpt) Service {
	cfg := serviceCfg{
		newID: func() string { return uuid.NewV4().String() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &service{
		storage:  cfg.storage,
		registry: cfg.registry,
		newID:    cfg.newID,
	}
}

// Signatures pin the fields that identify a request. A retried key
// with a different signature is a conflict, not a replay

type movementSignature struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Memo      string `json:"memo"`
}

type transferSignature struct {
	SourceAccountID string `json:"source_account_id"`
	DestAccountID   string `json:"dest_account_id"`
	Amount          int64  `json:"amount"`
	Memo            string `json:"memo"`
}

func (s *service) CreateAccount(ctx context.Context, ownerName string) (*Account, error) {
	if ownerName == "" {
		return nil, NewError(KindInvalidInput, "Owner name can not be empty")
	}
	dto, err := s.storage.CreateAccount(ctx, ownerName)
	if err != nil {
		return nil, s.mapStorageError(ctx, err)
	}
	logger.Info(ctx, "Created account %v (owner=%v)", dto.ID, dto.OwnerName)
	return AccountFromDTO(dto), nil
}

func (s *service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	if accountID == "" {
		return nil, NewError(KindInvalidInput, "Account id can not be empty")
	}
	dto, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return nil, s.mapStorageError(ctx, err)
	}
	return AccountFromDTO(dto), nil
}

func (s *service) Deposit(ctx context.Context, cmd *MoneyMovement) (*Account, error) {
	return s.applyMovement(ctx, routeDeposit, dal.EntryTypeCredit, cmd)
}

func (s *service) Withdraw(ctx context.Context, cmd *MoneyMovement) (*Account, error) {
	return s.applyMovement(ctx, routeWithdraw, dal.EntryTypeDebit, cmd)
}

func (s *service) applyMovement(ctx context.Context, route string, entryType string, cmd *MoneyMovement) (*Account, error) {
	if err := validateMovement(cmd); err != nil {
		return nil, err
	}
	signature, err := json.Marshal(movementSignature{
		AccountID: cmd.AccountID,
		Amount:    cmd.Amount,
		Memo:      cmd.Memo,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to marshal request signature")
	}
	resultBytes, err := s.executeOnce(ctx, route, cmd.IdempotencyKey, signature, func() (interface{}, error) {
		result, err := s.storage.ApplyEntries(ctx, []dal.EntryInput{
			{AccountID: cmd.AccountID, Amount: cmd.Amount, Type: entryType, Ref: cmd.Memo},
		})
		if err != nil {
			return nil, s.mapStorageError(ctx, err)
		}
		snapshot := result.Accounts[cmd.AccountID]
		return AccountFromDTO(&snapshot), nil
	})
	if err != nil {
		return nil, err
	}
	account := Account{}
	if err := json.Unmarshal(resultBytes, &account); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal stored result")
	}
	return &account, nil
}

func (s *service) Transfer(ctx context.Context, cmd *TransferRequest) (*TransferResult, error) {
	if err := validateTransfer(cmd); err != nil {
		return nil, err
	}
	signature, err := json.Marshal(transferSignature{
		SourceAccountID: cmd.SourceAccountID,
		DestAccountID:   cmd.DestAccountID,
		Amount:          cmd.Amount,
		Memo:            cmd.Memo,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to marshal request signature")
	}
	resultBytes, err := s.executeOnce(ctx, routeTransfer, cmd.IdempotencyKey, signature, func() (interface{}, error) {
		transferID := s.newID()
		result, err := s.storage.ApplyEntries(ctx, []dal.EntryInput{
			{AccountID: cmd.SourceAccountID, Amount: cmd.Amount, Type: dal.EntryTypeDebit, Ref: cmd.Memo, TransferID: transferID},
			{AccountID: cmd.DestAccountID, Amount: cmd.Amount, Type: dal.EntryTypeCredit, Ref: cmd.Memo, TransferID: transferID},
		})
		if err != nil {
			return nil, s.mapStorageError(ctx, err)
		}
		source := result.Accounts[cmd.SourceAccountID]
		dest := result.Accounts[cmd.DestAccountID]
		return &TransferResult{
			Source: AccountFromDTO(&source),
			Dest:   AccountFromDTO(&dest),
			Debit:  EntryFromDTO(&result.Entries[0]),
			Credit: EntryFromDTO(&result.Entries[1]),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	transferResult := TransferResult{}
	if err := json.Unmarshal(resultBytes, &transferResult); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal stored result")
	}
	return &transferResult, nil
}

// executeOnce runs an operation at most once per route and key.
// The result is returned serialized so replays and fresh executions
// produce byte identical payloads
func (s *service) executeOnce(
	ctx context.Context,
	route string, key string,
	signature []byte,
	execute func() (interface{}, error),
) ([]byte, error) {
	fingerprint := idempotency.Fingerprint(signature)
	outcome, err := s.registry.LookupOrReserve(ctx, route, key, fingerprint)
	if err != nil {
		return nil, s.mapRegistryError(ctx, err)
	}
	if outcome.Existing {
		logger.Info(ctx, "Returning stored result (route=%v, key=%v)", route, key)
		return outcome.Result, nil
	}

	result, err := execute()
	if err != nil {
		s.release(ctx, route, key)
		return nil, err
	}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		s.release(ctx, route, key)
		return nil, errors.Wrap(err, "Failed to marshal operation result")
	}
	if err := s.registry.Commit(ctx, route, key, resultBytes); err != nil {
		// The mutation is already applied at this point. Losing the
		// stored result only affects replays of this particular key
		// so the computed result is still returned
		logger.WithError(err).Error(ctx, "Failed to commit result (route=%v, key=%v)", route, key)
	}
	return resultBytes, nil
}

func (s *service) release(ctx context.Context, route string, key string) {
	if err := s.registry.Release(ctx, route, key); err != nil {
		logger.WithError(err).Error(ctx, "Failed to release reservation (route=%v, key=%v)", route, key)
	}
}

func (s *service) mapStorageError(ctx context.Context, err error) error {
	switch errors.Cause(err) {
	case dal.ErrAccountNotFound:
		return NewError(KindNotFound, "Account not found")
	case dal.ErrInsufficientFunds:
		return NewError(KindInsufficientFunds, "Insufficient funds")
	case dal.ErrOwnerNameRequired:
		return NewError(KindInvalidInput, "Owner name can not be empty")
	default:
		logger.WithError(err).Error(ctx, "Storage operation failed")
		return NewError(KindUnavailable, "Storage unavailable")
	}
}

func (s *service) mapRegistryError(ctx context.Context, err error) error {
	switch errors.Cause(err) {
	case idempotency.ErrFingerprintMismatch:
		return NewError(KindIdempotencyConflict, "Idempotency key is already used with a different request")
	case idempotency.ErrInProgress:
		return NewError(KindUnavailable, "Operation is in progress, retry later")
	default:
		logger.WithError(err).Error(ctx, "Idempotency registry failed")
		return NewError(KindUnavailable, "Idempotency registry unavailable")
	}
}

func validateMovement(cmd *MoneyMovement) error {
	if cmd.IdempotencyKey == "" {
		return NewError(KindInvalidInput, "Idempotency key can not be empty")
	}
	if cmd.AccountID == "" {
		return NewError(KindInvalidInput, "Account id can not be empty")
	}
	if cmd.Amount < 1 {
		return NewError(KindInvalidInput, "Amount must be a positive number of minor units")
	}
	return nil
}

func validateTransfer(cmd *TransferRequest) error {
	if cmd.IdempotencyKey == "" {
		return NewError(KindInvalidInput, "Idempotency key can not be empty")
	}
	if cmd.SourceAccountID == "" || cmd.DestAccountID == "" {
		return NewError(KindInvalidInput, "Source and dest account ids can not be empty")
	}
	if cmd.Amount < 1 {
		return NewError(KindInvalidInput, "Amount must be a positive number of minor units")
	}
	if cmd.SourceAccountID == cmd.DestAccountID {
		return NewError(KindSelfTransferNotAllowed, "Source and dest accounts must differ")
	}
	return nil
}
