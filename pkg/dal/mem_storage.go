package dal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type memAccount struct {
	mu      sync.Mutex
	dto     AccountDTO
	entries []EntryDTO
}

type memStorage struct {
	mu       sync.RWMutex
	accounts map[string]*memAccount
	now      func() time.Time
	newID    func() string
}

func (s *memStorage) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup memory storage")
	return nil
}

func (s *memStorage) CreateAccount(ctx context.Context, ownerName string) (*AccountDTO, error) {
	if ownerName == "" {
		return nil, ErrOwnerNameRequired
	}
	dto := AccountDTO{
		ID:        s.newID(),
		OwnerName: ownerName,
		Balance:   0,
		CreatedAt: s.now().UnixNano(),
	}
	s.mu.Lock()
	s.accounts[dto.ID] = &memAccount{dto: dto}
	s.mu.Unlock()
	return &dto, nil
}

func (s *memStorage) GetAccount(ctx context.Context, accountID string) (*AccountDTO, error) {
	s.mu.RLock()
	account, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}
	account.mu.Lock()
	dto := account.dto
	account.mu.Unlock()
	return &dto, nil
}

func (s *memStorage) ApplyEntries(ctx context.Context, inputs []EntryInput) (*ApplyResult, error) {
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

	s.mu.RLock()
	accounts := make(map[string]*memAccount, len(accountIDs))
	for _, accountID := range accountIDs {
		account, ok := s.accounts[accountID]
		if !ok {
			s.mu.RUnlock()
			return nil, ErrAccountNotFound
		}
		accounts[accountID] = account
	}
	s.mu.RUnlock()

	// Account locks are taken in ascending id order so opposite
	// direction transfers can not deadlock
	for _, accountID := range accountIDs {
		accounts[accountID].mu.Lock()
	}
	defer func() {
		for _, accountID := range accountIDs {
			accounts[accountID].mu.Unlock()
		}
	}()

	// All balances are checked before anything is mutated so a failed
	// batch leaves no partial effect
	for _, accountID := range accountIDs {
		if accounts[accountID].dto.Balance+deltas[accountID] < 0 {
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
		account := accounts[entry.AccountID]
		account.entries = append(account.entries, entry)
		result.Entries = append(result.Entries, entry)
	}
	for _, accountID := range accountIDs {
		account := accounts[accountID]
		account.dto.Balance += deltas[accountID]
		result.Accounts[accountID] = account.dto
	}
	return result, nil
}

func (s *memStorage) ListEntries(ctx context.Context, query ListEntriesQuery) ([]EntryDTO, error) {
	if query.Limit < 1 {
		return nil, errors.Errorf("Invalid limit: %v", query.Limit)
	}
	s.mu.RLock()
	account, ok := s.accounts[query.AccountID]
	s.mu.RUnlock()
	if !ok {
		return []EntryDTO{}, nil
	}
	account.mu.Lock()
	entries := make([]EntryDTO, len(account.entries))
	copy(entries, account.entries)
	account.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ts != entries[j].Ts {
			return entries[i].Ts > entries[j].Ts
		}
		return entries[i].ID > entries[j].ID
	})

	result := []EntryDTO{}
	for _, entry := range entries {
		if query.BeforeID != "" && !beforeBoundary(entry, query.BeforeTs, query.BeforeID) {
			continue
		}
		result = append(result, entry)
		if len(result) == query.Limit {
			break
		}
	}
	return result, nil
}

func beforeBoundary(entry EntryDTO, ts int64, id string) bool {
	if entry.Ts != ts {
		return entry.Ts < ts
	}
	return entry.ID < id
}

// NewMemStorage returns a memory backed storage
func NewMemStorage(opts ...StorageOpt) Storage {
	cfg := newStorageCfg(opts)
	return &memStorage{
		accounts: map[string]*memAccount{},
		now:      cfg.now,
		newID:    cfg.newID,
	}
}
