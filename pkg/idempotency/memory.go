package idempotency

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type memoryRecord struct {
	fingerprint string
	result      []byte
	completed   bool

	// Closed once the reservation settles, either committed or released
	done chan struct{}
}

type memoryRegistry struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

func (r *memoryRegistry) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup memory idempotency registry")
	return nil
}

func recordKey(route string, key string) string {
	return route + ":" + key
}

func (r *memoryRegistry) LookupOrReserve(ctx context.Context, route string, key string, fingerprint string) (*Outcome, error) {
	for {
		r.mu.Lock()
		record, ok := r.records[recordKey(route, key)]
		if !ok {
			record = &memoryRecord{fingerprint: fingerprint, done: make(chan struct{})}
			r.records[recordKey(route, key)] = record
			r.mu.Unlock()
			return &Outcome{Existing: false}, nil
		}
		if record.fingerprint != fingerprint {
			r.mu.Unlock()
			return nil, ErrFingerprintMismatch
		}
		if record.completed {
			result := make([]byte, len(record.result))
			copy(result, record.result)
			r.mu.Unlock()
			return &Outcome{Existing: true, Result: result}, nil
		}
		done := record.done
		r.mu.Unlock()

		// A concurrent caller holds the reservation, wait for it to settle
		// and re-evaluate
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *memoryRegistry) Commit(ctx context.Context, route string, key string, result []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordKey(route, key)]
	if !ok {
		return errors.Errorf("No reservation found for key: %v", key)
	}
	if record.completed {
		return errors.Errorf("Reservation already committed for key: %v", key)
	}
	record.result = make([]byte, len(result))
	copy(record.result, result)
	record.completed = true
	close(record.done)
	return nil
}

func (r *memoryRegistry) Release(ctx context.Context, route string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordKey(route, key)]
	if !ok {
		return nil
	}
	if record.completed {
		return errors.Errorf("Reservation already committed for key: %v", key)
	}
	delete(r.records, recordKey(route, key))
	close(record.done)
	return nil
}

// NewMemoryRegistry returns a memory backed registry
func NewMemoryRegistry() Registry {
	return &memoryRegistry{records: map[string]*memoryRecord{}}
}
