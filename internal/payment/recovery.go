package payment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// recoveryKey is the single stable slot name for in-flight payment metadata.
const recoveryKey = "irac:payment:recovery"

// RecoveryRecord is the only payment data persisted outside a single
// call/response cycle: just enough to resume or inspect an interrupted
// redirect flow. No TTL is enforced here; callers judge staleness from
// Timestamp.
type RecoveryRecord struct {
	PaymentURL  string      `json:"payment_url"`
	GatewayType GatewayType `json:"gateway_type"`
	Timestamp   time.Time   `json:"timestamp"`
}

// RecoveryStore is a single-slot store for the most recent in-flight payment.
// Store overwrites any prior record; concurrent multi-tab attempts are not
// distinguished, which is a known limitation of the single-slot contract.
type RecoveryStore interface {
	Store(ctx context.Context, rec RecoveryRecord) error
	Load(ctx context.Context) (*RecoveryRecord, error)
	Clear(ctx context.Context) error
}

type redisRecoveryStore struct {
	client *redis.Client
}

func (s *redisRecoveryStore) Store(ctx context.Context, rec RecoveryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, recoveryKey, data, 0).Err()
}

func (s *redisRecoveryStore) Load(ctx context.Context) (*RecoveryRecord, error) {
	data, err := s.client.Get(ctx, recoveryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec RecoveryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *redisRecoveryStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, recoveryKey).Err()
}

type memoryRecoveryStore struct {
	mu  sync.Mutex
	rec *RecoveryRecord
}

// NewMemoryRecoveryStore creates an in-process single-slot store.
func NewMemoryRecoveryStore() RecoveryStore {
	return &memoryRecoveryStore{}
}

func (s *memoryRecoveryStore) Store(_ context.Context, rec RecoveryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *memoryRecoveryStore) Load(_ context.Context) (*RecoveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, nil
	}
	rec := *s.rec
	return &rec, nil
}

func (s *memoryRecoveryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

// NewRecoveryStore builds a Redis-backed store and falls back to in-memory
// when Redis is unreachable or not configured. The error reports why the
// fallback was taken; the returned store is always usable.
func NewRecoveryStore(addr, pass string, db int) (RecoveryStore, error) {
	if addr == "" {
		return NewMemoryRecoveryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryRecoveryStore(), err
	}

	return &redisRecoveryStore{client: client}, nil
}
