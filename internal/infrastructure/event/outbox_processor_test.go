package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryOutboxRepo is an in-memory OutboxRepository for processor tests
type memoryOutboxRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMemoryOutboxRepo() *memoryOutboxRepo {
	return &memoryOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *memoryOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *memoryOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id], nil
}

func (r *memoryOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *memoryOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && e.NextRetryAt.Before(before) {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *memoryOutboxRepo) FindDead(ctx context.Context, eventType string, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	return nil, 0, nil
}

func (r *memoryOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if e.Status == shared.OutboxStatusPending || e.Status == shared.OutboxStatusFailed {
			e.Status = shared.OutboxStatusProcessing
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (r *memoryOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *memoryOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *memoryOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, e := range r.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// recordingNotifier records deliveries and optionally fails them
type recordingNotifier struct {
	mu        sync.Mutex
	delivered []uuid.UUID
	failWith  error
}

func (n *recordingNotifier) Notify(ctx context.Context, entry *shared.OutboxEntry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.delivered = append(n.delivered, entry.EventID)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.delivered)
}

func pendingEntry() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "SupplyCaseCreated",
		AggregateID:   uuid.New(),
		AggregateType: "SupplyCase",
		Payload:       []byte(`{"protocol_number":"SF-2026-00042"}`),
		Status:        shared.OutboxStatusPending,
		MaxRetries:    shared.DefaultMaxRetries,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestOutboxProcessor_ProcessBatch(t *testing.T) {
	repo := newMemoryOutboxRepo()
	notifier := &recordingNotifier{}
	processor := NewOutboxProcessor(repo, notifier, DefaultOutboxProcessorConfig(), zap.NewNop())

	ctx := context.Background()
	entries := []*shared.OutboxEntry{pendingEntry(), pendingEntry(), pendingEntry()}
	require.NoError(t, repo.Save(ctx, entries...))

	processor.processBatch(ctx)

	assert.Equal(t, 3, notifier.count())
	for _, e := range entries {
		stored, _ := repo.FindByID(ctx, e.ID)
		assert.Equal(t, shared.OutboxStatusSent, stored.Status)
		assert.NotNil(t, stored.ProcessedAt)
	}
}

func TestOutboxProcessor_DeliveryFailureSchedulesRetry(t *testing.T) {
	repo := newMemoryOutboxRepo()
	notifier := &recordingNotifier{failWith: errors.New("endpoint unreachable")}
	processor := NewOutboxProcessor(repo, notifier, DefaultOutboxProcessorConfig(), zap.NewNop())

	ctx := context.Background()
	entry := pendingEntry()
	require.NoError(t, repo.Save(ctx, entry))

	processor.processBatch(ctx)

	stored, _ := repo.FindByID(ctx, entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Equal(t, "endpoint unreachable", stored.LastError)
	require.NotNil(t, stored.NextRetryAt)
}

func TestOutboxProcessor_ExhaustedRetriesGoDead(t *testing.T) {
	repo := newMemoryOutboxRepo()
	notifier := &recordingNotifier{failWith: errors.New("endpoint unreachable")}
	processor := NewOutboxProcessor(repo, notifier, DefaultOutboxProcessorConfig(), zap.NewNop())

	ctx := context.Background()
	entry := pendingEntry()
	entry.RetryCount = shared.DefaultMaxRetries - 1
	entry.Status = shared.OutboxStatusFailed
	past := time.Now().Add(-time.Minute)
	entry.NextRetryAt = &past
	require.NoError(t, repo.Save(ctx, entry))

	processor.processBatch(ctx)

	stored, _ := repo.FindByID(ctx, entry.ID)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	repo := newMemoryOutboxRepo()
	notifier := &recordingNotifier{}
	config := DefaultOutboxProcessorConfig()
	config.PollInterval = 10 * time.Millisecond
	processor := NewOutboxProcessor(repo, notifier, config, zap.NewNop())

	ctx := context.Background()
	entry := pendingEntry()
	require.NoError(t, repo.Save(ctx, entry))

	require.NoError(t, processor.Start(ctx))

	assert.Eventually(t, func() bool {
		return notifier.count() == 1
	}, time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}
