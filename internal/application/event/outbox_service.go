package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// workflowEventTypes enumerates the event kinds the supply workflow emits,
// keyed by the names the suprimento event constructors use. Admin filters
// resolve against this set so a mistyped kind fails fast instead of silently
// matching nothing.
var workflowEventTypes = map[string]struct{}{
	"SupplyCaseCreated":          {},
	"SupplyCaseAttested":         {},
	"CaseCustodyTransferred":     {},
	"SupplyCaseFundsReleased":    {},
	"SupplyCaseArchived":         {},
	"ExecutionDocumentGenerated": {},
	"ExecutionDocumentSigned":    {},
	"BudgetCommitted":            {},
}

// OutboxService is the administrative view of the event outbox: the
// dead-letter queue of workflow notifications that exhausted their retries,
// and the controls to put them back in flight.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(
	repo shared.OutboxRepository,
	logger *zap.Logger,
) *OutboxService {
	return &OutboxService{
		repo:   repo,
		logger: logger,
	}
}

// OutboxEntryDTO is the admin-facing projection of a stalled workflow event.
// Payload carries the serialized event body so an operator can see what the
// notification collaborator would have received.
type OutboxEntryDTO struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	RetryCount    int             `json:"retry_count"`
	MaxRetries    int             `json:"max_retries"`
	LastError     string          `json:"last_error,omitempty"`
	NextRetryAt   *time.Time      `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OutboxFilter narrows the dead-letter listing to one workflow event kind
type OutboxFilter struct {
	EventType string `form:"event_type,omitempty"`
	Page      int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// OutboxListResult represents paginated outbox entry list result
type OutboxListResult struct {
	Entries    []OutboxEntryDTO `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// OutboxStatsDTO counts entries per delivery status. Backlog is everything
// still owed to the notification collaborator: pending, in flight and
// awaiting retry.
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Backlog    int64 `json:"backlog"`
	Total      int64 `json:"total"`
}

func validateEventType(eventType string) error {
	if eventType == "" {
		return nil
	}
	if _, known := workflowEventTypes[eventType]; !known {
		return shared.ErrInvalidInput.WithDetails(fmt.Sprintf("unknown event type %q", eventType))
	}
	return nil
}

// GetDeadLetterEntries retrieves dead letter entries with pagination,
// optionally restricted to a single workflow event kind
func (s *OutboxService) GetDeadLetterEntries(ctx context.Context, filter OutboxFilter) (*OutboxListResult, error) {
	if err := validateEventType(filter.EventType); err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	entries, total, err := s.repo.FindDead(ctx, filter.EventType, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to find dead letter entries", zap.Error(err))
		return nil, shared.ErrStorageUnavailable
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	entryDTOs := make([]OutboxEntryDTO, len(entries))
	for i, entry := range entries {
		entryDTOs[i] = toOutboxEntryDTO(entry)
	}

	return &OutboxListResult{
		Entries:    entryDTOs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetEntry retrieves a single outbox entry by ID
func (s *OutboxService) GetEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, shared.ErrStorageUnavailable
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Outbox entry not found")
	}

	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryDeadEntry resets a dead letter entry for another delivery attempt
func (s *OutboxService) RetryDeadEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, shared.ErrStorageUnavailable
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Outbox entry not found")
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition, err.Error())
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, shared.ErrStorageUnavailable
	}

	s.logger.Info("Dead letter entry reset for retry",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_id", entry.AggregateID.String()),
	)

	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAllDeadEntries resets dead letter entries for retry, optionally only
// those of one workflow event kind. Each reset entry leaves the dead set, so
// the loop always re-reads the first page until nothing movable remains.
func (s *OutboxService) RetryAllDeadEntries(ctx context.Context, eventType string) (int64, error) {
	if err := validateEventType(eventType); err != nil {
		return 0, err
	}

	var count int64
	const batchSize = 100

	for {
		entries, _, err := s.repo.FindDead(ctx, eventType, 1, batchSize)
		if err != nil {
			s.logger.Error("Failed to find dead letter entries", zap.Error(err))
			return count, shared.ErrStorageUnavailable
		}
		if len(entries) == 0 {
			break
		}

		var reset int64
		for _, entry := range entries {
			if err := entry.ResetForRetry(); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", entry.ID.String()))
				continue
			}
			reset++
		}
		count += reset

		// Only stuck entries remain; retrying the same page would spin.
		if reset == 0 {
			break
		}
	}

	s.logger.Info("Retried dead letter entries",
		zap.Int64("count", count),
		zap.String("event_type", eventType),
	)

	return count, nil
}

// GetStats returns outbox statistics
func (s *OutboxService) GetStats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to get outbox stats", zap.Error(err))
		return nil, shared.ErrStorageUnavailable
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	pending := counts[shared.OutboxStatusPending]
	processing := counts[shared.OutboxStatusProcessing]
	failed := counts[shared.OutboxStatusFailed]

	return &OutboxStatsDTO{
		Pending:    pending,
		Processing: processing,
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     failed,
		Dead:       counts[shared.OutboxStatusDead],
		Backlog:    pending + processing + failed,
		Total:      total,
	}, nil
}

// toOutboxEntryDTO converts domain OutboxEntry to OutboxEntryDTO
func toOutboxEntryDTO(entry *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Payload:       json.RawMessage(entry.Payload),
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
