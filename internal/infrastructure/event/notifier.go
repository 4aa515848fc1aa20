package event

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier delivers outbox entries to the downstream notification channel.
// Delivery must be idempotent on the consumer side: the processor retries
// failed entries and may redeliver after a crash between send and mark-sent.
type Notifier interface {
	Notify(ctx context.Context, entry *shared.OutboxEntry) error
}

// LoggingNotifier writes events to the structured log. It is the default
// sink for environments without a webhook endpoint configured.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a notifier that logs each delivered event
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Notify logs the event
func (n *LoggingNotifier) Notify(_ context.Context, entry *shared.OutboxEntry) error {
	n.logger.Info("domain event",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.ByteString("payload", entry.Payload),
	)
	return nil
}

// WebhookNotifier posts each event's payload to a configured HTTP endpoint.
// Non-2xx responses count as delivery failures and feed the outbox retry
// cycle.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewWebhookNotifier creates a notifier that delivers events over HTTP
func NewWebhookNotifier(endpoint string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Notify posts the event payload to the webhook endpoint
func (n *WebhookNotifier) Notify(ctx context.Context, entry *shared.OutboxEntry) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(entry.Payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", entry.EventID.String())
	req.Header.Set("X-Event-Type", entry.EventType)
	req.Header.Set("X-Aggregate-Type", entry.AggregateType)
	req.Header.Set("X-Aggregate-ID", entry.AggregateID.String())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("event delivered",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)
	return nil
}

// Ensure both notifiers implement Notifier
var (
	_ Notifier = (*LoggingNotifier)(nil)
	_ Notifier = (*WebhookNotifier)(nil)
)
