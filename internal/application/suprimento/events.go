package suprimento

import (
	"context"
	"encoding/json"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
)

// enqueueEvents drains the pending domain events of the given aggregates into
// the transactional outbox. Delivery to the notification collaborator happens
// asynchronously; a failure here surfaces as STORAGE_UNAVAILABLE upstream.
func enqueueEvents(ctx context.Context, outbox shared.OutboxRepository, aggregates ...shared.AggregateRoot) error {
	var entries []*shared.OutboxEntry
	for _, agg := range aggregates {
		for _, event := range agg.GetDomainEvents() {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			entries = append(entries, shared.NewOutboxEntry(event, payload))
		}
		agg.ClearDomainEvents()
	}
	if len(entries) == 0 {
		return nil
	}
	return outbox.Save(ctx, entries...)
}
