package workers

import (
	"context"
	"fmt"
	"log/slog"

	application "chapterhouse/contexts/chapter-operations/ballot-engine/application"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

// EventAuditor is the worker-side consumer on the ballot topic. It writes one
// audit log line per relayed event and rejects envelopes that lost their
// identity in transit.
type EventAuditor struct {
	Logger *slog.Logger
}

func (a EventAuditor) Handle(_ context.Context, event ports.EventEnvelope) error {
	if event.EventID == "" || event.EventType == "" {
		return fmt.Errorf("ballot event missing identity: id=%q type=%q", event.EventID, event.EventType)
	}

	application.ResolveLogger(a.Logger).Info("ballot event audited",
		"event", "ballot_event_audited",
		"module", "chapter-operations/ballot-engine",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
