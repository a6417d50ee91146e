package workers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chapterhouse/contexts/chapter-operations/ballot-engine/application/workers"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

func TestEventAuditorValidatesEnvelopeIdentity(t *testing.T) {
	auditor := workers.EventAuditor{}
	ctx := context.Background()

	require.NoError(t, auditor.Handle(ctx, ports.EventEnvelope{
		EventID:   "event-1",
		EventType: "chapter.ballot.vote_cast",
	}))

	require.Error(t, auditor.Handle(ctx, ports.EventEnvelope{}))
}
