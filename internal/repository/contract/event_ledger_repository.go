package contract

import (
	"context"
	"time"

	"resume-analyzer-be/internal/entity"

	"github.com/google/uuid"
)

// EventLedgerRepository is the idempotency ledger for externally delivered
// billing events, keyed by event id.
type EventLedgerRepository interface {
	// Record inserts the event id into the ledger. Returns inserted=false
	// when the id was already present (duplicate delivery), with no error.
	Record(ctx context.Context, event *entity.BillingEvent, subscriptionId uuid.UUID) (inserted bool, err error)

	Find(ctx context.Context, eventId string) (*entity.ProcessedBillingEvent, error)

	// PurgeOlderThan removes ledger rows processed before the cutoff. The
	// retention window must exceed the gateway's maximum retry window.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
