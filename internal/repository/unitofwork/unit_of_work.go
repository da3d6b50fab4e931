package unitofwork

import (
	"context"

	"resume-analyzer-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	EventLedgerRepository() contract.EventLedgerRepository
	ConversionRepository() contract.ConversionRepository
}
