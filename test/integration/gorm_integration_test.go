package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SubscriptionRepository())
	assert.NotNil(t, uow.EventLedgerRepository())
	assert.NotNil(t, uow.ConversionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Transactional Subscription Update", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now().UTC()

		sub := &entity.Subscription{
			Id:                 uuid.New(),
			UserId:             uuid.New(),
			PlanId:             "free",
			Status:             entity.SubscriptionStatusActive,
			BillingCycle:       entity.BillingCycleMonthly,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			Version:            1,
		}

		err := uow.SubscriptionRepository().Create(ctx, sub)
		assert.NoError(t, err)

		// Transaction Test: ledger insert and versioned update commit together.
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		event := &entity.BillingEvent{
			EventId:    "evt-integration-" + uuid.New().String(),
			EventType:  entity.BillingEventChargeSucceeded,
			OccurredAt: now,
			OrderRef:   "sub-integration",
		}
		inserted, err := uow.EventLedgerRepository().Record(ctx, event, sub.Id)
		assert.NoError(t, err)
		assert.True(t, inserted)

		sub.Status = entity.SubscriptionStatusPastDue
		err = uow.SubscriptionRepository().UpdateVersioned(ctx, sub)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully recorded billing event and updated subscription in transaction")
	})

	t.Run("Check Conditional Usage Increment", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now().UTC()

		sub := &entity.Subscription{
			Id:                 uuid.New(),
			UserId:             uuid.New(),
			PlanId:             "free",
			Status:             entity.SubscriptionStatusActive,
			BillingCycle:       entity.BillingCycleMonthly,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			Version:            1,
		}
		err := uow.SubscriptionRepository().Create(ctx, sub)
		assert.NoError(t, err)

		usage, ok, err := uow.SubscriptionRepository().ConsumeUsage(ctx, sub.Id, 1, 1)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, usage)

		_, ok, err = uow.SubscriptionRepository().ConsumeUsage(ctx, sub.Id, 1, 1)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
