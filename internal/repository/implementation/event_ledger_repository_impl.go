package implementation

import (
	"context"
	"errors"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/mapper"
	"resume-analyzer-be/internal/model"
	"resume-analyzer-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventLedgerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingEventMapper
}

func NewEventLedgerRepository(db *gorm.DB) contract.EventLedgerRepository {
	return &EventLedgerRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingEventMapper(),
	}
}

// Record inserts with ON CONFLICT DO NOTHING on the event-id primary key, so
// duplicate gateway deliveries are detected in the same statement that
// claims the id.
func (r *EventLedgerRepositoryImpl) Record(ctx context.Context, event *entity.BillingEvent, subscriptionId uuid.UUID) (bool, error) {
	m := r.mapper.ToLedgerModel(event, subscriptionId)
	m.ProcessedAt = time.Now()
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EventLedgerRepositoryImpl) Find(ctx context.Context, eventId string) (*entity.ProcessedBillingEvent, error) {
	var m model.ProcessedBillingEvent
	if err := r.db.WithContext(ctx).First(&m, "event_id = ?", eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LedgerToEntity(&m), nil
}

func (r *EventLedgerRepositoryImpl) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("processed_at < ?", cutoff).
		Delete(&model.ProcessedBillingEvent{})
	return res.RowsAffected, res.Error
}
