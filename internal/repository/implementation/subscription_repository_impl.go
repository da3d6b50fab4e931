package implementation

import (
	"context"
	"errors"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/mapper"
	"resume-analyzer-be/internal/model"
	"resume-analyzer-be/internal/repository/contract"
	"resume-analyzer-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

// UpdateVersioned guards the write with the optimistic version column. All
// lifecycle state transitions go through here so that concurrent webhook
// deliveries and sweeps never interleave a lost update.
func (r *SubscriptionRepositoryImpl) UpdateVersioned(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	currentVersion := m.Version
	m.Version = currentVersion + 1

	res := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ? AND version = ?", m.Id, currentVersion).
		Select("*").
		Omit("created_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrConcurrentUpdate
	}
	sub.Version = m.Version
	return nil
}

func (r *SubscriptionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userId, string(entity.SubscriptionStatusCancelled)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindByGatewayOrderRef(ctx context.Context, orderRef string) (*entity.Subscription, error) {
	var m model.Subscription
	err := r.db.WithContext(ctx).
		Where("gateway_subscription_ref = ?", orderRef).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// ConsumeUsage is the one hot statement of the metering path. The quota
// guard and the increment execute as a single UPDATE so that concurrent
// consumers for the same subscription serialize on the row: for N attempts
// with K quota headroom, exactly min(N, K) succeed. A negative limit skips
// the guard (unlimited plans still count usage). The increment bumps the
// version column so an in-flight versioned write loses its optimistic
// check instead of overwriting the counter with its stale read.
func (r *SubscriptionRepositoryImpl) ConsumeUsage(ctx context.Context, id uuid.UUID, amount, limit int) (int, bool, error) {
	var rows []struct {
		UsageThisPeriod int
	}
	res := r.db.WithContext(ctx).Raw(`
		UPDATE subscriptions
		SET usage_this_period = usage_this_period + ?, version = version + 1, updated_at = now()
		WHERE id = ?
		  AND status IN ('trialing', 'active')
		  AND (? < 0 OR usage_this_period + ? <= ?)
		RETURNING usage_this_period`,
		amount, id, limit, amount, limit,
	).Scan(&rows)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].UsageThisPeriod, true, nil
}

// ResetPeriod also bumps the version: a versioned write racing the reset
// must re-read rather than restore the pre-reset counter.
func (r *SubscriptionRepositoryImpl) ResetPeriod(ctx context.Context, id uuid.UUID, periodStart, periodEnd time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_this_period":    0,
			"current_period_start": periodStart,
			"current_period_end":   periodEnd,
			"version":              gorm.Expr("version + 1"),
		}).Error
}

func (r *SubscriptionRepositoryImpl) HasTrialHistory(ctx context.Context, userId uuid.UUID, planId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("user_id = ? AND plan_id = ? AND trial_start IS NOT NULL", userId, planId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
