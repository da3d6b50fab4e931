package implementation

import (
	"context"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/mapper"
	"resume-analyzer-be/internal/model"
	"resume-analyzer-be/internal/repository/contract"
	"resume-analyzer-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ConversionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversionMapper
}

func NewConversionRepository(db *gorm.DB) contract.ConversionRepository {
	return &ConversionRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversionMapper(),
	}
}

func (r *ConversionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversionRepositoryImpl) Create(ctx context.Context, event *entity.ConversionEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConversionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversionEvent, error) {
	var models []*model.ConversionEvent
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ConversionEvent{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversionEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ConversionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ConversionEvent{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
