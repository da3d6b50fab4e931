package contract

import (
	"context"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/repository/specification"
)

// ConversionRepository persists append-only conversion analytics records.
type ConversionRepository interface {
	Create(ctx context.Context, event *entity.ConversionEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversionEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
