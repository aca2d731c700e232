package resultrepo

import (
	"context"
	"errors"

	"labflow/internal/adapters/out/postgres/pgerr"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormResultRepository implements ports.ResultRepository using GORM.
type GormResultRepository struct {
	db *gorm.DB
}

func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Add inserts a result. A result for an unknown order is an ObjectNotFoundError.
func (r *GormResultRepository) Add(ctx context.Context, aggregate *result.LabResult) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return errs.NewObjectNotFoundError("order", aggregate.OrderID().String())
		}
		return pgerr.TranslateInsert(err, "result", aggregate.ID().String())
	}
	return nil
}

func (r *GormResultRepository) Update(ctx context.Context, aggregate *result.LabResult) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	if err := pgerr.UpdateVersioned(ctx, r.db, &dto, dto.ID, expected, "result", aggregate.ID().String()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormResultRepository) Get(ctx context.Context, id kernel.UUID) (*result.LabResult, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ResultDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("result", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder returns the results of an order in the order they were performed.
func (r *GormResultRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*result.LabResult, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ResultDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("performed_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	results := make([]*result.LabResult, 0, len(dtos))
	for _, dto := range dtos {
		res, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
