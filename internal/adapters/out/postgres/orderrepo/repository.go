package orderrepo

import (
	"context"
	"errors"

	"labflow/internal/adapters/out/postgres/pgerr"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository stores LabOrder rows in lab_orders.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order. A duplicate id or order number is reported as a
// ConcurrencyConflictError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.TranslateInsert(err, "order", aggregate.Number().String())
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Update bumps the row version; see pgerr.UpdateVersioned.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	if err := pgerr.UpdateVersioned(ctx, r.db, &dto, dto.ID, expected, "order", aggregate.ID().String()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.LabOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive lists non-terminal orders, oldest first.
func (r *GormOrderRepository) GetAllActive(ctx context.Context) ([]*order.LabOrder, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []int{int(order.Completed), int(order.Cancelled)}).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.LabOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
