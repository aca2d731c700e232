package steprepo

import (
	"context"
	"time"

	"labflow/internal/adapters/out/postgres/pgerr"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkflowRepository implements ports.WorkflowRepository. A workflow is
// not a row of its own; it is the six steps sharing an order id.
type GormWorkflowRepository struct {
	db *gorm.DB
}

func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

// Add inserts all steps of a new workflow in one statement.
func (r *GormWorkflowRepository) Add(ctx context.Context, wf *workflow.Workflow) error {
	steps := wf.Steps()
	dtos := make([]StepDTO, 0, len(steps))
	for _, s := range steps {
		dto, err := fromDomain(s)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return errs.NewObjectNotFoundError("order", wf.OrderID().String())
		}
		return pgerr.TranslateInsert(err, "workflow", wf.OrderID().String())
	}

	for _, s := range steps {
		s.MarkPersisted(s.Version())
	}
	return nil
}

// Update writes every changed step with a version check. The first stale or
// missing step aborts the update; callers roll the transaction back.
func (r *GormWorkflowRepository) Update(ctx context.Context, wf *workflow.Workflow) error {
	changed := wf.ChangedSteps()
	versions := make([]int, 0, len(changed))

	for _, s := range changed {
		dto, err := fromDomain(s)
		if err != nil {
			return err
		}
		expected := dto.Version
		dto.Version = expected + 1

		if err = pgerr.UpdateVersioned(ctx, r.db, &dto, dto.ID, expected, "workflow step", s.ID().String()); err != nil {
			return err
		}
		versions = append(versions, dto.Version)
	}

	for i, s := range changed {
		s.MarkPersisted(versions[i])
	}
	return nil
}

// Get loads the six steps of an order ordered by sequence.
func (r *GormWorkflowRepository) Get(ctx context.Context, orderID kernel.UUID) (*workflow.Workflow, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StepDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, errs.NewObjectNotFoundError("workflow", orderID.String())
	}

	steps, err := toSteps(dtos)
	if err != nil {
		return nil, err
	}
	return workflow.RestoreWorkflow(orderID, steps)
}

// GetOverdueSteps selects open steps whose due date has passed, earliest
// due date first.
func (r *GormWorkflowRepository) GetOverdueSteps(ctx context.Context, now time.Time) ([]*workflow.Step, error) {
	var dtos []StepDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", []int{int(workflow.StepPending), int(workflow.StepInProgress)}).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Order("due_date, order_id, sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toSteps(dtos)
}

func toSteps(dtos []StepDTO) ([]*workflow.Step, error) {
	steps := make([]*workflow.Step, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}
