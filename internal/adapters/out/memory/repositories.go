package memory

import (
	"context"
	"sort"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/errs"
)

type orderRepository struct {
	uow *unitOfWork
}

func (r orderRepository) Add(_ context.Context, aggregate *order.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(st *state) error {
		snap := aggregate.Snapshot()
		id := snap.ID.Bytes()
		if _, ok := st.orders[id]; ok {
			return errs.NewConcurrencyConflictError("order", snap.ID)
		}
		if _, ok := st.numbers[snap.Number]; ok {
			return errs.NewConcurrencyConflictError("order", snap.Number)
		}
		st.orders[id] = snap
		st.numbers[snap.Number] = id
		return nil
	})
}

func (r orderRepository) Update(_ context.Context, aggregate *order.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(st *state) error {
		snap := aggregate.Snapshot()
		stored, ok := st.orders[snap.ID.Bytes()]
		if !ok {
			return errs.NewObjectNotFoundError("order", snap.ID)
		}
		if stored.Version != snap.Version {
			return errs.NewConcurrencyConflictError("order", snap.ID)
		}
		snap.Version++
		st.orders[snap.ID.Bytes()] = snap
		aggregate.MarkPersisted(snap.Version)
		return nil
	})
}

func (r orderRepository) Get(_ context.Context, id kernel.UUID) (*order.LabOrder, error) {
	var out *order.LabOrder
	err := r.uow.do(func(st *state) error {
		snap, ok := st.orders[id.Bytes()]
		if !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		var err error
		out, err = order.RestoreLabOrder(snap)
		return err
	})
	return out, err
}

func (r orderRepository) GetAllActive(_ context.Context) ([]*order.LabOrder, error) {
	var out []*order.LabOrder
	err := r.uow.do(func(st *state) error {
		for _, snap := range st.orders {
			if snap.Status.IsTerminal() {
				continue
			}
			o, err := order.RestoreLabOrder(snap)
			if err != nil {
				return err
			}
			out = append(out, o)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, err
}

type workflowRepository struct {
	uow *unitOfWork
}

func (r workflowRepository) Add(_ context.Context, wf *workflow.Workflow) error {
	return r.uow.do(func(st *state) error {
		steps := wf.Steps()
		for _, s := range steps {
			if _, ok := st.steps[s.ID().Bytes()]; ok {
				return errs.NewConcurrencyConflictError("workflow step", s.ID())
			}
		}
		for _, s := range steps {
			st.steps[s.ID().Bytes()] = s.Snapshot()
			s.MarkPersisted(s.Version())
		}
		return nil
	})
}

func (r workflowRepository) Update(_ context.Context, wf *workflow.Workflow) error {
	return r.uow.do(func(st *state) error {
		changed := wf.ChangedSteps()
		for _, s := range changed {
			stored, ok := st.steps[s.ID().Bytes()]
			if !ok {
				return errs.NewObjectNotFoundError("workflow step", s.ID())
			}
			if stored.Version != s.Version() {
				return errs.NewConcurrencyConflictError("workflow step", s.ID())
			}
		}
		for _, s := range changed {
			snap := s.Snapshot()
			snap.Version++
			st.steps[s.ID().Bytes()] = snap
			s.MarkPersisted(snap.Version)
		}
		return nil
	})
}

func (r workflowRepository) Get(_ context.Context, orderID kernel.UUID) (*workflow.Workflow, error) {
	var out *workflow.Workflow
	err := r.uow.do(func(st *state) error {
		var steps []*workflow.Step
		for _, snap := range st.steps {
			if !snap.OrderID.IsEqual(orderID) {
				continue
			}
			s, err := workflow.RestoreStep(snap)
			if err != nil {
				return err
			}
			steps = append(steps, s)
		}
		if len(steps) == 0 {
			return errs.NewObjectNotFoundError("workflow", orderID)
		}
		var err error
		out, err = workflow.RestoreWorkflow(orderID, steps)
		return err
	})
	return out, err
}

func (r workflowRepository) GetOverdueSteps(_ context.Context, now time.Time) ([]*workflow.Step, error) {
	var out []*workflow.Step
	err := r.uow.do(func(st *state) error {
		for _, snap := range st.steps {
			s, err := workflow.RestoreStep(snap)
			if err != nil {
				return err
			}
			if s.IsOverdue(now) {
				out = append(out, s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate().Before(*out[j].DueDate()) })
	return out, err
}

type resultRepository struct {
	uow *unitOfWork
}

func (r resultRepository) Add(_ context.Context, aggregate *result.LabResult) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(st *state) error {
		snap := aggregate.Snapshot()
		if _, ok := st.results[snap.ID.Bytes()]; ok {
			return errs.NewConcurrencyConflictError("result", snap.ID)
		}
		if _, ok := st.orders[snap.OrderID.Bytes()]; !ok {
			return errs.NewObjectNotFoundError("order", snap.OrderID)
		}
		st.results[snap.ID.Bytes()] = snap
		return nil
	})
}

func (r resultRepository) Update(_ context.Context, aggregate *result.LabResult) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.do(func(st *state) error {
		snap := aggregate.Snapshot()
		stored, ok := st.results[snap.ID.Bytes()]
		if !ok {
			return errs.NewObjectNotFoundError("result", snap.ID)
		}
		if stored.Version != snap.Version {
			return errs.NewConcurrencyConflictError("result", snap.ID)
		}
		snap.Version++
		st.results[snap.ID.Bytes()] = snap
		aggregate.MarkPersisted(snap.Version)
		return nil
	})
}

func (r resultRepository) Get(_ context.Context, id kernel.UUID) (*result.LabResult, error) {
	var out *result.LabResult
	err := r.uow.do(func(st *state) error {
		snap, ok := st.results[id.Bytes()]
		if !ok {
			return errs.NewObjectNotFoundError("result", id)
		}
		var err error
		out, err = result.RestoreLabResult(snap)
		return err
	})
	return out, err
}

func (r resultRepository) GetByOrder(_ context.Context, orderID kernel.UUID) ([]*result.LabResult, error) {
	var out []*result.LabResult
	err := r.uow.do(func(st *state) error {
		for _, snap := range st.results {
			if !snap.OrderID.IsEqual(orderID) {
				continue
			}
			res, err := result.RestoreLabResult(snap)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt().Before(out[j].PerformedAt()) })
	return out, err
}

type sequence struct {
	uow *unitOfWork
}

func (s sequence) Next(_ context.Context, day time.Time) (int64, error) {
	key := day.UTC().Format(time.DateOnly)
	var next int64
	err := s.uow.do(func(st *state) error {
		next = st.sequences[key] + 1
		st.sequences[key] = next
		return nil
	})
	return next, err
}
