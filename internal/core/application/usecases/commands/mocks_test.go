package commands_test

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.LabOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.LabOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.LabOrder, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.LabOrder)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.LabOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.LabOrder)
	return orders, args.Error(1)
}

type MockWorkflowRepository struct{ mock.Mock }

func (m *MockWorkflowRepository) Add(ctx context.Context, wf *workflow.Workflow) error {
	return m.Called(ctx, wf).Error(0)
}

func (m *MockWorkflowRepository) Update(ctx context.Context, wf *workflow.Workflow) error {
	return m.Called(ctx, wf).Error(0)
}

func (m *MockWorkflowRepository) Get(ctx context.Context, orderID kernel.UUID) (*workflow.Workflow, error) {
	args := m.Called(ctx, orderID)
	wf, _ := args.Get(0).(*workflow.Workflow)
	return wf, args.Error(1)
}

func (m *MockWorkflowRepository) GetOverdueSteps(ctx context.Context, now time.Time) ([]*workflow.Step, error) {
	args := m.Called(ctx, now)
	steps, _ := args.Get(0).([]*workflow.Step)
	return steps, args.Error(1)
}

type MockSequence struct{ mock.Mock }

func (m *MockSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) WorkflowRepository() ports.WorkflowRepository {
	return m.Called().Get(0).(ports.WorkflowRepository)
}

func (m *MockUoW) ResultRepository() ports.ResultRepository {
	return m.Called().Get(0).(ports.ResultRepository)
}

func (m *MockUoW) OrderNumberSequence() ports.OrderNumberSequence {
	return m.Called().Get(0).(ports.OrderNumberSequence)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}
