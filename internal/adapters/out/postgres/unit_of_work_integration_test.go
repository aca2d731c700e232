package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "labflow/internal/adapters/out/postgres"
	"labflow/internal/adapters/out/postgres/pgtest"
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/clock"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite exercises transaction handling and the
// command handlers end to end on PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(seq int64) *order.LabOrder {
	number, err := order.NewNumber(t0, seq)
	suite.Require().NoError(err)
	o, err := order.NewLabOrder(kernel.NewUUID(), number, "PAT-1", "DR-1", order.Routine, "", t0)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) createOrder() *order.LabOrder {
	cmd, err := commands.NewCreateOrderCommand("PAT-9", "DR-3", order.Urgent, "")
	suite.Require().NoError(err)
	h := commands.NewCreateOrderCommandHandler(suite.factory, clock.Fixed(t0))
	o, err := h.Handle(context.Background(), cmd)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().Error(uow.Commit(ctx), "Commit without an active transaction")
	suite.Require().Error(uow.Rollback(ctx), "Rollback without an active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsOrderAndWorkflow() {
	ctx := context.Background()
	o := suite.newOrder(1)
	wf, err := workflow.NewWorkflow(o.ID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.WorkflowRepository().Add(ctx, wf))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err = reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	got, err := reader.WorkflowRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(got.Steps(), workflow.StepCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEverything() {
	ctx := context.Background()
	o := suite.newOrder(1)
	wf, err := workflow.NewWorkflow(o.ID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.WorkflowRepository().Add(ctx, wf))
	next, err := uow.OrderNumberSequence().Next(ctx, t0)
	suite.Require().NoError(err)
	suite.Equal(int64(1), next)
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err = reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = reader.WorkflowRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	next, err = reader.OrderNumberSequence().Next(ctx, t0)
	suite.Require().NoError(err)
	suite.Equal(int64(1), next, "rolled back sequence value is handed out again")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCreateOrder_AllocatesConsecutiveNumbers() {
	first := suite.createOrder()
	second := suite.createOrder()

	suite.Equal("LAB-20261016-0001", first.Number().String())
	suite.Equal("LAB-20261016-0002", second.Number().String())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle_EndToEnd() {
	ctx := context.Background()
	clk := clock.Fixed(t0.Add(time.Hour))
	o := suite.createOrder()

	collect, err := commands.NewCollectSampleCommand(o.ID(), "nurse-1", "")
	suite.Require().NoError(err)
	collectHandler := commands.NewCollectSampleCommandHandler(suite.factory, clk)
	_, err = collectHandler.Handle(ctx, collect)
	suite.Require().NoError(err)

	process, err := commands.NewStartProcessingCommand(o.ID())
	suite.Require().NoError(err)
	processHandler := commands.NewStartProcessingCommandHandler(suite.factory, clk)
	_, err = processHandler.Handle(ctx, process)
	suite.Require().NoError(err)

	complete, err := commands.NewCompleteOrderCommand(o.ID(), "tech-7", "all done")
	suite.Require().NoError(err)
	completeHandler := commands.NewCompleteOrderCommandHandler(suite.factory, clk)
	completed, err := completeHandler.Handle(ctx, complete)
	suite.Require().NoError(err)
	suite.Equal(order.Completed, completed.Status())

	reader := suite.factory.Create()
	stored, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, stored.Status())
	wf, err := reader.WorkflowRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(wf.IsCompleted())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCompleteStep_ConcurrentCallsOnlyOneSucceeds() {
	o := suite.createOrder()
	h := commands.NewCompleteStepCommandHandler(suite.factory, clock.Fixed(t0.Add(time.Minute)))

	const callers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewCompleteStepCommand(o.ID(), workflow.SampleCollection, "nurse-1", "", nil)
			if err != nil {
				return
			}
			_, err = h.Handle(context.Background(), cmd)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	suite.Equal(1, succeeded)
	for _, err := range failures {
		conflict := errors.Is(err, errs.ErrConcurrencyConflict)
		suite.True(conflict || errors.Is(err, errs.ErrInvalidStateTransition), "unexpected error: %v", err)
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
