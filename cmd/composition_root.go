package cmd

import (
	"database/sql"
	"errors"
	"fmt"

	labhttp "labflow/internal/adapters/in/http"
	"labflow/internal/adapters/out/catalog"
	"labflow/internal/adapters/out/memory"
	"labflow/internal/adapters/out/notify"
	"labflow/internal/adapters/out/postgres"
	"labflow/internal/adapters/out/postgres/migrations"
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/services"
	"labflow/internal/core/ports"
	"labflow/internal/jobs"
	"labflow/internal/pkg/clock"
	"labflow/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg        Config
	logger     zerolog.Logger
	clock      clock.Clock
	metrics    *metrics.Metrics
	uowFactory ports.UnitOfWorkFactory
	catalog    ports.TestCatalog
	evaluator  services.ReferenceRangeEvaluator
	notifier   ports.AlertNotifier
	sqlDB      *sql.DB
}

func NewCompositionRoot(cfg Config, logger zerolog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:       cfg,
		logger:    logger,
		clock:     clock.System{},
		metrics:   metrics.New(),
		evaluator: services.NewReferenceRangeEvaluator(services.MatchSubject{}),
	}

	if err := root.openStore(); err != nil {
		return nil, err
	}

	testCatalog, err := loadCatalog(cfg.TestCatalogPath)
	if err != nil {
		_ = root.Close()
		return nil, err
	}
	root.catalog = testCatalog
	root.notifier = root.buildNotifier()

	return root, nil
}

func (c *CompositionRoot) openStore() error {
	switch c.cfg.Store {
	case StoreTypeMemory:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.logger.Warn().Msg("using in-memory store, data is lost on exit")
		return nil
	case StoreTypePostgres:
	default:
		return fmt.Errorf("unsupported store %q", c.cfg.Store)
	}

	db, err := gorm.Open(gormpg.Open(c.cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	c.sqlDB = sqlDB

	if c.cfg.AutoMigrate {
		if err = migrations.Up(sqlDB); err != nil {
			_ = sqlDB.Close()
			return err
		}
		c.logger.Info().Msg("database schema is up to date")
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	return nil
}

func loadCatalog(path string) (*catalog.YAMLCatalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func (c *CompositionRoot) buildNotifier() ports.AlertNotifier {
	notifiers := []ports.AlertNotifier{notify.NewLogNotifier(c.logger)}
	if c.cfg.AlertWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(c.cfg.AlertWebhookURL, c.cfg.AlertWebhookTimeout))
	}
	return notify.NewInstrumented(notify.NewFanOut(notifiers...), c.metrics)
}

// Close releases the database connection, if any.
func (c *CompositionRoot) Close() error {
	if c.sqlDB == nil {
		return nil
	}
	return c.sqlDB.Close()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateCollectSampleCommandHandler() commands.CollectSampleCommandHandler {
	return commands.NewCollectSampleCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateStartProcessingCommandHandler() commands.StartProcessingCommandHandler {
	return commands.NewStartProcessingCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uowFactory, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateStartStepCommandHandler() commands.StartStepCommandHandler {
	return commands.NewStartStepCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateCompleteStepCommandHandler() commands.CompleteStepCommandHandler {
	return commands.NewCompleteStepCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateTriggerAutomationCommandHandler() commands.TriggerAutomationCommandHandler {
	return commands.NewTriggerAutomationCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateRecordResultCommandHandler() commands.RecordResultCommandHandler {
	return commands.NewRecordResultCommandHandler(c.uowFactory, c.catalog, c.evaluator, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateResultCommandHandler() commands.UpdateResultCommandHandler {
	return commands.NewUpdateResultCommandHandler(c.uowFactory, c.catalog, c.evaluator, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateVerifyResultCommandHandler() commands.VerifyResultCommandHandler {
	return commands.NewVerifyResultCommandHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateCheckOverdueStepsCommandHandler() commands.CheckOverdueStepsCommandHandler {
	return commands.NewCheckOverdueStepsCommandHandler(c.uowFactory, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateGetOrderWorkflowStatusQueryHandler() queries.GetOrderWorkflowStatusQueryHandler {
	return queries.NewGetOrderWorkflowStatusQueryHandler(c.uowFactory, c.clock)
}

// CreateHTTPRouter wires every use case into the Echo router.
func (c *CompositionRoot) CreateHTTPRouter() (*echo.Echo, error) {
	server := labhttp.NewServer(labhttp.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		CollectSample:     c.CreateCollectSampleCommandHandler(),
		StartProcessing:   c.CreateStartProcessingCommandHandler(),
		CompleteOrder:     c.CreateCompleteOrderCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		StartStep:         c.CreateStartStepCommandHandler(),
		CompleteStep:      c.CreateCompleteStepCommandHandler(),
		TriggerAutomation: c.CreateTriggerAutomationCommandHandler(),
		RecordResult:      c.CreateRecordResultCommandHandler(),
		UpdateResult:      c.CreateUpdateResultCommandHandler(),
		VerifyResult:      c.CreateVerifyResultCommandHandler(),

		GetOrder:               c.CreateGetOrderQueryHandler(),
		GetActiveOrders:        c.CreateGetActiveOrdersQueryHandler(),
		GetOrderWorkflowStatus: c.CreateGetOrderWorkflowStatusQueryHandler(),
	}, c.clock, c.logger)

	return labhttp.NewRouter(server, c.metrics, c.logger)
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	sweep := c.CreateCheckOverdueStepsCommandHandler()
	return jobs.NewJobManager(
		jobs.NewSLAMonitorJob(&sweep, c.metrics, c.cfg.SLASweepSchedule, c.logger),
	)
}

// ErrNoDatabase is returned by database-only operations on a memory store.
var ErrNoDatabase = errors.New("no database configured")

// OpenSQL opens the configured database through lib/pq for schema migrations.
func OpenSQL(cfg Config) (*sql.DB, error) {
	if cfg.Store != StoreTypePostgres {
		return nil, ErrNoDatabase
	}
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
