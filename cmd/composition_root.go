package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "orderledger/internal/adapters/in/http"
	"orderledger/internal/adapters/out/postgres"
	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires every handler of the process. The Lanes and Ledger it
// holds are shared, so all writers serialize through the same lanes.
type CompositionRoot struct {
	configs        Config
	gormDB         *gorm.DB
	uowFactory     *postgres.GormUnitOfWorkFactory
	lanes          *commands.Lanes
	ledger         *commands.Ledger
	policy         services.ContributionPolicy
	minimumBalance kernel.Money
	logger         *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	minimumBalance, err := kernel.NewMoney(configs.MinBalanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("MIN_BALANCE_THRESHOLD: %w", err)
	}
	policy, err := services.NewContributionPolicy(configs.ContributionRate)
	if err != nil {
		return nil, fmt.Errorf("CONTRIBUTION_RATE: %w", err)
	}

	c := &CompositionRoot{
		configs:        configs,
		gormDB:         gormDB,
		uowFactory:     postgres.NewGormUnitOfWorkFactory(gormDB),
		lanes:          commands.NewLanes(configs.LedgerLockTimeout),
		policy:         policy,
		minimumBalance: minimumBalance,
		logger:         logger,
	}
	c.ledger = commands.NewLedger(c.ledgerUoWFactory(), c.lanes, minimumBalance, logger)
	return c, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.lanes)
}

func (c *CompositionRoot) CreateSetPaymentStatusCommandHandler() commands.SetPaymentStatusCommandHandler {
	return commands.NewSetPaymentStatusCommandHandler(c.orderUoWFactory(), c.lanes)
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(c.fullUoWFactory(), c.ledger, c.lanes, c.logger)
}

func (c *CompositionRoot) CreateContributeToFundCommandHandler() commands.ContributeToFundCommandHandler {
	return commands.NewContributeToFundCommandHandler(c.ledger)
}

func (c *CompositionRoot) CreateWithdrawFromFundCommandHandler() commands.WithdrawFromFundCommandHandler {
	return commands.NewWithdrawFromFundCommandHandler(c.ledger)
}

func (c *CompositionRoot) CreateReconcileRefundSagasCommandHandler() commands.ReconcileRefundSagasCommandHandler {
	return commands.NewReconcileRefundSagasCommandHandler(c.fullUoWFactory(), c.ledger, c.lanes, c.logger)
}

func (c *CompositionRoot) CreateAccrueOrderContributionsCommandHandler() commands.AccrueOrderContributionsCommandHandler {
	return commands.NewAccrueOrderContributionsCommandHandler(c.orderUoWFactory(), c.ledger, c.policy, c.logger)
}

func (c *CompositionRoot) CreateCheckOrderSLACommandHandler() commands.CheckOrderSLACommandHandler {
	return commands.NewCheckOrderSLACommandHandler(c.orderUoWFactory(), c.lanes, c.logger)
}

// CreateServer builds the HTTP surface over every use case.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		TransitionOrder:    c.CreateTransitionOrderCommandHandler(),
		SetPaymentStatus:   c.CreateSetPaymentStatusCommandHandler(),
		RequestRefund:      c.CreateRequestRefundCommandHandler(),
		ContributeToFund:   c.CreateContributeToFundCommandHandler(),
		WithdrawFromFund:   c.CreateWithdrawFromFundCommandHandler(),
		GetOrder:           queries.NewGetOrderQueryHandler(c.gormDB),
		ListOrders:         queries.NewListOrdersQueryHandler(c.gormDB),
		GetOrderTimeline:   queries.NewGetOrderTimelineQueryHandler(c.gormDB),
		GetFundBalance:     queries.NewGetFundBalanceQueryHandler(c.gormDB),
		ListTransactions:   queries.NewListFundTransactionsQueryHandler(c.gormDB),
		GetFundAnalytics:   queries.NewGetFundAnalyticsQueryHandler(c.gormDB),
		GetFundHealth:      queries.NewGetFundHealthQueryHandler(c.gormDB, c.minimumBalance),
		VerifyFundChain:    queries.NewVerifyFundChainQueryHandler(c.gormDB),
		ProjectFundBalance: queries.NewProjectFundBalanceQueryHandler(c.gormDB, c.policy, c.minimumBalance),
		Ping:               c.ping,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewRefundReconciliationJob(
			c.CreateReconcileRefundSagasCommandHandler(),
			c.configs.RefundReconcileSchedule,
			c.configs.RefundStaleAfter,
			c.configs.RefundReconcileBatch,
			c.logger,
		),
		jobs.NewContributionAccrualJob(
			c.CreateAccrueOrderContributionsCommandHandler(),
			c.configs.AccrualSchedule,
			c.configs.AccrualBatch,
			c.logger,
		),
		jobs.NewSLAMonitorJob(
			c.CreateCheckOrderSLACommandHandler(),
			c.configs.SLAMonitorSchedule,
			c.configs.SLAMonitorBatch,
			c.logger,
		),
	)
}

func (c *CompositionRoot) ping(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
