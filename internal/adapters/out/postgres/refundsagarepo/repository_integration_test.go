package refundsagarepo_test

import (
	"context"
	"testing"
	"time"

	"orderledger/internal/adapters/out/postgres/pgtest"
	"orderledger/internal/adapters/out/postgres/refundsagarepo"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/refund"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type RefundSagaRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *refundsagarepo.GormRefundSagaRepository
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(pgtest.Truncate).Error)
	suite.repository = refundsagarepo.NewGormRefundSagaRepository(suite.db)
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) newSaga(now time.Time) *refund.Saga {
	amount, err := kernel.MoneyFromString("250.00")
	suite.Require().NoError(err)
	saga, err := refund.NewSaga(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), amount, "ops@tenant", "damaged", now)
	suite.Require().NoError(err)
	return saga
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) TestSave_InsertsThenOverwrites() {
	ctx := context.Background()
	saga := suite.newSaga(time.Now())
	suite.Require().NoError(suite.repository.Save(ctx, saga))

	withdrawalID := kernel.NewUUID()
	suite.Require().NoError(saga.MarkLedgerDebited(withdrawalID, time.Now()))
	suite.Require().NoError(saga.MarkCompensated(nil, "order changed concurrently", time.Now()))
	suite.Require().NoError(suite.repository.Save(ctx, saga))

	loaded, err := suite.repository.Get(ctx, saga.RefundRequestID())

	suite.Require().NoError(err)
	suite.Equal(refund.Compensated, loaded.State())
	suite.Equal(saga.OrderID(), loaded.OrderID())
	suite.Equal(saga.TenantID(), loaded.TenantID())
	suite.Equal("250.00", loaded.Amount().String())
	suite.Equal(1, loaded.Attempts())
	suite.Require().NotNil(loaded.WithdrawalTxID())
	suite.Equal(withdrawalID, *loaded.WithdrawalTxID())
	suite.Nil(loaded.CompensationTxID())
	suite.Equal("order changed concurrently", loaded.LastError())

	var count int64
	suite.Require().NoError(suite.db.Model(&refundsagarepo.SagaDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *RefundSagaRepositoryIntegrationTestSuite) TestListStale() {
	ctx := context.Background()
	old := time.Now().Add(-time.Hour)

	pending := suite.newSaga(old)
	suite.Require().NoError(suite.repository.Save(ctx, pending))

	debited := suite.newSaga(old.Add(time.Minute))
	suite.Require().NoError(debited.MarkLedgerDebited(kernel.NewUUID(), old.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Save(ctx, debited))

	failed := suite.newSaga(old)
	suite.Require().NoError(failed.MarkFailed("insufficient funds", old))
	suite.Require().NoError(suite.repository.Save(ctx, failed))

	fresh := suite.newSaga(time.Now())
	suite.Require().NoError(suite.repository.Save(ctx, fresh))

	stale, err := suite.repository.ListStale(ctx, []refund.State{refund.Pending, refund.LedgerDebited}, time.Now().Add(-time.Minute), 10)

	suite.Require().NoError(err)
	suite.Require().Len(stale, 2)
	suite.Equal(pending.RefundRequestID(), stale[0].RefundRequestID())
	suite.Equal(debited.RefundRequestID(), stale[1].RefundRequestID())

	limited, err := suite.repository.ListStale(ctx, []refund.State{refund.Pending, refund.LedgerDebited}, time.Now(), 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}

func TestRefundSagaRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(RefundSagaRepositoryIntegrationTestSuite))
}
