package postgres

import (
	"orderledger/internal/adapters/out/postgres/fundrepo"
	"orderledger/internal/adapters/out/postgres/orderrepo"
	"orderledger/internal/adapters/out/postgres/refundsagarepo"
	"orderledger/internal/adapters/out/postgres/timelinerepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&fundrepo.TransactionDTO{},
		&timelinerepo.EventDTO{},
		&refundsagarepo.SagaDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
