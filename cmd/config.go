package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret string `env:"JWT_SECRET"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"orderledger"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	LedgerLockTimeout   time.Duration   `env:"LEDGER_LOCK_TIMEOUT" envDefault:"5s"`
	MinBalanceThreshold decimal.Decimal `env:"MIN_BALANCE_THRESHOLD" envDefault:"5000000"`
	ContributionRate    decimal.Decimal `env:"CONTRIBUTION_RATE" envDefault:"0.025"`

	RefundReconcileSchedule string        `env:"REFUND_RECONCILE_SCHEDULE" envDefault:"*/30 * * * * *"`
	RefundStaleAfter        time.Duration `env:"REFUND_STALE_AFTER" envDefault:"2m"`
	RefundReconcileBatch    int           `env:"REFUND_RECONCILE_BATCH" envDefault:"100"`
	AccrualSchedule         string        `env:"ACCRUAL_SCHEDULE" envDefault:"0 */5 * * * *"`
	AccrualBatch            int           `env:"ACCRUAL_BATCH" envDefault:"200"`
	SLAMonitorSchedule      string        `env:"SLA_MONITOR_SCHEDULE" envDefault:"0 * * * * *"`
	SLAMonitorBatch         int           `env:"SLA_MONITOR_BATCH" envDefault:"100"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	err := env.ParseWithFuncs(&cfg, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
			return decimal.NewFromString(v)
		},
	})
	return cfg, err
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
