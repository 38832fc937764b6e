// Package pgtest runs a disposable PostgreSQL for repository integration
// tests and applies the real migrations to it.
package pgtest

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tables = []string{
	"outbox",
	"delivery_assignments",
	"order_items",
	"orders",
	"partners",
	"vendor_policies",
	"delivery_slots",
	"sectors",
}

// Suite is embedded by integration suites. It starts one container per suite
// and empties every table before each test.
type Suite struct {
	suite.Suite
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

func (s *Suite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.Container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.DSN = dsn
	s.Require().NoError(postgres.MigrateUp(dsn))

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.DB = db
}

func (s *Suite) SetupTest() {
	for _, table := range tables {
		s.Require().NoError(s.DB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error)
	}
}

func (s *Suite) TearDownSuite() {
	if s.Container != nil {
		s.Require().NoError(s.Container.Terminate(context.Background()))
	}
}
