package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/db"
	"github.com/hieuld/liftcare/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	customers *CustomerService
	contracts *ContractService
	history   *HistoryService
	trash     *TrashService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	customerRepo := repository.NewCustomerRepository(database)
	contractRepo := repository.NewContractRepository(database)
	historyRepo := repository.NewHistoryRepository(database)

	return &testEnv{
		db:        database,
		customers: NewCustomerService(database, customerRepo, contractRepo, historyRepo),
		contracts: NewContractService(database, customerRepo, contractRepo),
		history:   NewHistoryService(database, customerRepo, historyRepo),
		trash:     NewTrashService(database, customerRepo, contractRepo),
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed := date(t, value)
	return &parsed
}

func testCtx() context.Context {
	return context.Background()
}
