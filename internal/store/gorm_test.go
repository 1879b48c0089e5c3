package store_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/tunsmm/diary-network/internal/database"
	"github.com/tunsmm/diary-network/internal/store"
)

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return store.NewGormStore(db)
}

func TestGormStoreSQLite(t *testing.T) {
	runContract(t, newSQLiteStore)
}
