package postgres

import (
	"testing"

	authmodel "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&authmodel.Role{}, &authmodel.User{}, &model.Category{}, &model.Product{},
	))
	return db
}
