package config

import (
	"fmt"
	migration "recipe-ai-backend/cmd/database/migrate"
	"recipe-ai-backend/internal/utils"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/docstore"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// NewDocumentStore picks the backend named by DOCSTORE_BACKEND. Postgres is
// migrated before use; "memory" keeps everything in process.
func NewDocumentStore(log *logger.Logger) (docstore.Store, error) {
	if strings.EqualFold(utils.GetConfig("DOCSTORE_BACKEND"), "memory") {
		log.Warn("using in-memory document store, data is lost on restart")
		return docstore.NewMemoryStore(), nil
	}

	db, err := ConnectDB()
	if err != nil {
		return nil, err
	}
	if err := migration.Migrate(db); err != nil {
		return nil, err
	}
	return docstore.NewGormStore(db, log), nil
}
