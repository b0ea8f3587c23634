package migration

import (
	"fmt"
	"recipe-ai-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Document{}); err != nil {
		return fmt.Errorf("migrating documents table: %w", err)
	}

	// GIN index for the jsonb field filters.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data jsonb_path_ops)`).Error; err != nil {
		return fmt.Errorf("creating documents data index: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_collection_updated ON documents (collection, updated_at DESC)`).Error; err != nil {
		return fmt.Errorf("creating documents collection index: %w", err)
	}
	return nil
}
