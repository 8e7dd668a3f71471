package db

import (
	"log"

	"land-document-service/internal/domain"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.DocumentVersion{},
		&domain.AuditEntry{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}
