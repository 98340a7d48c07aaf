package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres or dies. Services have nothing useful to do
// without their database, so callers get a ready handle or nothing.
func Open(dsn string) *gorm.DB {
	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	return g
}
