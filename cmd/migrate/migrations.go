package main

import (
	"gorm.io/gorm"

	"github.com/gridtrade/exchange/internal/models"
	"github.com/gridtrade/exchange/internal/store"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Listing{},
		&models.Transaction{},
	}
}

// runMigrations executes schema migrations and seeds the fixed listings.
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return seedListings(db)
}

// seedListings inserts the example listings into an empty database and bumps
// the id sequence past them, so the first user-created listing gets id 4.
func seedListings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Listing{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seed := store.SeedListings()
		if err := db.Create(&seed).Error; err != nil {
			return err
		}
	}
	return db.Exec(
		"SELECT setval(pg_get_serial_sequence('listings', 'id'), GREATEST((SELECT COALESCE(MAX(id), 1) FROM listings), 1))",
	).Error
}
