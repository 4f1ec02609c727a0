package models

import "gorm.io/gorm"

// NextID returns the id the next row of the given model would take: the
// maximum existing id plus one, scanned over every row including
// soft-deleted ones. An empty table yields 1. This only feeds the "new"
// form synthesis; actual inserts rely on the store's auto-increment.
func NextID(db *gorm.DB, model interface{}, column string) (uint, error) {
	var max uint
	err := db.Model(model).Select("COALESCE(MAX(" + column + "), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// MaxID returns the highest existing id for the given model, or 0 when
// the table is empty. Used for the new-order client/site defaults.
func MaxID(db *gorm.DB, model interface{}, column string) (uint, error) {
	var max uint
	err := db.Model(model).Select("COALESCE(MAX(" + column + "), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Site{},
		&Part{},
		&Order{},
		&OrderToPart{},
	)
}
