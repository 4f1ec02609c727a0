package models

import "time"

// Site represents a delivery site. Lat/Lon are geocoded once when the
// site is created and never recomputed on edit.
type Site struct {
	ID        uint      `gorm:"primaryKey;column:sid" json:"sid"`
	Address   string    `json:"address"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Site model
func (Site) TableName() string {
	return "sites"
}

// ToView returns a flat view-model for display
func (s *Site) ToView() map[string]interface{} {
	return map[string]interface{}{
		"sid":     s.ID,
		"address": s.Address,
		"lat":     s.Lat,
		"lon":     s.Lon,
		"deleted": s.Deleted,
	}
}
