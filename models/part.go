package models

import "time"

// Part represents an inventory item. Stock is the on-hand count.
type Part struct {
	ID          uint      `gorm:"primaryKey;column:pid" json:"pid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Units       string    `json:"units"`
	Stock       int       `json:"stock"`
	Deleted     bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Part model
func (Part) TableName() string {
	return "parts"
}

// ToView returns a flat view-model for display
func (p *Part) ToView() map[string]interface{} {
	return map[string]interface{}{
		"pid":         p.ID,
		"name":        p.Name,
		"description": p.Description,
		"units":       p.Units,
		"stock":       p.Stock,
		"deleted":     p.Deleted,
	}
}
