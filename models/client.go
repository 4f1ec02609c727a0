package models

import "time"

// Client represents a customer of the business
type Client struct {
	ID          uint      `gorm:"primaryKey;column:cid" json:"cid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deleted     bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// ToView returns a flat view-model for display
func (c *Client) ToView() map[string]interface{} {
	return map[string]interface{}{
		"cid":         c.ID,
		"name":        c.Name,
		"description": c.Description,
		"deleted":     c.Deleted,
	}
}
