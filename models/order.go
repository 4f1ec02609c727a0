package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values. Orders always carry exactly one of these.
const (
	StatusPlaced     = "Order placed"
	StatusScheduled  = "Delivery scheduled"
	StatusDispatched = "Driver dispatched"
	StatusCompleted  = "Order completed"
)

// OrderStatuses lists the valid status values in display order
var OrderStatuses = []string{StatusPlaced, StatusScheduled, StatusDispatched, StatusCompleted}

// Order represents a client order to be delivered to a site
type Order struct {
	ID        uint      `gorm:"primaryKey;column:oid" json:"oid"`
	ClientID  uint      `gorm:"column:cid;not null;index" json:"cid"`
	Client    Client    `gorm:"foreignKey:ClientID" json:"-"`
	SiteID    uint      `gorm:"column:sid;not null;index" json:"sid"`
	Site      Site      `gorm:"foreignKey:SiteID" json:"-"`
	Due       string    `json:"due"`
	Status    string    `gorm:"not null;default:'Order placed'" json:"status"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ToView returns a flat view-model for display. The referenced client's
// name and site's address are resolved at read time; a missing or
// soft-deleted reference yields an empty string rather than an error.
func (o *Order) ToView(db *gorm.DB) map[string]interface{} {
	clientName := ""
	siteAddress := ""

	var client Client
	if err := db.First(&client, o.ClientID).Error; err == nil && !client.Deleted {
		clientName = client.Name
	}

	var site Site
	if err := db.First(&site, o.SiteID).Error; err == nil && !site.Deleted {
		siteAddress = site.Address
	}

	return map[string]interface{}{
		"oid":     o.ID,
		"cid":     o.ClientID,
		"client":  clientName,
		"sid":     o.SiteID,
		"site":    siteAddress,
		"due":     o.Due,
		"status":  o.Status,
		"deleted": o.Deleted,
	}
}
