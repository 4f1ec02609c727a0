package models

// OrderToPart is one line item: a (part, quantity, price) triple attached
// to an order. At most one line exists per (order, part) pair; the
// composite unique index backs up the upsert logic in the order controller.
type OrderToPart struct {
	ID       uint    `gorm:"primaryKey;column:otpid" json:"otpid"`
	OrderID  uint    `gorm:"column:oid;not null;uniqueIndex:idx_order_part" json:"oid"`
	Order    Order   `gorm:"foreignKey:OrderID" json:"-"`
	PartID   uint    `gorm:"column:pid;not null;uniqueIndex:idx_order_part" json:"pid"`
	Part     Part    `gorm:"foreignKey:PartID" json:"-"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Deleted  bool    `gorm:"not null;default:false;index" json:"deleted"`
}

// TableName specifies the table name for the OrderToPart model
func (OrderToPart) TableName() string {
	return "order_to_part"
}

// ToView returns a flat view-model for display
func (l *OrderToPart) ToView() map[string]interface{} {
	return map[string]interface{}{
		"otpid":    l.ID,
		"oid":      l.OrderID,
		"pid":      l.PartID,
		"quantity": l.Quantity,
		"price":    l.Price,
		"deleted":  l.Deleted,
	}
}
