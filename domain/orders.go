package domain

import "time"

const (
	OrderStatusPending         = "pending"
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusConfirmed       = "confirmed"
	OrderStatusPreparing       = "preparing"
	OrderStatusDelivered       = "delivered"
)

var validOrderStatuses = map[string]bool{
	OrderStatusPending:         true,
	OrderStatusAwaitingPayment: true,
	OrderStatusConfirmed:       true,
	OrderStatusPreparing:       true,
	OrderStatusDelivered:       true,
}

// IsValidOrderStatus reports whether s belongs to the closed order status set.
func IsValidOrderStatus(s string) bool {
	return validOrderStatuses[s]
}

type Orders struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BuyerID          uint      `gorm:"column:buyer_id;not null;index" json:"buyer_id"`
	ProductID        uint      `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity         int       `gorm:"column:quantity;not null" json:"quantity"`
	TotalPrice       float64   `gorm:"column:total_price;not null" json:"total_price"`
	PeelingRequested bool      `gorm:"column:peeling_requested;default:false" json:"peeling_requested"`
	Status           string    `gorm:"column:status;default:pending" json:"status"`
	DeliveryAddress  string    `gorm:"column:delivery_address;not null" json:"delivery_address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Orders) TableName() string {
	return "orders"
}
