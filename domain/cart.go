package domain

import "time"

// Cart is a single cart line: a pending reservation of product quantity
// awaiting conversion to an Order. TotalPrice is always recomputed from
// quantity and the product price, never set independently.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductID  uint      `gorm:"column:product_id;not null" json:"product_id"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	TotalPrice float64   `gorm:"column:total_price;not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartLineView is the cart listing shape returned to the client.
type CartLineView struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	TotalPrice   float64   `json:"total_price"`
	SellerName   string    `json:"seller_name"`
	CreatedAt    time.Time `json:"created_at"`
}
