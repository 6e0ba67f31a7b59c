package domain

import "time"

type Product struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"column:name;not null" json:"name"`
	Description      string     `gorm:"column:description;type:text" json:"description,omitempty"`
	Price            float64    `gorm:"column:price;not null" json:"price"`
	Quantity         int        `gorm:"column:quantity;not null" json:"quantity"`
	Unit             string     `gorm:"column:unit;not null" json:"unit"`
	SellerID         uint       `gorm:"column:seller_id;not null;index" json:"seller_id"`
	PeelingAvailable bool       `gorm:"column:peeling_available;default:false" json:"peeling_available"`
	PeelingPrice     float64    `gorm:"column:peeling_price;default:0" json:"peeling_price"`
	ProductImage     []byte     `gorm:"column:product_image" json:"-"`
	ValidatedByAdmin bool       `gorm:"column:validated_by_admin;default:false" json:"validated_by_admin"`
	ValidationDate   *time.Time `gorm:"column:validation_date" json:"validation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductUpdate is the allow-listed set of updatable product fields.
// Unknown JSON keys are dropped at bind time and never reach the store.
type ProductUpdate struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price"`
	Quantity         *int     `json:"quantity"`
	Unit             *string  `json:"unit"`
	PeelingAvailable *bool    `json:"peeling_available"`
	PeelingPrice     *float64 `json:"peeling_price"`
}
