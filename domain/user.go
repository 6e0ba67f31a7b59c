package domain

import "time"

const (
	UserTypeFarmer   = "farmer"
	UserTypeMerchant = "merchant"
	UserTypeCustomer = "customer"
)

var validUserTypes = map[string]bool{
	UserTypeFarmer:   true,
	UserTypeMerchant: true,
	UserTypeCustomer: true,
}

// IsValidUserType reports whether t is one of the known user types.
func IsValidUserType(t string) bool {
	return validUserTypes[t]
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;unique;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	UserType  string    `gorm:"column:user_type;not null" json:"user_type"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	Address   string    `gorm:"column:address" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
