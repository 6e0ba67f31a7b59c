package domain

import "time"

// Admin is a separate principal from User, used only for moderation and
// statistics access.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;unique;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
