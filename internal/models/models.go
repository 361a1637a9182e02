package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"index;not null"           json:"username"`
	Email        string         `gorm:"index;not null"           json:"email"`
	PasswordHash string         `gorm:"not null"                 json:"-"`
	PasswordSalt string         `gorm:"not null"                 json:"-"`
	FullName     string         `json:"full_name"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index"                    json:"-"`
	Roles        []Role         `gorm:"many2many:user_roles"     json:"roles,omitempty"`
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

// RefreshToken rows are never deleted; consumed and revoked tokens stay
// around for replay detection.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint      `gorm:"index;not null"              json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null"        json:"token"`
	ExpiresAt time.Time `gorm:"not null"                    json:"expires_at"`
	Used      bool      `gorm:"default:false"               json:"used"`
	Revoked   bool      `gorm:"default:false"               json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"not null"                 json:"name"`
	Products []Product `json:"products,omitempty"`
}

// Price is stored in minor units (cents).
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       int64     `gorm:"not null"                 json:"price"`
	CategoryID  uint      `gorm:"index"                    json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const OrderStatusPending = "Pending"

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint        `gorm:"index;not null"              json:"user_id"`
	Status    string      `gorm:"not null"                    json:"status"`
	Total     int64       `gorm:"not null"                    json:"total"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments  []Payment   `json:"payments,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint   `gorm:"index;not null"           json:"order_id"`
	ProductID   uint   `gorm:"not null"                 json:"product_id"`
	ProductName string `gorm:"not null"                 json:"product_name"`
	Quantity    uint   `gorm:"not null"                 json:"quantity"`
	UnitPrice   int64  `gorm:"not null"                 json:"unit_price"`
	LineTotal   int64  `gorm:"not null"                 json:"line_total"`
}

type Payment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"index;not null"           json:"order_id"`
	Amount    int64     `gorm:"not null"                 json:"amount"`
	IntentID  string    `gorm:"uniqueIndex;not null"     json:"intent_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
