package models

import (
	"github.com/shopspring/decimal"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name         string `gorm:"not null"                   json:"name"`
	Email        string `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string `gorm:"not null"                   json:"-"`
	Phone        string `json:"phone,omitempty"`
	Role         string `gorm:"not null;default:customer"  json:"role"`
	IsActive     bool   `gorm:"not null;default:true"      json:"is_active"`
	CreatedAt    int64  `gorm:"autoCreateTime"             json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	Token     string `gorm:"uniqueIndex;not null"  json:"-"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string          `gorm:"not null"                     json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  uint            `gorm:"index"                        json:"category_id"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                          json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"          json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"          json:"product_id"`
	Quantity  int  `gorm:"not null;check:quantity > 0"                         json:"quantity"`
}

type Order struct {
	ID             uint            `gorm:"primaryKey"                   json:"id"`
	UserID         uint            `gorm:"index;not null"               json:"user_id"`
	Status         OrderStatus     `gorm:"not null"                     json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"total"`
	AddressID      uint            `json:"address_id,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Carrier        string          `json:"carrier,omitempty"`
	CreatedAt      int64           `gorm:"autoCreateTime"               json:"created_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID"           json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                   json:"id"`
	OrderID   uint            `gorm:"index;not null"               json:"order_id"`
	ProductID uint            `gorm:"not null"                     json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"line_total"`
}

type Address struct {
	ID         uint   `gorm:"primaryKey"      json:"id"`
	UserID     uint   `gorm:"index;not null"  json:"user_id"`
	Street     string `gorm:"not null"        json:"street"`
	City       string `gorm:"not null"        json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `gorm:"not null"        json:"country"`
	PostalCode string `json:"postal_code,omitempty"`
}

type WishlistItem struct {
	ID        uint `gorm:"primaryKey"                                      json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_wishlist_user_product"  json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_wishlist_user_product"  json:"product_id"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey"                            json:"id"`
	UserID    uint   `gorm:"index;not null"                        json:"user_id"`
	ProductID uint   `gorm:"index;not null"                        json:"product_id"`
	Rating    int    `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt int64  `gorm:"autoCreateTime"                        json:"created_at"`
}
