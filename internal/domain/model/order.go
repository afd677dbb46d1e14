package model

import "time"

// ユーザーに見せる注文番号の長さ
const OrderCodeLength = 9

// キャンセルは物理削除なのでステータスは持たない
// BookID/BookName/Quantityは注文時点のスナップショット
type Order struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	CartID     int64     `gorm:"not null;uniqueIndex" json:"cart_id"`
	AddressID  int64     `gorm:"not null" json:"address_id"`
	BookID     int64     `gorm:"not null;index" json:"book_id"`
	BookName   string    `gorm:"type:varchar(50);not null" json:"book_name"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	OrderCode  string    `gorm:"type:varchar(9);not null;uniqueIndex" json:"order_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
