package model

import "time"

// 書籍（quantityが在庫）
// UserIDは登録した管理者
type Book struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Author      string    `gorm:"type:varchar(50);not null" json:"author"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	Price       int64     `gorm:"not null" json:"price"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
