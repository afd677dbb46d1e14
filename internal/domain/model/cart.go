package model

import "time"

// 1行 = 1冊分のカート
// 注文済みかどうかはordersのcart_idで判断する
type Cart struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	BookID       int64     `gorm:"not null;index" json:"book_id"`
	BookQuantity int64     `gorm:"not null;default:1" json:"book_quantity"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カート一覧（booksとjoin）
type CartLine struct {
	ID           int64  `json:"id"`
	BookID       int64  `json:"book_id"`
	BookQuantity int64  `json:"book_quantity"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	Image        string `json:"image"`
	Price        int64  `json:"price"`
}
