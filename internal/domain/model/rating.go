package model

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

// (order_id, user_id, book_id) で1件だけ
type Rating struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_ratings_order_user_book,priority:2" json:"user_id"`
	BookID     int64     `gorm:"not null;index;uniqueIndex:idx_ratings_order_user_book,priority:3" json:"book_id"`
	OrderID    int64     `gorm:"not null;uniqueIndex:idx_ratings_order_user_book,priority:1" json:"order_id"`
	UserRating int       `gorm:"not null;check:user_rating >= 0 AND user_rating <= 5" json:"user_rating"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
