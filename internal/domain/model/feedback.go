package model

import "time"

// 1ユーザー1件のみ
type Feedback struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	UserFeedback string    `gorm:"type:text;not null" json:"user_feedback"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
