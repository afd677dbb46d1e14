package model

import "time"

type StockReason string

const (
	StockReasonRestock     StockReason = "RESTOCK"
	StockReasonAdjust      StockReason = "ADJUSTED"
	StockReasonOrderPlaced StockReason = "ORDER_PLACED"
	StockReasonOrderCancel StockReason = "ORDER_CANCELLED"
)

// 在庫増減の履歴
// ActorUserIDは補充なら管理者、注文/キャンセルなら注文者
type StockMovement struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID      int64       `gorm:"not null;index" json:"book_id"`
	ActorUserID int64       `gorm:"not null;index" json:"actor_user_id"`
	Delta       int64       `gorm:"not null" json:"delta"`
	Reason      StockReason `gorm:"type:varchar(30);not null" json:"reason"`
	OrderCode   string      `gorm:"type:varchar(9)" json:"order_code"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
