package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

// 在庫（books.quantity）の増減と履歴
type InventoryRepository interface {
	// 在庫が足りるときだけ減らす。足りなければfalse
	DecreaseIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error)
	Increase(ctx context.Context, bookID int64, qty int64) error
	// 書籍更新で在庫を上書き
	SetQuantity(ctx context.Context, bookID int64, qty int64) error
	RecordMovement(ctx context.Context, m model.StockMovement) error
	ListMovements(ctx context.Context, bookID int64) ([]model.StockMovement, error)
}
