package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

// カートはすべてuser_idでスコープする
type CartRepository interface {
	Create(ctx context.Context, c model.Cart) (model.Cart, error)
	FindByIDAndUser(ctx context.Context, id int64, userID int64) (model.Cart, error)
	// まだ注文されていない同じ本のカートがあるか
	ExistsUnordered(ctx context.Context, userID int64, bookID int64) (bool, error)
	UpdateQuantity(ctx context.Context, id int64, userID int64, qty int64) error
	Delete(ctx context.Context, id int64, userID int64) error
	ListLines(ctx context.Context, userID int64) ([]model.CartLine, error)
}
