package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

type OrderRepository interface {
	// cart_id / order_code の重複はErrDuplicate
	Create(ctx context.Context, o model.Order) (model.Order, error)
	FindByCartID(ctx context.Context, cartID int64) (model.Order, error)
	FindByCodeAndUser(ctx context.Context, code string, userID int64) (model.Order, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	Delete(ctx context.Context, id int64) error
}
