package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)

	//ユーザーが持つ住所一覧を返す
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)

	//他人の住所はErrNotFound
	FindByIDAndUser(ctx context.Context, addressID int64, userID int64) (model.Address, error)

	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, addressID int64, userID int64) error
}
