package repository

import (
	"context"
	"errors"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// unique制約違反
	ErrDuplicate = errors.New("duplicate")
)

const (
	SortDefault   = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// 一覧検索
type BookListQuery struct {
	Page    int
	Limit   int
	Keyword string
	Sort    string
}

// 書籍の保存・取得だけを約束。在庫の増減はInventoryRepository
type BookRepository interface {
	ListAll(ctx context.Context) ([]model.Book, error)
	List(ctx context.Context, q BookListQuery) ([]model.Book, int64, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	// Tx内で使う。行ロック（FOR UPDATE）付き
	FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error)
	FindByName(ctx context.Context, name string) (model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
	Delete(ctx context.Context, id int64) error
}
