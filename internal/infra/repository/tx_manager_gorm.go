package repository

import (
	"context"

	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books     repo.BookRepository
	inventory repo.InventoryRepository
	carts     repo.CartRepository
	addresses repo.AddressRepository
	orders    repo.OrderRepository
}

func (r *txReposGorm) Books() repo.BookRepository          { return r.books }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }
func (r *txReposGorm) Carts() repo.CartRepository          { return r.carts }
func (r *txReposGorm) Addresses() repo.AddressRepository   { return r.addresses }
func (r *txReposGorm) Orders() repo.OrderRepository        { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			books:     NewBookGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
			carts:     NewCartGormRepository(tx),
			addresses: NewAddressGormRepository(tx),
			orders:    NewOrderGormRepository(tx),
		}
		return fn(r)
	})
}
