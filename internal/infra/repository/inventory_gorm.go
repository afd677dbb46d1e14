package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす
// 条件付きUPDATE1本なので同時注文でもマイナスにならない
func (r *InventoryGormRepository) DecreaseIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND quantity >= ?", bookID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（補充・キャンセル）
func (r *InventoryGormRepository) Increase(ctx context.Context, bookID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) SetQuantity(ctx context.Context, bookID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 履歴作成
func (r *InventoryGormRepository) RecordMovement(ctx context.Context, m model.StockMovement) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *InventoryGormRepository) ListMovements(ctx context.Context, bookID int64) ([]model.StockMovement, error) {
	var out []model.StockMovement
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("id asc").
		Find(&out).Error; err != nil {
		return []model.StockMovement{}, err
	}
	return out, nil
}
