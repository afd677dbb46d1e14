package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) Create(ctx context.Context, c model.Cart) (model.Cart, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Cart{}, translate(err)
	}
	return c, nil
}

// 他人のカートはErrNotFound
func (r *CartGormRepository) FindByIDAndUser(ctx context.Context, id int64, userID int64) (model.Cart, error) {
	var c model.Cart
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return c, nil
}

// 注文済みのカートは数えない
func (r *CartGormRepository) ExistsUnordered(ctx context.Context, userID int64, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.cart_id = carts.id)").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, id int64, userID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("book_quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) Delete(ctx context.Context, id int64, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Cart{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// booksとjoinして本の情報も返す（削除済みの本の行は出さない）
func (r *CartGormRepository) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	err := r.db.WithContext(ctx).
		Table("carts").
		Select("carts.id, carts.book_id, carts.book_quantity, books.name, books.description, books.author, books.image, books.price").
		Joins("join books on books.id = carts.book_id").
		Where("carts.user_id = ?", userID).
		Order("carts.id asc").
		Scan(&lines).Error
	if err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}
