package repository

import (
	"context"
	"strings"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// キャッシュ用の全件（id順）
func (r *BookGormRepository) ListAll(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// 検索/ソート/ページング付き
func (r *BookGormRepository) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Book{})

	// name/author/descriptionのどれかに部分一致（大文字小文字は無視）
	if kw := strings.ToLower(strings.TrimSpace(q.Keyword)); kw != "" {
		like := "%" + escapeLike(kw) + "%"
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Book{}, 0, err
	}

	switch q.Sort {
	case repo.SortPriceAsc:
		tx = tx.Order("price asc").Order("id asc")
	case repo.SortPriceDesc:
		tx = tx.Order("price desc").Order("id asc")
	default:
		tx = tx.Order("id asc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&books).Error; err != nil {
		return []model.Book{}, 0, err
	}

	return books, total, nil
}

// 検索語の % と _ は文字としてマッチさせる
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// IDで取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 行ロックして取得（sqliteではロック句は付かない）
func (r *BookGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 名前で取得（名前はunique）
func (r *BookGormRepository) FindByName(ctx context.Context, name string) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&b).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 在庫以外の項目を更新（quantityはInventoryで増減する）
func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":        b.Name,
		"description": b.Description,
		"author":      b.Author,
		"price":       b.Price,
		"image":       b.Image,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
