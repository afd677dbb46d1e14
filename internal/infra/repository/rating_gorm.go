package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

// 同じ(order, user, book)はErrDuplicate
func (r *RatingGormRepository) Create(ctx context.Context, rating model.Rating) error {
	return translate(r.db.WithContext(ctx).Create(&rating).Error)
}

func (r *RatingGormRepository) Exists(ctx context.Context, orderID int64, userID int64, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("order_id = ? AND user_id = ? AND book_id = ?", orderID, userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type ratingAggregate struct {
	Average     float64
	RatingCount int64
}

// 評価が1件も無ければErrNotFound（0点とは区別する）
func (r *RatingGormRepository) AverageByBookID(ctx context.Context, bookID int64) (float64, int64, error) {
	var agg ratingAggregate
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(user_rating), 0) AS average, COUNT(*) AS rating_count").
		Where("book_id = ?", bookID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	if agg.RatingCount == 0 {
		return 0, 0, repo.ErrNotFound
	}
	return agg.Average, agg.RatingCount, nil
}

type FeedbackGormRepository struct {
	db *gorm.DB
}

func NewFeedbackGormRepository(db *gorm.DB) *FeedbackGormRepository {
	return &FeedbackGormRepository{db: db}
}

// 2件目はErrDuplicate
func (r *FeedbackGormRepository) Create(ctx context.Context, f model.Feedback) error {
	return translate(r.db.WithContext(ctx).Create(&f).Error)
}

func (r *FeedbackGormRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
