package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

type RatingRepository interface {
	Create(ctx context.Context, r model.Rating) error
	Exists(ctx context.Context, orderID int64, userID int64, bookID int64) (bool, error)
	// 件数0なら ErrNotFound
	AverageByBookID(ctx context.Context, bookID int64) (float64, int64, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, f model.Feedback) error
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
}
