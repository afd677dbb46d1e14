package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"go.uber.org/zap"
)

// 注文から評価対象の本を決める
type BookResolver interface {
	Resolve(ctx context.Context, o model.Order) (model.Book, error)
}

// 注文に保存したbook_idで引く（既定）
type BookByID struct {
	Books repo.BookRepository
}

func (r BookByID) Resolve(ctx context.Context, o model.Order) (model.Book, error) {
	return r.Books.FindByID(ctx, o.BookID)
}

// 注文時の書名で引く。改名・同名で別の本になることがある
type BookByName struct {
	Books repo.BookRepository
}

func (r BookByName) Resolve(ctx context.Context, o model.Order) (model.Book, error) {
	return r.Books.FindByName(ctx, o.BookName)
}

// RATING_BOOK_LOOKUP の値から選ぶ
func NewBookResolver(lookup string, books repo.BookRepository) (BookResolver, error) {
	switch lookup {
	case "", "id":
		return BookByID{Books: books}, nil
	case "name":
		return BookByName{Books: books}, nil
	default:
		return nil, fmt.Errorf("unknown rating book lookup %q", lookup)
	}
}

type BookRating struct {
	BookID        int64   `json:"book_id"`
	AverageRating float64 `json:"average_rating"`
	Ratings       int64   `json:"ratings"`
}

type RatingUsecase struct {
	ratings  repo.RatingRepository
	orders   repo.OrderRepository
	books    repo.BookRepository
	resolver BookResolver
	log      *zap.Logger
}

func NewRatingUsecase(
	ratings repo.RatingRepository,
	orders repo.OrderRepository,
	books repo.BookRepository,
	resolver BookResolver,
	log *zap.Logger,
) *RatingUsecase {
	return &RatingUsecase{
		ratings:  ratings,
		orders:   orders,
		books:    books,
		resolver: resolver,
		log:      log,
	}
}

// orderCodeはユーザーに見せている9文字の注文番号
func (u *RatingUsecase) AddRating(ctx context.Context, userID int64, orderCode string, value int) error {
	o, err := u.orders.FindByCodeAndUser(ctx, orderCode, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return dbError(u.log, "find order", err)
	}

	b, err := u.resolver.Resolve(ctx, o)
	if errors.Is(err, repo.ErrNotFound) {
		u.log.Warn("rated book not found", zap.String("order_code", orderCode), zap.Int64("book_id", o.BookID))
		return ErrBookNotFound
	}
	if err != nil {
		return dbError(u.log, "resolve book", err)
	}

	rated, err := u.ratings.Exists(ctx, o.ID, userID, b.ID)
	if err != nil {
		return dbError(u.log, "check rating", err)
	}
	if rated {
		return ErrAlreadyRated
	}
	if value < model.MinRating || value > model.MaxRating {
		return ErrInvalidRating
	}

	err = u.ratings.Create(ctx, model.Rating{
		UserID:     userID,
		BookID:     b.ID,
		OrderID:    o.ID,
		UserRating: value,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return ErrAlreadyRated
	}
	if err != nil {
		return dbError(u.log, "create rating", err)
	}

	u.log.Info("rating added", zap.Int64("user_id", userID), zap.Int64("book_id", b.ID), zap.String("order_code", orderCode))
	return nil
}

// 評価が1件も無ければ0ではなく404
func (u *RatingUsecase) AverageRating(ctx context.Context, bookID int64) (BookRating, error) {
	if _, err := u.books.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return BookRating{}, ErrBookNotFound
		}
		return BookRating{}, dbError(u.log, "find book", err)
	}

	avg, count, err := u.ratings.AverageByBookID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return BookRating{}, ErrNoRatings
	}
	if err != nil {
		return BookRating{}, dbError(u.log, "average rating", err)
	}

	return BookRating{BookID: bookID, AverageRating: avg, Ratings: count}, nil
}

type FeedbackUsecase struct {
	feedbacks repo.FeedbackRepository
	orders    repo.OrderRepository
	log       *zap.Logger
}

func NewFeedbackUsecase(feedbacks repo.FeedbackRepository, orders repo.OrderRepository, log *zap.Logger) *FeedbackUsecase {
	return &FeedbackUsecase{feedbacks: feedbacks, orders: orders, log: log}
}

// 注文したことがあるユーザーだけ、1回だけ
func (u *FeedbackUsecase) AddFeedback(ctx context.Context, userID int64, text string) error {
	n, err := u.orders.CountByUserID(ctx, userID)
	if err != nil {
		return dbError(u.log, "count orders", err)
	}
	if n == 0 {
		return ErrNoOrders
	}

	given, err := u.feedbacks.ExistsByUserID(ctx, userID)
	if err != nil {
		return dbError(u.log, "check feedback", err)
	}
	if given {
		return ErrFeedbackGiven
	}

	err = u.feedbacks.Create(ctx, model.Feedback{UserID: userID, UserFeedback: text})
	if errors.Is(err, repo.ErrDuplicate) {
		return ErrFeedbackGiven
	}
	if err != nil {
		return dbError(u.log, "create feedback", err)
	}

	u.log.Info("feedback added", zap.Int64("user_id", userID))
	return nil
}
