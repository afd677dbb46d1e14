package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"go.uber.org/zap"
)

// CartUsecase は /addbooktocart などの業務ロジックです。
// カート1行 = 1冊。注文済みかどうかはordersで判断します。
type CartUsecase struct {
	carts    repo.CartRepository
	books    repo.BookRepository
	tx       repo.TransactionManager
	cache    Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCartUsecase(
	carts repo.CartRepository,
	books repo.BookRepository,
	tx repo.TransactionManager,
	cache Cache,
	cacheTTL time.Duration,
	log *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		books:    books,
		tx:       tx,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

type AddCartInput struct {
	BookID int64
	// 省略時は1
	BookQuantity *int64
}

// AddToCart はカートに追加（同じ本の未注文カートがあれば409）。
// 本の行をロックしてから確認と追加をするので、同時に追加しても1行だけ
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (model.Cart, error) {
	var c model.Cart

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().FindByIDForUpdate(ctx, in.BookID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return err
		}

		qty := int64(1)
		if in.BookQuantity != nil {
			qty = *in.BookQuantity
			if qty <= 0 || qty > b.Quantity {
				u.log.Warn("cart quantity out of range", zap.Int64("book_id", b.ID), zap.Int64("quantity", qty), zap.Int64("stock", b.Quantity))
				return ErrCartQuantity
			}
		}

		exists, err := r.Carts().ExistsUnordered(ctx, userID, b.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrInCart
		}

		c, err = r.Carts().Create(ctx, model.Cart{
			UserID:       userID,
			BookID:       b.ID,
			BookQuantity: qty,
		})
		return err
	})
	if err != nil {
		if de, ok := AsDomainError(err); ok {
			u.log.Warn("add to cart rejected",
				zap.Int64("user_id", userID), zap.Int64("book_id", in.BookID), zap.String("reason", de.Message))
			return model.Cart{}, de
		}
		return model.Cart{}, dbError(u.log, "add to cart", err)
	}

	forget(ctx, u.cache, u.log, cartsCacheKey(userID))
	u.log.Info("book added to cart", zap.Int64("user_id", userID), zap.Int64("cart_id", c.ID), zap.Int64("book_id", in.BookID))
	return c, nil
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateCart(ctx context.Context, userID int64, cartID int64, qty int64) error {
	c, err := u.carts.FindByIDAndUser(ctx, cartID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCartNotFound
	}
	if err != nil {
		return dbError(u.log, "find cart", err)
	}

	b, err := u.books.FindByID(ctx, c.BookID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return dbError(u.log, "find book", err)
	}
	if qty <= 0 || qty > b.Quantity {
		u.log.Warn("cart quantity out of range", zap.Int64("cart_id", cartID), zap.Int64("quantity", qty), zap.Int64("stock", b.Quantity))
		return ErrCartQuantity
	}

	if err := u.carts.UpdateQuantity(ctx, cartID, userID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		return dbError(u.log, "update cart", err)
	}

	forget(ctx, u.cache, u.log, cartsCacheKey(userID))
	u.log.Info("cart updated", zap.Int64("user_id", userID), zap.Int64("cart_id", cartID))
	return nil
}

func (u *CartUsecase) DeleteCart(ctx context.Context, userID int64, cartID int64) error {
	if err := u.carts.Delete(ctx, cartID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		return dbError(u.log, "delete cart", err)
	}

	forget(ctx, u.cache, u.log, cartsCacheKey(userID))
	u.log.Info("cart deleted", zap.Int64("user_id", userID), zap.Int64("cart_id", cartID))
	return nil
}

// 本の情報とjoinした一覧
func (u *CartUsecase) ListCart(ctx context.Context, userID int64, page int) (Page[model.CartLine], error) {
	lines, err := remember(ctx, u.cache, u.log, cartsCacheKey(userID), u.cacheTTL, func() ([]model.CartLine, error) {
		return u.carts.ListLines(ctx, userID)
	})
	if err != nil {
		return Page[model.CartLine]{}, dbError(u.log, "list cart", err)
	}
	return paginate(lines, page), nil
}
