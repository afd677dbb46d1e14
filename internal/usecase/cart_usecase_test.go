package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCartUsecaseForTest() (*CartUsecase, *CartRepoMock, *BookRepoMock, *memCache) {
	tx := newFakeTx()
	cache := newMemCache()
	return NewCartUsecase(tx.carts, tx.books, tx, cache, time.Hour, zap.NewNop()), tx.carts, tx.books, cache
}

func TestCartUsecase_AddToCart(t *testing.T) {
	ctx := context.Background()
	book := model.Book{ID: 2, Quantity: 3}

	t.Run("404: 本が無い", func(t *testing.T) {
		uc, _, books, _ := newCartUsecaseForTest()
		books.On("FindByIDForUpdate", ctx, int64(2)).Return(model.Book{}, repo.ErrNotFound)

		_, err := uc.AddToCart(ctx, 1, AddCartInput{BookID: 2})
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("406: 数量が範囲外", func(t *testing.T) {
		for _, q := range []int64{0, -1, 4} {
			uc, carts, books, _ := newCartUsecaseForTest()
			books.On("FindByIDForUpdate", ctx, int64(2)).Return(book, nil)

			qty := q
			_, err := uc.AddToCart(ctx, 1, AddCartInput{BookID: 2, BookQuantity: &qty})
			assert.Equal(t, ErrCartQuantity, err, q)
			carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("409: 未注文のカートがすでにある", func(t *testing.T) {
		uc, carts, books, _ := newCartUsecaseForTest()
		books.On("FindByIDForUpdate", ctx, int64(2)).Return(book, nil)
		carts.On("ExistsUnordered", ctx, int64(1), int64(2)).Return(true, nil)

		_, err := uc.AddToCart(ctx, 1, AddCartInput{BookID: 2})
		assert.Equal(t, ErrInCart, err)
		carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("500: DBエラー", func(t *testing.T) {
		uc, carts, books, _ := newCartUsecaseForTest()
		books.On("FindByIDForUpdate", ctx, int64(2)).Return(book, nil)
		carts.On("ExistsUnordered", ctx, int64(1), int64(2)).Return(false, errors.New("conn reset"))

		_, err := uc.AddToCart(ctx, 1, AddCartInput{BookID: 2})
		assert.Equal(t, ErrInternal, err)
	})

	t.Run("ok: 省略時は1、在庫上限ちょうどもOK", func(t *testing.T) {
		uc, carts, books, cache := newCartUsecaseForTest()
		_ = cache.Set(ctx, cartsCacheKey(1), []model.CartLine{}, time.Hour)
		books.On("FindByIDForUpdate", ctx, int64(2)).Return(book, nil)
		carts.On("ExistsUnordered", ctx, int64(1), int64(2)).Return(false, nil)
		carts.On("Create", ctx, model.Cart{UserID: 1, BookID: 2, BookQuantity: 1}).Return(model.Cart{ID: 10, BookQuantity: 1}, nil)
		carts.On("Create", ctx, model.Cart{UserID: 1, BookID: 2, BookQuantity: 3}).Return(model.Cart{ID: 11, BookQuantity: 3}, nil)

		c, err := uc.AddToCart(ctx, 1, AddCartInput{BookID: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(10), c.ID)
		assert.False(t, cache.has(cartsCacheKey(1)))

		qty := int64(3)
		c, err = uc.AddToCart(ctx, 1, AddCartInput{BookID: 2, BookQuantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, int64(11), c.ID)
	})
}

func TestCartUsecase_UpdateCart(t *testing.T) {
	ctx := context.Background()

	t.Run("404: 他人のカート", func(t *testing.T) {
		uc, carts, _, _ := newCartUsecaseForTest()
		carts.On("FindByIDAndUser", ctx, int64(10), int64(1)).Return(model.Cart{}, repo.ErrNotFound)

		assert.Equal(t, ErrCartNotFound, uc.UpdateCart(ctx, 1, 10, 2))
	})

	t.Run("406: 在庫を超える", func(t *testing.T) {
		uc, carts, books, _ := newCartUsecaseForTest()
		carts.On("FindByIDAndUser", ctx, int64(10), int64(1)).Return(model.Cart{ID: 10, BookID: 2}, nil)
		books.On("FindByID", ctx, int64(2)).Return(model.Book{ID: 2, Quantity: 3}, nil)

		assert.Equal(t, ErrCartQuantity, uc.UpdateCart(ctx, 1, 10, 4))
		assert.Equal(t, ErrCartQuantity, uc.UpdateCart(ctx, 1, 10, 0))
	})

	t.Run("ok", func(t *testing.T) {
		uc, carts, books, _ := newCartUsecaseForTest()
		carts.On("FindByIDAndUser", ctx, int64(10), int64(1)).Return(model.Cart{ID: 10, BookID: 2}, nil)
		books.On("FindByID", ctx, int64(2)).Return(model.Book{ID: 2, Quantity: 3}, nil)
		carts.On("UpdateQuantity", ctx, int64(10), int64(1), int64(3)).Return(nil)

		require.NoError(t, uc.UpdateCart(ctx, 1, 10, 3))
		carts.AssertExpectations(t)
	})
}

func TestCartUsecase_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	uc, carts, _, _ := newCartUsecaseForTest()

	carts.On("Delete", ctx, int64(10), int64(1)).Return(repo.ErrNotFound).Once()
	assert.Equal(t, ErrCartNotFound, uc.DeleteCart(ctx, 1, 10))

	lines := []model.CartLine{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	carts.On("ListLines", ctx, int64(1)).Return(lines, nil).Once()
	p, err := uc.ListCart(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, p.Data, 1)
	assert.Equal(t, int64(5), p.Data[0].ID)

	//削除でキャッシュが消え、次の一覧はDBから
	carts.On("Delete", ctx, int64(5), int64(1)).Return(nil).Once()
	require.NoError(t, uc.DeleteCart(ctx, 1, 5))
	carts.On("ListLines", ctx, int64(1)).Return(lines[:4], nil).Once()
	p, err = uc.ListCart(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Total)
	carts.AssertExpectations(t)
}
