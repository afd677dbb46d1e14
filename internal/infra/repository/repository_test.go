package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/db/dbtest"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// helper
// =====================

func seedBook(t *testing.T, gdb *gorm.DB, name string, price, qty int64) model.Book {
	t.Helper()
	b, err := NewBookGormRepository(gdb).Create(context.Background(), model.Book{
		UserID:      1,
		Name:        name,
		Description: "description of " + name,
		Author:      "Some Author",
		Price:       price,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return b
}

// =====================
// Book
// =====================

func TestBookRepo_CreateDuplicateName(t *testing.T) {
	gdb := dbtest.New(t)
	seedBook(t, gdb, "Dune", 100, 10)

	_, err := NewBookGormRepository(gdb).Create(context.Background(), model.Book{
		UserID: 1, Name: "Dune", Description: "again", Author: "Frank Herbert", Price: 1, Quantity: 1,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestBookRepo_FindNotFound(t *testing.T) {
	r := NewBookGormRepository(dbtest.New(t))

	_, err := r.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.FindByName(context.Background(), "nothing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestBookRepo_ListSearchAndSort(t *testing.T) {
	gdb := dbtest.New(t)
	r := NewBookGormRepository(gdb)
	ctx := context.Background()

	seedBook(t, gdb, "Dune", 300, 1)
	seedBook(t, gdb, "Emma", 100, 1)
	b := seedBook(t, gdb, "Ulysses", 200, 1)
	b.Author = "James DUNEAWAY"
	require.NoError(t, r.Update(ctx, b))

	// name/authorのどちらでもヒット、大文字小文字は無視
	found, total, err := r.List(ctx, repo.BookListQuery{Page: 1, Limit: 4, Keyword: "dune"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	asc, _, err := r.List(ctx, repo.BookListQuery{Page: 1, Limit: 4, Sort: repo.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "Emma", asc[0].Name)
	assert.Equal(t, "Dune", asc[2].Name)

	desc, _, err := r.List(ctx, repo.BookListQuery{Page: 1, Limit: 4, Sort: repo.SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, "Dune", desc[0].Name)

	page2, total, err := r.List(ctx, repo.BookListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page2, 1)
}

func TestBookRepo_SearchWildcardsAreLiteral(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()
	r := NewBookGormRepository(gdb)
	seedBook(t, gdb, "100% Pure Go", 100, 1)
	seedBook(t, gdb, "snake_case Tales", 100, 1)
	seedBook(t, gdb, "Plain Title", 100, 1)

	cases := map[string][]string{
		"%":  {"100% Pure Go"},
		"_":  {"snake_case Tales"},
		`\`: {},
	}
	for kw, want := range cases {
		found, total, err := r.List(ctx, repo.BookListQuery{Page: 1, Limit: 4, Keyword: kw})
		require.NoError(t, err, kw)
		names := []string{}
		for _, b := range found {
			names = append(names, b.Name)
		}
		assert.Equal(t, want, names, kw)
		assert.Equal(t, int64(len(want)), total, kw)
	}
}

func TestBookRepo_FindByIDForUpdate(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()
	b := seedBook(t, gdb, "Locked Book", 100, 3)

	err := NewTxManagerGorm(gdb).WithinTx(ctx, func(tx repo.TxRepos) error {
		got, err := tx.Books().FindByIDForUpdate(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Locked Book", got.Name)

		_, err = tx.Books().FindByIDForUpdate(ctx, b.ID+100)
		assert.ErrorIs(t, err, repo.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestBookRepo_UpdateRenameCollision(t *testing.T) {
	gdb := dbtest.New(t)
	seedBook(t, gdb, "Dune", 100, 1)
	emma := seedBook(t, gdb, "Emma", 100, 1)

	emma.Name = "Dune"
	err := NewBookGormRepository(gdb).Update(context.Background(), emma)
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestBookRepo_Delete(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 1)
	r := NewBookGormRepository(gdb)

	require.NoError(t, r.Delete(context.Background(), b.ID))
	assert.ErrorIs(t, r.Delete(context.Background(), b.ID), repo.ErrNotFound)
}

// =====================
// Inventory
// =====================

func TestInventoryRepo_DecreaseIfEnough(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 3)
	inv := NewInventoryGormRepository(gdb)
	ctx := context.Background()

	ok, err := inv.DecreaseIfEnough(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// 残り1なので2は減らせない
	ok, err = inv.DecreaseIfEnough(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Quantity)

	require.NoError(t, inv.Increase(ctx, b.ID, 4))
	got, _ = NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	assert.Equal(t, int64(5), got.Quantity)

	assert.ErrorIs(t, inv.Increase(ctx, 999, 1), repo.ErrNotFound)

	require.NoError(t, inv.SetQuantity(ctx, b.ID, 12))
	got, _ = NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	assert.Equal(t, int64(12), got.Quantity)
	assert.ErrorIs(t, inv.SetQuantity(ctx, 999, 1), repo.ErrNotFound)
}

func TestInventoryRepo_Movements(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 3)
	inv := NewInventoryGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, inv.RecordMovement(ctx, model.StockMovement{BookID: b.ID, ActorUserID: 1, Delta: 5, Reason: model.StockReasonRestock}))
	require.NoError(t, inv.RecordMovement(ctx, model.StockMovement{BookID: b.ID, ActorUserID: 2, Delta: -1, Reason: model.StockReasonOrderPlaced, OrderCode: "abcdefghi"}))

	list, err := inv.ListMovements(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(-1), list[1].Delta)
	assert.Equal(t, "abcdefghi", list[1].OrderCode)
}

// =====================
// Cart / Order
// =====================

func TestCartRepo_ExistsUnorderedIgnoresOrderedCarts(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 10)
	carts := NewCartGormRepository(gdb)
	orders := NewOrderGormRepository(gdb)
	ctx := context.Background()

	c, err := carts.Create(ctx, model.Cart{UserID: 7, BookID: b.ID, BookQuantity: 2})
	require.NoError(t, err)

	exists, err := carts.ExistsUnordered(ctx, 7, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = orders.Create(ctx, model.Order{
		UserID: 7, CartID: c.ID, AddressID: 1, BookID: b.ID, BookName: b.Name,
		Quantity: 2, TotalPrice: 200, OrderCode: "abcdefghi",
	})
	require.NoError(t, err)

	exists, err = carts.ExistsUnordered(ctx, 7, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCartRepo_ScopedByUser(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 10)
	carts := NewCartGormRepository(gdb)
	ctx := context.Background()

	c, err := carts.Create(ctx, model.Cart{UserID: 7, BookID: b.ID, BookQuantity: 1})
	require.NoError(t, err)

	_, err = carts.FindByIDAndUser(ctx, c.ID, 8)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, carts.UpdateQuantity(ctx, c.ID, 8, 3), repo.ErrNotFound)
	assert.ErrorIs(t, carts.Delete(ctx, c.ID, 8), repo.ErrNotFound)

	require.NoError(t, carts.UpdateQuantity(ctx, c.ID, 7, 3))

	lines, err := carts.ListLines(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].BookQuantity)
	assert.Equal(t, "Dune", lines[0].Name)
	assert.Equal(t, int64(100), lines[0].Price)

	require.NoError(t, carts.Delete(ctx, c.ID, 7))
}

func TestOrderRepo_UniqueCartAndCode(t *testing.T) {
	gdb := dbtest.New(t)
	orders := NewOrderGormRepository(gdb)
	ctx := context.Background()

	base := model.Order{UserID: 7, CartID: 1, AddressID: 1, BookID: 1, BookName: "Dune", Quantity: 1, TotalPrice: 100, OrderCode: "abcdefghi"}
	first, err := orders.Create(ctx, base)
	require.NoError(t, err)

	dupCart := base
	dupCart.OrderCode = "zzzzzzzzz"
	_, err = orders.Create(ctx, dupCart)
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	dupCode := base
	dupCode.CartID = 2
	_, err = orders.Create(ctx, dupCode)
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	exists, err := orders.ExistsByCode(ctx, "abcdefghi")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = orders.FindByCodeAndUser(ctx, "abcdefghi", 8)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	got, err := orders.FindByCartID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	n, err := orders.CountByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, orders.Delete(ctx, first.ID))
	assert.ErrorIs(t, orders.Delete(ctx, first.ID), repo.ErrNotFound)
}

// =====================
// Rating / Feedback
// =====================

func TestRatingRepo_Average(t *testing.T) {
	gdb := dbtest.New(t)
	ratings := NewRatingGormRepository(gdb)
	ctx := context.Background()

	_, _, err := ratings.AverageByBookID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, ratings.Create(ctx, model.Rating{UserID: 1, BookID: 1, OrderID: 1, UserRating: 4}))
	require.NoError(t, ratings.Create(ctx, model.Rating{UserID: 2, BookID: 1, OrderID: 2, UserRating: 1}))

	avg, n, err := ratings.AverageByBookID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.InDelta(t, 2.5, avg, 0.0001)

	err = ratings.Create(ctx, model.Rating{UserID: 1, BookID: 1, OrderID: 1, UserRating: 2})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	exists, err := ratings.Exists(ctx, 1, 1, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFeedbackRepo_OnePerUser(t *testing.T) {
	gdb := dbtest.New(t)
	fb := NewFeedbackGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, fb.Create(ctx, model.Feedback{UserID: 1, UserFeedback: "great store"}))
	assert.ErrorIs(t, fb.Create(ctx, model.Feedback{UserID: 1, UserFeedback: "again"}), repo.ErrDuplicate)

	exists, err := fb.ExistsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

// =====================
// User / PasswordReset
// =====================

func TestUserRepo(t *testing.T) {
	gdb := dbtest.New(t)
	users := NewUserGormRepository(gdb)
	ctx := context.Background()

	u := &model.User{FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "9999999999", Email: "ada@example.com", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &model.User{FirstName: "Ada", LastName: "Two", PhoneNumber: "9999999999", Email: "ada@example.com", PasswordHash: "y", Role: model.RoleUser}
	assert.ErrorIs(t, users.Create(ctx, dup), repo.ErrDuplicate)

	_, err := users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, users.IncrementTokenVersion(ctx, u.ID))
	require.NoError(t, users.UpdatePassword(ctx, u.ID, "new-hash"))

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TokenVersion)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, users.IncrementTokenVersion(ctx, 999), repo.ErrNotFound)
}

func TestPasswordResetRepo_MarkUsedOnce(t *testing.T) {
	gdb := dbtest.New(t)
	r := NewPasswordResetRepository(gdb)
	ctx := context.Background()

	tok := &model.PasswordResetToken{ID: "t-1", UserID: 1, TokenHash: "hash", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, r.Create(ctx, tok))

	got, err := r.FindByTokenHash(ctx, "hash")
	require.NoError(t, err)
	assert.Nil(t, got.UsedAt)

	require.NoError(t, r.MarkUsed(ctx, "t-1", time.Now()))
	assert.ErrorIs(t, r.MarkUsed(ctx, "t-1", time.Now()), repo.ErrNotFound)

	_, err = r.FindByTokenHash(ctx, "other")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// Tx
// =====================

func TestTxManager_RollbackOnError(t *testing.T) {
	gdb := dbtest.New(t)
	b := seedBook(t, gdb, "Dune", 100, 5)
	tm := NewTxManagerGorm(gdb)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Inventory().DecreaseIfEnough(ctx, b.ID, 5)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
}
