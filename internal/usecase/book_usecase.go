package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"go.uber.org/zap"
)

type BookUsecase struct {
	books    repo.BookRepository
	tx       repo.TransactionManager
	images   ImageStore
	cache    Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// DI
func NewBookUsecase(
	books repo.BookRepository,
	tx repo.TransactionManager,
	images ImageStore,
	cache Cache,
	cacheTTL time.Duration,
	log *zap.Logger,
) *BookUsecase {
	return &BookUsecase{
		books:    books,
		tx:       tx,
		images:   images,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// multipartで受け取った画像
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// addbook / updatebook の入力
type BookInput struct {
	Name        string
	Description string
	Author      string
	Price       int64
	Quantity    int64
	Image       *ImageUpload
}

func (u *BookUsecase) AddBook(ctx context.Context, adminID int64, in BookInput) (model.Book, error) {
	name := strings.TrimSpace(in.Name)

	//同名の本は登録できない
	if _, err := u.books.FindByName(ctx, name); err == nil {
		u.log.Warn("book already exists", zap.String("name", name))
		return model.Book{}, ErrBookExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, u.dbError("find book by name", err)
	}
	if in.Price <= 0 {
		return model.Book{}, ErrInvalidPrice
	}
	if in.Quantity <= 0 {
		return model.Book{}, ErrInvalidQuantity
	}

	imageURL, err := u.saveImage(ctx, in.Image)
	if err != nil {
		return model.Book{}, err
	}

	b, err := u.books.Create(ctx, model.Book{
		UserID:      adminID,
		Name:        name,
		Description: in.Description,
		Author:      in.Author,
		Image:       imageURL,
		Price:       in.Price,
		Quantity:    in.Quantity,
	})
	if err != nil {
		u.releaseImage(ctx, imageURL)
		//同時登録で負けた
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Book{}, ErrBookExists
		}
		return model.Book{}, u.dbError("create book", err)
	}

	forget(ctx, u.cache, u.log, cacheKeyBooks)
	u.log.Info("book added", zap.Int64("admin_id", adminID), zap.Int64("book_id", b.ID))
	return b, nil
}

// 自分が登録した本だけ更新できる。quantityは上書き
func (u *BookUsecase) UpdateBook(ctx context.Context, adminID int64, bookID int64, in BookInput) (model.Book, error) {
	current, err := u.ownBook(ctx, adminID, bookID)
	if err != nil {
		return model.Book{}, err
	}

	name := strings.TrimSpace(in.Name)
	if other, err := u.books.FindByName(ctx, name); err == nil && other.ID != bookID {
		u.log.Warn("book name taken", zap.String("name", name), zap.Int64("book_id", other.ID))
		return model.Book{}, ErrBookExists
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, u.dbError("find book by name", err)
	}
	if in.Price <= 0 {
		return model.Book{}, ErrInvalidPrice
	}
	if in.Quantity <= 0 {
		return model.Book{}, ErrInvalidQuantity
	}

	newImage, err := u.saveImage(ctx, in.Image)
	if err != nil {
		return model.Book{}, err
	}

	updated := current
	updated.Name = name
	updated.Description = in.Description
	updated.Author = in.Author
	updated.Price = in.Price
	updated.Quantity = in.Quantity
	if newImage != "" {
		updated.Image = newImage
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Books().Update(ctx, updated); err != nil {
			return err
		}
		if err := r.Inventory().SetQuantity(ctx, bookID, in.Quantity); err != nil {
			return err
		}
		delta := in.Quantity - current.Quantity
		if delta == 0 {
			return nil
		}
		return r.Inventory().RecordMovement(ctx, model.StockMovement{
			BookID:      bookID,
			ActorUserID: adminID,
			Delta:       delta,
			Reason:      model.StockReasonAdjust,
		})
	})
	if err != nil {
		u.releaseImage(ctx, newImage)
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return model.Book{}, ErrBookExists
		case errors.Is(err, repo.ErrNotFound):
			return model.Book{}, ErrBookNotFound
		}
		return model.Book{}, u.dbError("update book", err)
	}

	//差し替えた古い画像は消す
	if newImage != "" {
		u.releaseImage(ctx, current.Image)
	}

	forget(ctx, u.cache, u.log, cacheKeyBooks)
	u.log.Info("book updated", zap.Int64("admin_id", adminID), zap.Int64("book_id", bookID))
	return updated, nil
}

func (u *BookUsecase) AddQuantity(ctx context.Context, adminID int64, bookID int64, qty int64) error {
	if _, err := u.ownBook(ctx, adminID, bookID); err != nil {
		return err
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Inventory().Increase(ctx, bookID, qty); err != nil {
			return err
		}
		return r.Inventory().RecordMovement(ctx, model.StockMovement{
			BookID:      bookID,
			ActorUserID: adminID,
			Delta:       qty,
			Reason:      model.StockReasonRestock,
		})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return u.dbError("add quantity", err)
	}

	forget(ctx, u.cache, u.log, cacheKeyBooks)
	u.log.Info("book quantity added", zap.Int64("book_id", bookID), zap.Int64("quantity", qty))
	return nil
}

func (u *BookUsecase) DeleteBook(ctx context.Context, adminID int64, bookID int64) error {
	b, err := u.ownBook(ctx, adminID, bookID)
	if err != nil {
		return err
	}

	if err := u.books.Delete(ctx, bookID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBookNotFound
		}
		return u.dbError("delete book", err)
	}
	u.releaseImage(ctx, b.Image)

	forget(ctx, u.cache, u.log, cacheKeyBooks)
	u.log.Info("book deleted", zap.Int64("admin_id", adminID), zap.Int64("book_id", bookID))
	return nil
}

// 全件はキャッシュから
func (u *BookUsecase) ListBooks(ctx context.Context, page int) (Page[model.Book], error) {
	all, err := remember(ctx, u.cache, u.log, cacheKeyBooks, u.cacheTTL, func() ([]model.Book, error) {
		return u.books.ListAll(ctx)
	})
	if err != nil {
		return Page[model.Book]{}, u.dbError("list books", err)
	}
	return paginate(all, page), nil
}

// name/author/descriptionの部分一致(OR)
func (u *BookUsecase) SearchBooks(ctx context.Context, keyword string, page int) (Page[model.Book], error) {
	return u.list(ctx, repo.BookListQuery{
		Keyword: strings.TrimSpace(keyword),
		Sort:    repo.SortDefault,
	}, page)
}

func (u *BookUsecase) SortByPrice(ctx context.Context, sort string, page int) (Page[model.Book], error) {
	if sort != repo.SortPriceAsc && sort != repo.SortPriceDesc {
		return Page[model.Book]{}, NewDomainError(http.StatusBadRequest, "invalid sort")
	}
	return u.list(ctx, repo.BookListQuery{Sort: sort}, page)
}

func (u *BookUsecase) list(ctx context.Context, q repo.BookListQuery, page int) (Page[model.Book], error) {
	q.Page = normalizePage(page)
	q.Limit = PageSize

	items, total, err := u.books.List(ctx, q)
	if err != nil {
		return Page[model.Book]{}, u.dbError("list books", err)
	}
	return newPage(items, total, q.Page), nil
}

// 他の管理者の本は「無い」扱い
func (u *BookUsecase) ownBook(ctx context.Context, adminID int64, bookID int64) (model.Book, error) {
	b, err := u.books.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && b.UserID != adminID) {
		u.log.Warn("book not found", zap.Int64("admin_id", adminID), zap.Int64("book_id", bookID))
		return model.Book{}, ErrBookNotFound
	}
	if err != nil {
		return model.Book{}, u.dbError("find book", err)
	}
	return b, nil
}

func (u *BookUsecase) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || u.images == nil {
		return "", nil
	}
	url, err := u.images.Save(ctx, img.Filename, img.Body)
	if err != nil {
		u.log.Error("save book image failed", zap.String("filename", img.Filename), zap.Error(err))
		return "", ErrInternal
	}
	return url, nil
}

// 画像削除の失敗はログだけ
func (u *BookUsecase) releaseImage(ctx context.Context, url string) {
	if url == "" || u.images == nil {
		return
	}
	if err := u.images.Delete(ctx, url); err != nil {
		u.log.Warn("delete book image failed", zap.String("url", url), zap.Error(err))
	}
}

func (u *BookUsecase) dbError(op string, err error) error {
	return dbError(u.log, op, err)
}
