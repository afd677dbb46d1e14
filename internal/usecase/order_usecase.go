package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	users       repo.UserRepository
	scheduler   NotificationScheduler
	events      EventPublisher
	metrics     OrderMetrics
	cache       Cache
	cacheTTL    time.Duration
	notifyDelay time.Duration
	log         *zap.Logger

	newCode func() (string, error)
	now     func() time.Time
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	users repo.UserRepository,
	scheduler NotificationScheduler,
	events EventPublisher,
	metrics OrderMetrics,
	cache Cache,
	cacheTTL time.Duration,
	notifyDelay time.Duration,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		orders:      orders,
		users:       users,
		scheduler:   scheduler,
		events:      events,
		metrics:     metrics,
		cache:       cache,
		cacheTTL:    cacheTTL,
		notifyDelay: notifyDelay,
		log:         log,
		newCode:     NewOrderCode,
		now:         time.Now,
	}
}

// placeorder / cancelorder の返却
type OrderResult struct {
	OrderCode  string
	Quantity   int64
	TotalPrice int64
}

// unique違反がcart_idとorder_codeのどちらかはTx外で見分ける
var (
	errDuplicateOrder = errors.New("order: unique violation")
	errOrderCodeTaken = errors.New("order: code taken concurrently")
)

// PlaceOrder はカート1行を注文にする。
// 注文作成と在庫減算は同じトランザクション
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, cartID int64, addressID int64) (OrderResult, error) {
	var (
		order model.Order
		book  model.Book
		err   error
	)

	//コードの取り合いに負けたらTxごとやり直す
	for attempt := 1; ; attempt++ {
		order, book, err = u.placeOrderTx(ctx, userID, cartID, addressID)
		if errors.Is(err, errDuplicateOrder) {
			err = u.classifyDuplicate(ctx, cartID)
		}
		if !errors.Is(err, errOrderCodeTaken) || attempt >= maxOrderCodeAttempts {
			break
		}
		u.log.Warn("order code collided, retrying", zap.Int64("cart_id", cartID), zap.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, ErrOutOfStock) {
			u.metrics.StockRejected()
		}
		if de, ok := AsDomainError(err); ok {
			u.log.Warn("place order rejected",
				zap.Int64("user_id", userID), zap.Int64("cart_id", cartID), zap.String("reason", de.Message))
			return OrderResult{}, de
		}
		return OrderResult{}, dbError(u.log, "place order", err)
	}

	u.afterCommit(ctx, NotificationOrderPlaced, EventOrderPlaced, order, book)
	u.metrics.OrderPlaced()
	u.log.Info("order placed",
		zap.Int64("user_id", userID), zap.String("order_code", order.OrderCode), zap.Int64("book_id", book.ID))

	return OrderResult{
		OrderCode:  order.OrderCode,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
	}, nil
}

func (u *OrderUsecase) placeOrderTx(ctx context.Context, userID int64, cartID int64, addressID int64) (model.Order, model.Book, error) {
	var (
		order model.Order
		book  model.Book
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じカートで2回注文できない
		if _, err := r.Orders().FindByCartID(ctx, cartID); err == nil {
			return ErrOrderExists
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		cart, err := r.Carts().FindByIDAndUser(ctx, cartID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCartNotFound
		}
		if err != nil {
			return err
		}

		book, err = r.Books().FindByID(ctx, cart.BookID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrStoreBookMissing
		}
		if err != nil {
			return err
		}

		//カート追加後に在庫が変わっているかもしれない
		if cart.BookQuantity > book.Quantity {
			return ErrOutOfStock
		}

		if _, err := r.Addresses().FindByIDAndUser(ctx, addressID, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		code, err := uniqueOrderCode(ctx, r.Orders(), u.newCode)
		if err != nil {
			return err
		}

		order, err = r.Orders().Create(ctx, model.Order{
			UserID:     userID,
			CartID:     cart.ID,
			AddressID:  addressID,
			BookID:     book.ID,
			BookName:   book.Name,
			Quantity:   cart.BookQuantity,
			TotalPrice: book.Price * cart.BookQuantity,
			OrderCode:  code,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			//postgresはこの時点でTxが使えないので判定は外で
			return errDuplicateOrder
		}
		if err != nil {
			return err
		}

		//在庫減算（足りないなら false）。同時注文はここで負ける
		ok, err := r.Inventory().DecreaseIfEnough(ctx, book.ID, cart.BookQuantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOutOfStock
		}

		return r.Inventory().RecordMovement(ctx, model.StockMovement{
			BookID:      book.ID,
			ActorUserID: userID,
			Delta:       -cart.BookQuantity,
			Reason:      model.StockReasonOrderPlaced,
			OrderCode:   code,
		})
	})
	return order, book, err
}

// rollback後に、同じカートの注文ができていれば409、無ければコードの衝突
func (u *OrderUsecase) classifyDuplicate(ctx context.Context, cartID int64) error {
	_, err := u.orders.FindByCartID(ctx, cartID)
	if err == nil {
		return ErrOrderExists
	}
	if errors.Is(err, repo.ErrNotFound) {
		return errOrderCodeTaken
	}
	return err
}

// CancelOrder は注文を物理削除して在庫を戻す。
// 戻す数は注文時のスナップショットなので、カートが消えていても戻せる
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, code string) (OrderResult, error) {
	//桁数が違えば探さない
	if len(code) != model.OrderCodeLength {
		return OrderResult{}, ErrInvalidOrderID
	}

	var (
		order model.Order
		book  model.Book
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		order, err = r.Orders().FindByCodeAndUser(ctx, code, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		//同時キャンセルは後の方が0件削除になる
		if err := r.Orders().Delete(ctx, order.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		book, err = r.Books().FindByID(ctx, order.BookID)
		if errors.Is(err, repo.ErrNotFound) {
			//本が削除済みなら戻す先が無い
			u.log.Warn("book gone, stock not restored",
				zap.String("order_code", code), zap.Int64("book_id", order.BookID))
			book = model.Book{ID: order.BookID, Name: order.BookName}
			return nil
		}
		if err != nil {
			return err
		}

		if err := r.Inventory().Increase(ctx, order.BookID, order.Quantity); err != nil {
			return err
		}
		return r.Inventory().RecordMovement(ctx, model.StockMovement{
			BookID:      order.BookID,
			ActorUserID: userID,
			Delta:       order.Quantity,
			Reason:      model.StockReasonOrderCancel,
			OrderCode:   code,
		})
	})
	if err != nil {
		if de, ok := AsDomainError(err); ok {
			u.log.Warn("cancel order rejected",
				zap.Int64("user_id", userID), zap.String("order_code", code), zap.String("reason", de.Message))
			return OrderResult{}, de
		}
		return OrderResult{}, dbError(u.log, "cancel order", err)
	}

	u.afterCommit(ctx, NotificationOrderCancelled, EventOrderCancelled, order, book)
	u.metrics.OrderCancelled()
	u.log.Info("order cancelled", zap.Int64("user_id", userID), zap.String("order_code", code))

	return OrderResult{
		OrderCode:  order.OrderCode,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
	}, nil
}

// 新しい順
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64, page int) (Page[model.Order], error) {
	orders, err := remember(ctx, u.cache, u.log, ordersCacheKey(userID), u.cacheTTL, func() ([]model.Order, error) {
		return u.orders.ListByUserID(ctx, userID)
	})
	if err != nil {
		return Page[model.Order]{}, dbError(u.log, "list orders", err)
	}
	return paginate(orders, page), nil
}

// commit後の後処理。ここでの失敗は注文結果を変えない
func (u *OrderUsecase) afterCommit(ctx context.Context, kind NotificationKind, eventType string, o model.Order, b model.Book) {
	forget(ctx, u.cache, u.log, ordersCacheKey(o.UserID), cacheKeyBooks)

	now := u.now()
	if user, err := u.users.FindByID(ctx, o.UserID); err != nil {
		u.log.Error("notification skipped: user lookup failed",
			zap.Int64("user_id", o.UserID), zap.String("order_code", o.OrderCode), zap.Error(err))
	} else {
		n := Notification{
			ID:         uuid.NewString(),
			Kind:       kind,
			To:         user.Email,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			OrderCode:  o.OrderCode,
			BookName:   b.Name,
			BookAuthor: b.Author,
			BookPrice:  b.Price,
			Quantity:   o.Quantity,
			TotalPrice: o.TotalPrice,
			DeliverAt:  now.Add(u.notifyDelay),
		}
		if err := u.scheduler.Schedule(ctx, n); err != nil {
			u.log.Error("schedule notification failed",
				zap.String("order_code", o.OrderCode), zap.String("kind", string(kind)), zap.Error(err))
		}
	}

	if err := u.events.PublishOrderEvent(ctx, OrderEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderCode:  o.OrderCode,
		UserID:     o.UserID,
		BookID:     o.BookID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		OccurredAt: now,
	}); err != nil {
		u.log.Error("publish order event failed",
			zap.String("order_code", o.OrderCode), zap.String("type", eventType), zap.Error(err))
	}
}
