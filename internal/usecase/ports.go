package usecase

import (
	"context"
	"io"
	"time"
)

// 読み取りキャッシュ。落ちていてもリクエストは失敗させない
type Cache interface {
	// 無ければfalse
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type NotificationKind string

const (
	NotificationOrderPlaced    NotificationKind = "order_placed"
	NotificationOrderCancelled NotificationKind = "order_cancelled"
)

// 遅延送信する注文メール（注文時点の内容を持つ）
type Notification struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	To         string           `json:"to"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	OrderCode  string           `json:"order_code"`
	BookName   string           `json:"book_name"`
	BookAuthor string           `json:"book_author"`
	BookPrice  int64            `json:"book_price"`
	Quantity   int64            `json:"quantity"`
	TotalPrice int64            `json:"total_price"`
	DeliverAt  time.Time        `json:"deliver_at"`
}

// 投げっぱなし。届いたかどうかは追わない
type NotificationScheduler interface {
	Schedule(ctx context.Context, n Notification) error
}

const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
)

type OrderEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderCode  string    `json:"order_code"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	Quantity   int64     `json:"quantity"`
	TotalPrice int64     `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, e OrderEvent) error
}

// 書籍画像の保存先。SaveはURLを返す
type ImageStore interface {
	Save(ctx context.Context, filename string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type OrderMetrics interface {
	OrderPlaced()
	OrderCancelled()
	StockRejected()
}

type Mail struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}
