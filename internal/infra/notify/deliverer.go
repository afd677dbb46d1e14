package notify

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"go.uber.org/zap"
)

// 期限が来た通知を1回だけ送る。失敗はログだけで再送しない
type Deliverer struct {
	mailer  usecase.Mailer
	contact string
	log     *zap.Logger
}

func NewDeliverer(mailer usecase.Mailer, contact string, log *zap.Logger) *Deliverer {
	return &Deliverer{mailer: mailer, contact: contact, log: log}
}

func (d *Deliverer) Deliver(ctx context.Context, n usecase.Notification) {
	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("order_code", n.OrderCode),
	}

	msg, err := Render(n, d.contact)
	if err != nil {
		d.log.Error("render notification failed", append(fields, zap.Error(err))...)
		return
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.log.Error("send notification failed", append(fields, zap.Error(err))...)
		return
	}
	d.log.Info("notification sent", fields...)
}
