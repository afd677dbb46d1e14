package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// 期限まで置いておくキュー。consumerは付けない
	HoldQueue = "bookstore.notifications.hold"
	// 期限切れでここに移る。Workerが読む
	DeliverQueue = "bookstore.notifications.deliver"
)

// 保留キューと配送キューを作る（何度呼んでもよい）
func declareTopology(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		DeliverQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", DeliverQueue, err)
	}

	if _, err := ch.QueueDeclare(
		HoldQueue,
		true,
		false,
		false,
		false,
		amqp.Table{
			//期限切れはデフォルトexchange経由で配送キューへ
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": DeliverQueue,
		},
	); err != nil {
		return fmt.Errorf("declare %s: %w", HoldQueue, err)
	}
	return nil
}

// RabbitMQScheduler は通知をmessage TTL付きで保留キューに入れる
type RabbitMQScheduler struct {
	conn *amqp.Connection
	now  func() time.Time
	log  *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func NewRabbitMQScheduler(url string, log *zap.Logger) (*RabbitMQScheduler, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	//publisher confirmを有効にする
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable confirms: %w", err)
	}

	log.Info("notification scheduler connected", zap.String("queue", HoldQueue))
	return &RabbitMQScheduler{conn: conn, ch: ch, now: time.Now, log: log}, nil
}

func (s *RabbitMQScheduler) Schedule(ctx context.Context, n usecase.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	queue, expiration := route(n.DeliverAt, s.now())
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Timestamp:    s.now(),
		Type:         string(n.Kind),
		Expiration:   expiration,
		Body:         body,
	}

	s.mu.Lock()
	dc, err := s.ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, msg)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm notification: %w", err)
	}
	if !acked {
		return fmt.Errorf("notification %s nacked by broker", n.ID)
	}
	return nil
}

func (s *RabbitMQScheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ch.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}

// 期限まで残りがあれば保留キュー（expirationはミリ秒の文字列）
// もう過ぎていれば配送キューへ直接
func route(deliverAt, now time.Time) (queue string, expiration string) {
	remaining := deliverAt.Sub(now)
	if remaining <= 0 {
		return DeliverQueue, ""
	}
	ms := remaining.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return HoldQueue, strconv.FormatInt(ms, 10)
}
