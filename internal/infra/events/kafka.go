package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrBufferFull = errors.New("order event buffer full")

// messageWriter は *kafka.Writer のうち使う部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher は注文イベントを非同期で送る
// キーは注文番号（同じ注文のイベントは同じパーティションへ）
type KafkaPublisher struct {
	w     messageWriter
	inbox chan kafka.Message
	done  chan struct{}
	log   *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, buf int, log *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newKafkaPublisher(w, buf, log)
}

func newKafkaPublisher(w messageWriter, buf int, log *zap.Logger) *KafkaPublisher {
	if buf <= 0 {
		buf = 256
	}
	return &KafkaPublisher{
		w:     w,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Start は送信ループを起動する。Closeまで動く
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.log.Error("write order event failed", zap.ByteString("key", m.Key), zap.Error(err))
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("close kafka writer failed", zap.Error(err))
		}
	}()
}

// 詰まっていたら待たずにエラー
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, e usecase.OrderEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	m := kafka.Message{
		Key:   []byte(e.OrderCode),
		Value: body,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "event_id", Value: []byte(e.ID)},
		},
	}

	select {
	case p.inbox <- m:
		return nil
	default:
		return ErrBufferFull
	}
}

// 残りを送り切ってから閉じる。Close後にPublishしてはいけない
func (p *KafkaPublisher) Close() {
	close(p.inbox)
	<-p.done
}

// KAFKA_BROKERS未設定のとき
type Nop struct{}

func (Nop) PublishOrderEvent(ctx context.Context, e usecase.OrderEvent) error { return nil }
