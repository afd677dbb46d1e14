package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Worker は配送キューを読んでメールを送る
type Worker struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	deliverer *Deliverer
	tag       string
	log       *zap.Logger
}

func NewWorker(url, tag string, deliverer *Deliverer, log *zap.Logger) (*Worker, error) {
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

	if err := ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &Worker{conn: conn, channel: ch, deliverer: deliverer, tag: tag, log: log}, nil
}

// ctxが終わるまで処理する
func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.channel.Consume(
		DeliverQueue,
		w.tag, // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.log.Info("notification worker started", zap.String("queue", DeliverQueue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("notification delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

// 送れても送れなくてもack（再送しない）
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var n usecase.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		w.log.Error("undecodable notification dropped", zap.String("message_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	w.deliverer.Deliver(ctx, n)
	if err := d.Ack(false); err != nil {
		w.log.Warn("ack notification failed", zap.String("notification_id", n.ID), zap.Error(err))
	}
}

func (w *Worker) Close() {
	if w.channel != nil {
		w.channel.Close()
	}
	if w.conn != nil {
		w.conn.Close()
	}
}
