package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ usecase.NotificationScheduler = (*TimerScheduler)(nil)
	_ usecase.NotificationScheduler = (*RabbitMQScheduler)(nil)
	_ usecase.Mailer                = (*SendGridMailer)(nil)
	_ usecase.Mailer                = (*LogMailer)(nil)
)

// =====================
// Helper
// =====================

type chanMailer struct {
	got chan usecase.Mail
	err error
}

func newChanMailer() *chanMailer {
	return &chanMailer{got: make(chan usecase.Mail, 8)}
}

func (m *chanMailer) Send(ctx context.Context, msg usecase.Mail) error {
	m.got <- msg
	return m.err
}

type fakeAck struct {
	mu     sync.Mutex
	acked  int
	nacked int
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error { return a.Nack(tag, false, requeue) }

func placedNotification() usecase.Notification {
	return usecase.Notification{
		ID:         "n-1",
		Kind:       usecase.NotificationOrderPlaced,
		To:         "buyer@example.com",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		OrderCode:  "abc123xyz",
		BookName:   "Dune",
		BookAuthor: "Frank Herbert",
		BookPrice:  100,
		Quantity:   3,
		TotalPrice: 300,
	}
}

// =====================
// Render
// =====================

func TestRender(t *testing.T) {
	n := placedNotification()

	m, err := Render(n, "help@bookstore.local")
	require.NoError(t, err)
	assert.Equal(t, "Order Placed Successfully", m.Subject)
	assert.Equal(t, "buyer@example.com", m.To)
	assert.Equal(t, "Ada Lovelace", m.ToName)
	assert.Contains(t, m.HTML, "Ada Your Order is Confirmed.<br>")
	assert.Contains(t, m.HTML, "<br>Order Id: abc123xyz")
	assert.Contains(t, m.HTML, "<br>Book Author: Frank Herbert")
	assert.Contains(t, m.HTML, "<br>Book Quantity: 3")
	assert.Contains(t, m.HTML, "<br>Total Payment: 300")
	assert.Contains(t, m.HTML, "help@bookstore.local")

	n.Kind = usecase.NotificationOrderCancelled
	m, err = Render(n, "help@bookstore.local")
	require.NoError(t, err)
	assert.Equal(t, "Order Cancelled Successfully", m.Subject)
	assert.Contains(t, m.HTML, "Your Order has been Successfully Cancelled.")

	n.Kind = "shipped"
	_, err = Render(n, "")
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a\nb\n", plainText("a<br>b<br>"))
}

// =====================
// route
// =====================

func TestRoute(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	q, exp := route(now.Add(600*time.Second), now)
	assert.Equal(t, HoldQueue, q)
	assert.Equal(t, "600000", exp)

	q, exp = route(now.Add(time.Microsecond), now)
	assert.Equal(t, HoldQueue, q)
	assert.Equal(t, "1", exp)

	//期限切れは直接配送
	q, exp = route(now.Add(-time.Second), now)
	assert.Equal(t, DeliverQueue, q)
	assert.Empty(t, exp)
}

// =====================
// Deliverer / TimerScheduler
// =====================

func TestDeliverer_SendFailureIsSwallowed(t *testing.T) {
	m := newChanMailer()
	m.err = errors.New("sendgrid down")

	NewDeliverer(m, "help@bookstore.local", zap.NewNop()).Deliver(context.Background(), placedNotification())
	assert.Len(t, m.got, 1)
}

func TestTimerScheduler_DeliversAfterDelay(t *testing.T) {
	m := newChanMailer()
	s := NewTimerScheduler(NewDeliverer(m, "help@bookstore.local", zap.NewNop()), zap.NewNop())
	t.Cleanup(s.Close)

	n := placedNotification()
	n.DeliverAt = time.Now().Add(20 * time.Millisecond)
	require.NoError(t, s.Schedule(context.Background(), n))

	//すぐには届かない
	select {
	case <-m.got:
		t.Fatal("delivered before DeliverAt")
	default:
	}

	select {
	case got := <-m.got:
		assert.Equal(t, "Order Placed Successfully", got.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestTimerScheduler_CloseDropsPending(t *testing.T) {
	m := newChanMailer()
	s := NewTimerScheduler(NewDeliverer(m, "", zap.NewNop()), zap.NewNop())

	n := placedNotification()
	n.DeliverAt = time.Now().Add(time.Hour)
	require.NoError(t, s.Schedule(context.Background(), n))

	s.Close()
	assert.Empty(t, m.got)
	assert.ErrorIs(t, s.Schedule(context.Background(), n), ErrSchedulerClosed)
}

// =====================
// Worker.handle
// =====================

func TestWorker_HandleAcksEvenWhenSendFails(t *testing.T) {
	m := newChanMailer()
	m.err = errors.New("sendgrid down")
	w := &Worker{deliverer: NewDeliverer(m, "", zap.NewNop()), log: zap.NewNop()}

	body, err := json.Marshal(placedNotification())
	require.NoError(t, err)

	ack := &fakeAck{}
	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Len(t, m.got, 1)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
}

func TestWorker_HandleDropsGarbage(t *testing.T) {
	m := newChanMailer()
	w := &Worker{deliverer: NewDeliverer(m, "", zap.NewNop()), log: zap.NewNop()}

	ack := &fakeAck{}
	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})

	assert.Empty(t, m.got)
	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
}
