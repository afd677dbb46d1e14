package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"go.uber.org/zap"
)

var ErrSchedulerClosed = errors.New("notification scheduler closed")

// RABBITMQ_URL未設定のとき。プロセス内のタイマーで遅らせる
// 再起動すると未送信の通知は消える
type TimerScheduler struct {
	deliverer *Deliverer
	now       func() time.Time
	log       *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	wg      sync.WaitGroup
}

func NewTimerScheduler(deliverer *Deliverer, log *zap.Logger) *TimerScheduler {
	return &TimerScheduler{
		deliverer: deliverer,
		now:       time.Now,
		log:       log,
		pending:   make(map[string]*time.Timer),
	}
}

func (s *TimerScheduler) Schedule(ctx context.Context, n usecase.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSchedulerClosed
	}

	delay := n.DeliverAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	s.wg.Add(1)
	s.pending[n.ID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.pending, n.ID)
		s.mu.Unlock()

		s.deliverer.Deliver(context.Background(), n)
	})

	s.log.Debug("notification scheduled", zap.String("notification_id", n.ID), zap.Duration("delay", delay))
	return nil
}

// 未送信のタイマーを止め、送信中のものは待つ
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.pending {
		if t.Stop() {
			s.wg.Done()
			s.log.Warn("notification dropped on shutdown", zap.String("notification_id", id))
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
