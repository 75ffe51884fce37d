package mailer

import (
	"context"
	"sync"

	"appnity/internal/logger"

	"go.uber.org/zap"
)

// Dispatcher: очередь писем с фиксированным числом воркеров.
// Enqueue не блокирует запрос: при переполнении письмо отбрасывается.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	workers int

	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		workers: workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	logger.Log.Info("Почтовые воркеры запущены", zap.Int("workers", d.workers), zap.Int("queue", cap(d.queue)))
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		// у письма нет HTTP-контекста: запрос уже завершён
		if err := d.sender.Send(context.Background(), msg); err != nil {
			logger.Log.Error("Не удалось отправить письмо",
				zap.Int("worker", id),
				zap.String("kind", msg.Kind),
				zap.Strings("to", msg.To),
				zap.Error(err),
			)
			continue
		}
		logger.Log.Debug("Письмо отправлено", zap.Int("worker", id), zap.String("kind", msg.Kind))
	}
}

// Enqueue кладёт письмо в очередь; false: письмо отброшено.
func (d *Dispatcher) Enqueue(msg Message) bool {
	if len(msg.To) == 0 {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Log.Warn("Очередь писем закрыта, письмо отброшено", zap.String("kind", msg.Kind))
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено",
			zap.String("kind", msg.Kind), zap.Strings("to", msg.To))
		return false
	}
}

// Shutdown закрывает очередь и ждёт, пока воркеры дошлют оставшееся.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Log.Warn("Не все письма отправлены до остановки", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}
