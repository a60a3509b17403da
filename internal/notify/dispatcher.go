// Package notify delivers user-visible notifications off the request path.
//
// Delivery is best effort: the Dispatcher never blocks its caller and never
// returns delivery errors to it. Failures are logged and published on
// Errors() for whoever wants to watch them.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyledger/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink is a destination for notifications
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n domain.Notification) error
}

// DeliveryError reports a notification a sink could not take
type DeliveryError struct {
	Sink         string
	Notification domain.Notification
	Err          error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s notification %s via %s: %v", e.Notification.Kind, e.Notification.ID, e.Sink, e.Err)
}

func (e DeliveryError) Unwrap() error {
	return e.Err
}

// Config holds dispatcher settings
type Config struct {
	Workers         int
	QueueSize       int
	DeliveryTimeout time.Duration
	MaxAttempts     int
	InitialBackoff  time.Duration
}

// DefaultConfig returns sensible dispatcher defaults
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		QueueSize:       256,
		DeliveryTimeout: 5 * time.Second,
		MaxAttempts:     3,
		InitialBackoff:  100 * time.Millisecond,
	}
}

// Dispatcher fans notifications out to sinks on a pool of workers
type Dispatcher struct {
	cfg    Config
	sinks  []Sink
	logger *zap.Logger
	now    func() time.Time

	queue  chan domain.Notification
	errors chan DeliveryError

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher; call Start to begin delivering
func NewDispatcher(cfg Config, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = def.DeliveryTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	return &Dispatcher{
		cfg:    cfg,
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
		queue:  make(chan domain.Notification, cfg.QueueSize),
		errors: make(chan DeliveryError, cfg.QueueSize),
	}
}

// Start launches the workers
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Errors exposes delivery failures. Failures are dropped when nobody reads.
func (d *Dispatcher) Errors() <-chan DeliveryError {
	return d.errors
}

// Notify queues a notification for userID. It never blocks: when the queue
// is full or the dispatcher is closed the notification is dropped.
func (d *Dispatcher) Notify(userID string, kind domain.NotificationKind, title, body string, metadata map[string]any) {
	if userID == "" {
		return
	}
	if !kind.Valid() {
		d.logger.Warn("Dropping notification with unknown kind",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
		)
		return
	}

	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Metadata:  metadata,
		CreatedAt: d.now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Dispatcher closed, dropping notification",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
		)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.logger.Warn("Notification queue full, dropping notification",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
		)
	}
}

// Close stops accepting notifications and waits for queued ones to be delivered
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	started := d.started
	close(d.queue)
	d.mu.Unlock()

	if started {
		d.wg.Wait()
	}
	close(d.errors)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for n := range d.queue {
		for _, sink := range d.sinks {
			if err := d.deliver(sink, n); err != nil {
				d.report(DeliveryError{Sink: sink.Name(), Notification: n, Err: err})
			}
		}
	}
}

// deliver retries a sink with exponential backoff, each attempt bounded by
// the delivery timeout
func (d *Dispatcher) deliver(sink Sink, n domain.Notification) error {
	backoff := d.cfg.InitialBackoff
	var err error

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
		err = sink.Deliver(ctx, n)
		cancel()
		if err == nil {
			return nil
		}

		if attempt < d.cfg.MaxAttempts && backoff > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return err
}

func (d *Dispatcher) report(derr DeliveryError) {
	d.logger.Error("Failed to deliver notification",
		zap.String("sink", derr.Sink),
		zap.String("user_id", derr.Notification.UserID),
		zap.String("kind", string(derr.Notification.Kind)),
		zap.String("notification_id", derr.Notification.ID),
		zap.Error(derr.Err),
	)

	select {
	case d.errors <- derr:
	default:
	}
}
