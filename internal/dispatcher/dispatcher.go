package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aledsz/pluginfield4/internal/channel"
	"github.com/aledsz/pluginfield4/internal/payload"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrQueueFull is returned by Emit when the queue has no room and the
	// dispatcher is not blocking. The event is dropped.
	ErrQueueFull = errors.New("dispatcher: queue full")

	// ErrClosed is returned by Emit after Close.
	ErrClosed = errors.New("dispatcher: closed")
)

// Sender delivers one encoded event to the remote endpoint.
type Sender interface {
	SendEvent(ctx context.Context, eventName, body string) error
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Job is an encoded event waiting for delivery.
type Job struct {
	Event    string
	Body     string
	QueuedAt time.Time
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	workers     int
	queueSize   int
	blocking    bool
	logged      bool
	arrayMode   payload.ArrayMode
	sendTimeout time.Duration
}

// Workers sets the number of delivery goroutines.
func Workers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// QueueSize sets how many encoded events may wait for a worker.
func QueueSize(n int) Option {
	return func(c *config) {
		c.queueSize = n
	}
}

// Blocking makes Emit wait for queue space instead of dropping.
// Emit still never waits on the network.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging for every queued and delivered event.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// ArrayMode selects how top-level record lists are encoded.
func ArrayMode(mode payload.ArrayMode) Option {
	return func(c *config) {
		c.arrayMode = mode
	}
}

// SendTimeout bounds a single delivery attempt. Zero means no limit
// beyond the sender's own.
func SendTimeout(d time.Duration) Option {
	return func(c *config) {
		c.sendTimeout = d
	}
}

// Dispatcher turns event payloads into request bodies and hands them to a
// fixed pool of workers. Callers are never blocked by delivery.
type Dispatcher struct {
	sender Sender
	logger Logger
	cfg    config
	queue  channel.Channel[Job]

	// intake is cancelled on Close to release callers blocked on a full queue
	intake       context.Context
	cancelIntake context.CancelFunc
	// sends is cancelled when Close gives up waiting for workers
	sends       context.Context
	cancelSends context.CancelFunc

	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup

	// OTEL metrics
	queueSize    metric.Int64ObservableGauge
	processed    metric.Int64Counter
	dropped      metric.Int64Counter
	failed       metric.Int64Counter
	registration metric.Registration
}

// New creates a Dispatcher delivering through sender.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(sender Sender, logger Logger, opts ...Option) (*Dispatcher, error) {
	cfg := config{
		workers:   4,
		queueSize: 1000,
		arrayMode: payload.ArrayModeLegacy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.workers)
	}
	if cfg.queueSize < 0 {
		return nil, fmt.Errorf("queue size must not be negative, got %d", cfg.queueSize)
	}
	// An unbuffered queue has no room to try, so Emit waits for a worker.
	if channel.SyncHandoff {
		cfg.blocking = true
	}

	d := &Dispatcher{
		sender: sender,
		logger: logger,
		cfg:    cfg,
		queue:  channel.New[Job](cfg.queueSize),
	}
	d.intake, d.cancelIntake = context.WithCancel(context.Background())
	d.sends, d.cancelSends = context.WithCancel(context.Background())

	if err := d.initMetrics(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) initMetrics() error {
	// Get meter from global OTel provider (returns no-op if not configured)
	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of events waiting for delivery"),
	)
	if err != nil {
		return fmt.Errorf("creating queue size gauge: %w", err)
	}

	d.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(d.queueSize, int64(d.queue.Len()))
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events delivered"),
	)
	if err != nil {
		return fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return fmt.Errorf("creating dropped counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.events.failed",
		metric.WithDescription("Total events the sender failed to deliver"),
	)
	if err != nil {
		return fmt.Errorf("creating failed counter: %w", err)
	}

	return nil
}

// Start launches the worker pool. Calling it more than once has no effect,
// and it does nothing after Close.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return
		}
		for i := 0; i < d.cfg.workers; i++ {
			d.wg.Add(1)
			go d.work()
		}
	})
}

// Emit encodes the payload as {"data": payload} and queues it for delivery
// to the event's endpoint. It returns once the job is queued.
func (d *Dispatcher) Emit(eventName string, m payload.Mapping) error {
	job := Job{
		Event:    eventName,
		Body:     payload.Encode(payload.Envelope(payload.Flatten(m, d.cfg.arrayMode))),
		QueuedAt: time.Now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	if d.cfg.blocking {
		if err := d.queue.Send(d.intake, job); err != nil {
			return ErrClosed
		}
	} else if !d.queue.TrySend(job) {
		d.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", eventName)))
		return ErrQueueFull
	}

	if d.cfg.logged {
		d.logger.Debug("event queued", "event", eventName, "bytes", len(job.Body))
	}
	return nil
}

// Close stops accepting events and waits for queued ones to be delivered.
// If ctx ends first, in-flight deliveries are cancelled and ctx's error is
// returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.cancelIntake()

		d.mu.Lock()
		d.closed = true
		d.queue.Close()
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	defer func() {
		if err := d.registration.Unregister(); err != nil {
			d.logger.Debug("unregistering queue callback", "error", err)
		}
	}()

	select {
	case <-done:
		d.cancelSends()
		return nil
	case <-ctx.Done():
		d.cancelSends()
		return ctx.Err()
	}
}

// QueueLen returns the number of events waiting for a worker.
func (d *Dispatcher) QueueLen() int {
	return d.queue.Len()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for job := range d.queue.Receive() {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	ctx := d.sends
	if d.cfg.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.sendTimeout)
		defer cancel()
	}

	start := time.Now()
	eventAttr := metric.WithAttributes(attribute.String("event", job.Event))

	if err := d.sender.SendEvent(ctx, job.Event, job.Body); err != nil {
		d.failed.Add(context.Background(), 1, eventAttr)
		d.logger.Error("event delivery failed", "event", job.Event, "duration", time.Since(start), "error", err)
		return
	}

	d.processed.Add(context.Background(), 1, eventAttr)
	if d.cfg.logged {
		d.logger.Debug("event delivered", "event", job.Event,
			"duration", time.Since(start), "waited", start.Sub(job.QueuedAt))
	}
}
