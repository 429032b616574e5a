package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/cuongbtq/accessflow-be/internal/worker/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer delivers messages from the status update queue
type Consumer interface {
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// StatusApplier applies a clock-number status update to the matching job
type StatusApplier interface {
	ApplyByClockNumber(ctx context.Context, clockNumber, newStatus, actor string) (*service.StatusUpdateResult, error)
}

// Config holds worker configuration
type Config struct {
	Logger         *slog.Logger
	Consumer       Consumer
	Updater        StatusApplier
	QueueName      string
	ConsumerTag    string
	Concurrency    int
	MessageTimeout time.Duration
}

// Worker consumes status update messages and applies them with a fixed pool
// of goroutines
type Worker struct {
	logger         *slog.Logger
	consumer       Consumer
	updater        StatusApplier
	workerID       string
	queueName      string
	concurrency    int
	messageTimeout time.Duration
	jobsChan       chan *message
	wg             sync.WaitGroup
	stopChan       chan struct{}
	stopOnce       sync.Once
}

// message pairs a parsed update with the delivery that must be settled
type message struct {
	update   *domain.StatusUpdateMessage
	delivery amqp.Delivery
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	workerID := cfg.ConsumerTag
	if workerID == "" {
		workerID = "accessflow-worker-" + uuid.NewString()[:8]
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:         cfg.Logger,
		consumer:       cfg.Consumer,
		updater:        cfg.Updater,
		workerID:       workerID,
		queueName:      cfg.QueueName,
		concurrency:    concurrency,
		messageTimeout: cfg.MessageTimeout,
		jobsChan:       make(chan *message, concurrency),
		stopChan:       make(chan struct{}),
	}
}

// Start subscribes to the queue, spawns the pool and dispatches deliveries
// until ctx is canceled or the delivery channel closes
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("message_timeout", w.messageTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	w.logger.Info("Worker dispatcher exited, stopping...")
	return nil
}

// Stop gracefully stops the worker and waits for in-flight messages
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
