package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"arogyakrishi/internal/queue"
)

const (
	DefaultWorkerCount  = 2
	DefaultBatchSize    = 10
	DefaultBlockTimeout = 5 * time.Second
)

// Manager runs worker goroutines that consume a Redis stream through a
// consumer group.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	logger      *zap.Logger
	stream      string
	group       string
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	Stream       string
	Group        string
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration // XREADGROUP block time
}

// DefaultManagerConfig consumes the alert stream.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Stream:       queue.StreamAlerts,
		Group:        queue.ConsumerGroupAlerts,
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig, logger *zap.Logger) *Manager {
	if cfg.Stream == "" {
		cfg.Stream = queue.StreamAlerts
	}
	if cfg.Group == "" {
		cfg.Group = queue.ConsumerGroupAlerts
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		logger:      logger,
		stream:      cfg.Stream,
		group:       cfg.Group,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start launches the workers. Call Stop to shut them down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, m.stream, m.group); err != nil {
		m.cancel()
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		m.wg.Add(1)
		go m.runWorker(workerID, consumerNameForWorker(workerID))
	}

	m.logger.Info("workers started",
		zap.Int("count", m.workerCount),
		zap.String("stream", m.stream),
		zap.String("group", m.group),
	)
	return nil
}

// Stop blocks until all workers have returned.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.logger.Info("workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()
	log := m.logger.With(zap.Int("worker", workerID), zap.String("consumer", consumerName))

	// Messages left unacknowledged by a previous run of this consumer.
	m.processPending(log, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
			m.processMessages(log, consumerName)
		}
	}
}

func (m *Manager) processPending(log *zap.Logger, consumerName string) {
	for {
		messages, err := m.consumer.ReadPending(m.ctx, m.stream, m.group, consumerName, m.batchSize)
		if err != nil {
			log.Warn("read pending failed", zap.Error(err))
			return
		}
		if len(messages) == 0 {
			return
		}

		log.Info("processing pending messages", zap.Int("count", len(messages)))
		m.handleMessages(log, messages)
	}
}

func (m *Manager) processMessages(log *zap.Logger, consumerName string) {
	messages, err := m.consumer.Read(m.ctx, m.stream, m.group, consumerName, m.batchSize, m.blockTime)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.Warn("read failed", zap.Error(err))
		select {
		case <-m.ctx.Done():
		case <-time.After(time.Second):
		}
		return
	}

	if len(messages) > 0 {
		m.handleMessages(log, messages)
	}
}

// handleMessages acknowledges every message, including malformed ones and
// ones whose handler failed, so a poison message cannot loop forever.
func (m *Manager) handleMessages(log *zap.Logger, messages []queue.Message) {
	for _, msg := range messages {
		if msg.Err != nil {
			log.Warn("dropping malformed message", zap.String("msg_id", msg.ID), zap.Error(msg.Err))
		} else if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			log.Error("handler failed", zap.String("msg_id", msg.ID), zap.String("type", msg.Event.Type), zap.Error(err))
		}

		if err := m.consumer.Ack(m.ctx, m.stream, m.group, msg.ID); err != nil {
			log.Warn("ack failed", zap.String("msg_id", msg.ID), zap.Error(err))
		}
	}
}

func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("worker-%d", workerID)
}
