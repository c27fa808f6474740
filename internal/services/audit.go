package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

// AuditSink persists audit events in the background. Emit never blocks.
type AuditSink interface {
	Start(ctx context.Context)
	Stop()
	Emit(event models.AuditEvent)
}

type auditSink struct {
	auditRepo   repositories.AuditRepository
	queue       chan models.AuditEvent
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	logger      *zap.Logger
}

func NewAuditSink(auditRepo repositories.AuditRepository, concurrency, queueSize int, logger *zap.Logger) AuditSink {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditSink{
		auditRepo:   auditRepo,
		queue:       make(chan models.AuditEvent, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements AuditSink.
func (s *auditSink) Start(ctx context.Context) {
	for i := 0; i < s.concurrency; i++ {
		s.wg.Add(1)
		go s.processEvents(ctx, i+1)
	}
	s.logger.Info("audit sink started", zap.Int("workers", s.concurrency))
}

// Stop implements AuditSink. Queued events are flushed before it returns.
func (s *auditSink) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Info("audit sink stopped")
	})
}

// Emit implements AuditSink.
func (s *auditSink) Emit(event models.AuditEvent) {
	select {
	case <-s.stopChan:
		s.logger.Warn("audit sink stopped, dropping event", zap.String("path", event.Path))
		return
	default:
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Warn("audit queue full, dropping event", zap.String("method", event.Method), zap.String("path", event.Path))
	}
}

func (s *auditSink) processEvents(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			s.drain(workerID)
			return
		case <-ctx.Done():
			s.drain(workerID)
			return
		case event := <-s.queue:
			s.persist(workerID, event)
		}
	}
}

func (s *auditSink) drain(workerID int) {
	for {
		select {
		case event := <-s.queue:
			s.persist(workerID, event)
		default:
			return
		}
	}
}

func (s *auditSink) persist(workerID int, event models.AuditEvent) {
	if err := s.auditRepo.CreateEvent(&event); err != nil {
		s.logger.Warn("failed to persist audit event",
			zap.Int("worker", workerID),
			zap.String("path", event.Path),
			zap.Error(err),
		)
	}
}
