package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(cvID uuid.UUID)
}

type worker struct {
	cvRepo       repositories.CVRepository
	processor    CVProcessor
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger

	// queued ids are waiting in jobQueue. running ids map to whether another
	// enqueue arrived mid-run, in which case the CV goes back on the queue.
	mu      sync.Mutex
	queued  map[uuid.UUID]struct{}
	running map[uuid.UUID]bool

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewWorker(
	cvRepo repositories.CVRepository,
	processor CVProcessor,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		cvRepo:       cvRepo,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		logger:       logger,
		queued:       make(map[uuid.UUID]struct{}),
		running:      make(map[uuid.UUID]bool),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting CV worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.logger.Info("✅ CV worker started")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("🛑 Stopping CV worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("✅ CV worker stopped")
	})
}

// EnqueueJob implements Worker. A CV already waiting is not queued twice; a
// CV being processed is queued again once the current run ends.
func (w *worker) EnqueueJob(cvID uuid.UUID) {
	w.mu.Lock()
	if _, ok := w.queued[cvID]; ok {
		w.mu.Unlock()
		return
	}
	if _, ok := w.running[cvID]; ok {
		w.running[cvID] = true
		w.mu.Unlock()
		w.logger.Debug("🔁 CV re-enqueued during processing", zap.String("cv_id", cvID.String()))
		return
	}
	w.queued[cvID] = struct{}{}
	w.mu.Unlock()

	w.push(cvID)
}

func (w *worker) push(cvID uuid.UUID) {
	select {
	case w.jobQueue <- cvID:
		w.logger.Debug("📥 CV enqueued", zap.String("cv_id", cvID.String()))
	case <-w.stopChan:
		w.mu.Lock()
		delete(w.queued, cvID)
		w.mu.Unlock()
		w.logger.Warn("⚠️  Worker stopped, cannot enqueue CV", zap.String("cv_id", cvID.String()))
	}
}

func (w *worker) begin(cvID uuid.UUID) {
	w.mu.Lock()
	delete(w.queued, cvID)
	w.running[cvID] = false
	w.mu.Unlock()
}

// finish reports whether the CV was enqueued again while it ran. In that
// case it moves straight back to queued.
func (w *worker) finish(cvID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	again := w.running[cvID]
	delete(w.running, cvID)
	if again {
		w.queued[cvID] = struct{}{}
	}
	return again
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("👷 Worker stopped")
			return
		case <-ctx.Done():
			return
		case cvID := <-w.jobQueue:
			w.begin(cvID)
			if err := w.processor.ProcessCV(ctx, cvID); err != nil {
				log.Error("❌ CV processing failed", zap.String("cv_id", cvID.String()), zap.Error(err))
			}
			if w.finish(cvID) {
				w.push(cvID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.cvRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("⚠️  Failed to fetch pending CVs", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.logger.Info("📋 Found pending CVs", zap.Int("count", len(pending)))
			}

			for _, cv := range pending {
				w.EnqueueJob(cv.ID)
			}
		}
	}
}
