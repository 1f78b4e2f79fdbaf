package exiter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Exiter cancels a long running worker after a period without activity.
// Task handlers call Notify after each processed job; Run watches the clock
// and triggers the registered cancel func once the idle window elapses.
type Exiter interface {
	SetCancelFunc(context.CancelFunc)
	Notify()
	Run(context.Context)
}

type exiter struct {
	idleAfter    time.Duration
	lastActivity time.Time
	logger       *zap.Logger

	mu         *sync.Mutex
	cancelFunc context.CancelFunc
}

func New(idleAfter time.Duration, logger *zap.Logger) Exiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &exiter{
		idleAfter:    idleAfter,
		lastActivity: time.Now(),
		logger:       logger,
		mu:           &sync.Mutex{},
	}
}

func (e *exiter) SetCancelFunc(fn context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelFunc = fn
}

func (e *exiter) Notify() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastActivity = time.Now()
}

func (e *exiter) Run(ctx context.Context) {
	if e.idleAfter <= 0 {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			idle := time.Since(e.lastActivity)
			fn := e.cancelFunc
			e.mu.Unlock()

			if idle < e.idleAfter {
				continue
			}

			e.logger.Info("no activity, exiting",
				zap.Duration("idle", idle),
				zap.Duration("threshold", e.idleAfter),
			)

			if fn != nil {
				fn()
			}

			return
		}
	}
}
