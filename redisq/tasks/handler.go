package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
)

// Handler processes the background tasks. It implements asynq.Handler.
type Handler struct {
	store      entities.Store
	resolver   *geo.Resolver
	dataFolder string
	logger     *zap.Logger

	// onProcessed is notified after every task, successful or not. Used by
	// the worker runner's idle-exit monitor.
	onProcessed func()
}

var _ asynq.Handler = (*Handler)(nil)

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithResolver overrides the geo resolver.
func WithResolver(r *geo.Resolver) HandlerOption {
	return func(h *Handler) { h.resolver = r }
}

// WithLogger overrides the logger.
func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// WithProcessedCallback registers a callback invoked after each task.
func WithProcessedCallback(fn func()) HandlerOption {
	return func(h *Handler) { h.onProcessed = fn }
}

func NewHandler(store entities.Store, dataFolder string, opts ...HandlerOption) *Handler {
	ans := &Handler{
		store:      store,
		resolver:   geo.NewResolver(),
		dataFolder: dataFolder,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(ans)
	}

	return ans
}

// ProcessTask routes a task to its handler by type.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	if h.onProcessed != nil {
		defer h.onProcessed()
	}

	switch task.Type() {
	case TypeRankSearch:
		return h.processRankTask(ctx, task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type())
	}
}
