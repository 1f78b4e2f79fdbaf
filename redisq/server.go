package redisq

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/gosom/localrank/redisq/config"
)

// Server runs the background task worker.
type Server struct {
	srv    *asynq.Server
	logger *zap.Logger
}

func NewServer(cfg *config.RedisConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: cfg.Workers,
			Queues:      cfg.QueuePriorities,
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Error("task failed",
					zap.String("type", task.Type()),
					zap.Error(err),
				)
			}),
		},
	)

	return &Server{srv: srv, logger: logger}
}

// Start runs the worker until the context is cancelled.
func (s *Server) Start(ctx context.Context, handler asynq.Handler) error {
	if err := s.srv.Start(handler); err != nil {
		return err
	}

	<-ctx.Done()

	s.logger.Info("shutting down task worker")
	s.srv.Shutdown()

	return nil
}
