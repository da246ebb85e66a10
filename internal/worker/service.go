package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/queue"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	pendingSweepInterval  = time.Minute
	pendingSweepBatchSize = 100
)

// Service runs the asynq server plus the periodic pending-order sweep.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the server until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.sweepEnabled() {
		go s.runPendingSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) sweepEnabled() bool {
	return s != nil && s.consumer != nil &&
		s.consumer.Config != nil && s.consumer.Config.Order.PendingTimeoutMinutes > 0 &&
		s.consumer.OrderService != nil && s.consumer.OrderRepo != nil
}

// runPendingSweepLoop catches pending orders whose timeout task was lost,
// for example when the queue was down at checkout time.
func (s *Service) runPendingSweepLoop(ctx context.Context) {
	runOnce := func() {
		timeout := time.Duration(s.consumer.Config.Order.PendingTimeoutMinutes) * time.Minute
		cutoff := time.Now().Add(-timeout)
		stale, _, err := s.consumer.OrderRepo.ListAdmin(repository.OrderListFilter{
			Page:      1,
			PageSize:  pendingSweepBatchSize,
			Status:    constants.OrderStatusPending,
			CreatedTo: &cutoff,
		})
		if err != nil {
			logger.Warnw("worker_pending_sweep_list_failed", "error", err)
			return
		}
		for _, order := range stale {
			if err := s.consumer.OrderService.HandlePendingTimeout(order.ID); err != nil {
				logger.Warnw("worker_pending_sweep_cancel_failed", "order_id", order.ID, "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(pendingSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
