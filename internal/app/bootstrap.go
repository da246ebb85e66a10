package app

import (
	"errors"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/provider"
	"github.com/Dhanush032/Smart-Shopping/internal/router"
	"github.com/Dhanush032/Smart-Shopping/internal/worker"
)

// BuildRunner assembles the services the requested mode needs.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	if mode == ModeAll || mode == ModeWorker {
		if !cfg.Queue.Enabled {
			// in all mode a disabled queue just means no worker; asking
			// for worker mode outright with no queue is a config error
			if mode == ModeWorker {
				return nil, errors.New("worker mode requires queue.enabled")
			}
			logger.Warnw("worker_skipped", "reason", "queue disabled")
		} else {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run is the application entry point.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
