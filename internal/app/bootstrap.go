package app

import (
	"errors"

	"github.com/himalbox/internal/config"
	"github.com/himalbox/internal/provider"
	"github.com/himalbox/internal/router"
	"github.com/himalbox/internal/worker"
)

// BuildRunner 按运行模式组装 HTTP 与 Worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		services = append(services, buildHTTPService(cfg, container))
	}
	if mode == ModeAll || mode == ModeWorker {
		workerService, err := buildWorkerService(cfg, container)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}
	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

func buildHTTPService(cfg *config.Config, container *provider.Container) *HTTPService {
	engine := router.SetupRouter(cfg, container)
	return NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine)
}

func buildWorkerService(cfg *config.Config, container *provider.Container) (Service, error) {
	consumer := worker.NewConsumer(container)
	return worker.NewService(&cfg.Queue, consumer)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"mode", opts.Mode,
	)
	return RunWithOptions(runner, opts)
}
