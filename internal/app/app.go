package app

import (
	"context"

	"go.uber.org/zap"

	"order-splitter/internal/config"
	"order-splitter/internal/execution"
	"order-splitter/internal/order"
	"order-splitter/internal/store"
)

// App 聚合核心依赖并驱动一次拆单流程。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 执行一次完整的拆单提交，返回批次的数量统计。
func (a *App) Run(ctx context.Context, req order.Request) (execution.CreationStatus, error) {
	a.logger.Info("拆单工具已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("exchange", a.cfg.Exchange.Name),
		zap.Bool("sandbox", a.cfg.Exchange.UseSandbox),
		zap.Bool("simulation", a.cfg.Execution.Simulation),
		zap.String("symbol", req.Symbol),
	)

	pipe, err := newPipeline(a.cfg, a.logger, a.store)
	if err != nil {
		return execution.CreationStatus{}, err
	}

	return pipe.run(ctx, req)
}
