package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"order-splitter/internal/config"
	"order-splitter/internal/exchange"
	"order-splitter/internal/execution"
	"order-splitter/internal/order"
	"order-splitter/internal/store"
)

// pipeline 串联市场元数据、订单生成与订单提交三个阶段。
type pipeline struct {
	meta      *exchange.MetadataService
	generator *order.Generator
	submitter execution.Submitter
	logger    *zap.Logger
}

func newPipeline(cfg *config.Config, logger *zap.Logger, st *store.Store) (*pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := exchange.NewClient(cfg.Exchange, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化交易所客户端失败: %w", err)
	}

	var cache *exchange.Cache
	if st != nil {
		cache, err = exchange.NewCache(st.DB(), cfg.Metadata.CacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("初始化约束缓存失败: %w", err)
		}
	}

	meta := exchange.NewMetadataService(client, cache, logger)

	var placer execution.Placer = client
	if cfg.Execution.Simulation {
		logger.Info("执行器处于模拟模式")
		placer = execution.NewSimulatedPlacer(logger)
	}

	executor := execution.NewExecutor(placer, execution.Options{
		MaxAttempts: cfg.Execution.MaxAttempts,
	}, logger)

	return &pipeline{
		meta:      meta,
		generator: order.NewGenerator(nil, logger),
		submitter: executor,
		logger:    logger,
	}, nil
}

// run 执行一次拆单：获取市场元数据、生成随机订单、逐笔提交。
func (p *pipeline) run(ctx context.Context, req order.Request) (execution.CreationStatus, error) {
	if err := req.Validate(); err != nil {
		return execution.CreationStatus{}, err
	}

	snapshot, err := p.meta.Snapshot(ctx, req.Symbol)
	if err != nil {
		return execution.CreationStatus{}, err
	}

	orders, err := p.generator.Generate(req, snapshot.AvgPrice, snapshot.Constraints)
	if err != nil {
		return execution.CreationStatus{}, err
	}

	for _, o := range orders {
		p.logger.Info("生成拆分订单",
			zap.String("order_id", o.ID),
			zap.String("symbol", o.Symbol),
			zap.String("side", string(o.Side)),
			zap.Float64("quantity", o.Quantity),
			zap.Float64("price", o.Price),
		)
	}

	status := p.submitter.SubmitAll(ctx, orders)

	p.logger.Info("批次提交完成",
		zap.Int("orders", len(orders)),
		zap.Float64("requested", status.RequestedBaseQuantity),
		zap.Float64("actual", status.ActualBaseQuantity),
		zap.Bool("complete", status.OK()),
	)

	return status, nil
}
