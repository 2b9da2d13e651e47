package exchange

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"order-splitter/internal/order"
)

type metadataClient interface {
	AveragePrice(ctx context.Context, symbol string) (float64, error)
	FetchConstraints(ctx context.Context, symbol string) (order.Constraints, error)
}

// MetadataService 聚合拆单所需的市场元数据，约束部分走本地缓存。
type MetadataService struct {
	client metadataClient
	cache  *Cache
	logger *zap.Logger
}

// NewMetadataService 创建市场元数据服务。cache 为空时每次直连交易所。
func NewMetadataService(client metadataClient, cache *Cache, logger *zap.Logger) *MetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Snapshot 并发拉取平均价格与市场约束，任一失败即整体失败。
func (s *MetadataService) Snapshot(ctx context.Context, symbol string) (MarketSnapshot, error) {
	var (
		avgPrice    float64
		constraints order.Constraints
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		price, err := s.client.AveragePrice(groupCtx, symbol)
		if err != nil {
			return err
		}
		avgPrice = price
		return nil
	})

	group.Go(func() error {
		c, err := s.constraints(groupCtx, symbol)
		if err != nil {
			return err
		}
		constraints = c
		return nil
	})

	if err := group.Wait(); err != nil {
		return MarketSnapshot{}, err
	}

	snapshot := MarketSnapshot{
		Symbol:      symbol,
		AvgPrice:    avgPrice,
		Constraints: constraints,
		RetrievedAt: time.Now().UTC(),
	}

	s.logger.Debug("市场元数据快照获取完成",
		zap.String("symbol", snapshot.Symbol),
		zap.Float64("avg_price", snapshot.AvgPrice),
		zap.Float64("quantity_step", snapshot.Constraints.QuantityStep),
		zap.Float64("price_step", snapshot.Constraints.PriceStep),
		zap.Time("retrieved_at", snapshot.RetrievedAt),
	)

	return snapshot, nil
}

func (s *MetadataService) constraints(ctx context.Context, symbol string) (order.Constraints, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Lookup(ctx, symbol)
		if err != nil {
			s.logger.Warn("读取约束缓存失败，改为直连交易所", zap.Error(err))
		} else if ok {
			s.logger.Debug("命中约束缓存", zap.String("symbol", symbol))
			return cached, nil
		}
	}

	constraints, err := s.client.FetchConstraints(ctx, symbol)
	if err != nil {
		return order.Constraints{}, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, symbol, constraints); err != nil {
			s.logger.Warn("写入约束缓存失败", zap.Error(err))
		}
	}

	return constraints, nil
}
