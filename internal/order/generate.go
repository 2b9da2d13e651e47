package order

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-splitter/internal/split"
)

// Generator 依据请求与市场约束生成随机拆分后的限价单。
type Generator struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// NewGenerator 创建生成器。rng 为空时退化为时间种子。
func NewGenerator(rng *rand.Rand, logger *zap.Logger) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{rng: rng, logger: logger}
}

// Generate 将报价货币总量换算为基础货币步数，拆分后生成订单。
// 每笔订单的价格在请求区间内的网格点上均匀抽取，保证不越界。
func (g *Generator) Generate(req Request, avgPrice float64, c Constraints) ([]Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if avgPrice <= 0 {
		return nil, fmt.Errorf("order: 平均价格无效: %v", avgPrice)
	}
	if c.QuantityStep <= 0 || c.PriceStep <= 0 {
		return nil, fmt.Errorf("order: 市场约束无效: 数量步长 %v, 价格步长 %v", c.QuantityStep, c.PriceStep)
	}

	totalSteps := Steps(req.QuoteVolume/avgPrice, c.QuantityStep)
	diffSteps := Steps(req.QuoteDiff/avgPrice, c.QuantityStep)
	if totalSteps < int64(req.Splits) {
		return nil, fmt.Errorf("order: 折算后总量仅 %d 步，不足以拆成 %d 笔", totalSteps, req.Splits)
	}

	loSteps := c.MinPriceSteps(req.MinPrice)
	hiSteps := c.MaxPriceSteps(req.MaxPrice)
	if hiSteps < loSteps {
		return nil, fmt.Errorf("order: 价格区间 [%v, %v] 在步长 %v 的网格上为空", req.MinPrice, req.MaxPrice, c.PriceStep)
	}

	quantities, err := split.Quantity(totalSteps, req.Splits, diffSteps, g.rng)
	if err != nil {
		return nil, fmt.Errorf("order: 拆分数量失败: %w", err)
	}

	orders := make([]Order, 0, req.Splits)
	for _, steps := range quantities {
		priceSteps := loSteps + g.rng.Int63n(hiSteps-loSteps+1)
		orders = append(orders, Order{
			ID:          uuid.NewString(),
			Symbol:      req.Symbol,
			TimeInForce: TimeInForceGTC,
			Quantity:    c.QuantityFromSteps(steps),
			Price:       c.PriceFromSteps(priceSteps),
			Side:        req.Side,
			Type:        TypeLimit,
		})
	}

	g.logger.Debug("拆单完成",
		zap.String("symbol", req.Symbol),
		zap.Int("count", len(orders)),
		zap.Int64("total_steps", totalSteps),
		zap.Int64("diff_steps", diffSteps),
	)

	return orders, nil
}
