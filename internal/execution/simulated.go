package execution

import (
	"context"

	"go.uber.org/zap"

	"order-splitter/internal/order"
)

// SimulatedPlacer 只记录订单日志而不真正下单，用于演练模式。
type SimulatedPlacer struct {
	logger *zap.Logger
}

// NewSimulatedPlacer 创建模拟提交通道。
func NewSimulatedPlacer(logger *zap.Logger) *SimulatedPlacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedPlacer{logger: logger}
}

// Place 记录订单内容并立即返回成功。
func (p *SimulatedPlacer) Place(ctx context.Context, o order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("模拟提交订单",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("side", string(o.Side)),
		zap.Float64("quantity", o.Quantity),
		zap.Float64("price", o.Price),
		zap.String("time_in_force", o.TimeInForce),
	)
	return nil
}

var _ Placer = (*SimulatedPlacer)(nil)
