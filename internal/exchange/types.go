package exchange

import (
	"time"

	"order-splitter/internal/order"
)

// 交易所未暴露对应元数据时采用的通用默认值。
const (
	DefaultQuantityPrecision = 8
	DefaultQuantityStep      = 1e-6
	DefaultPriceStep         = 1e-2
)

// DefaultConstraints 返回全部取默认值的市场约束。
func DefaultConstraints() order.Constraints {
	return order.Constraints{
		QuantityPrecision: DefaultQuantityPrecision,
		QuantityStep:      DefaultQuantityStep,
		PriceStep:         DefaultPriceStep,
	}
}

// MarketSnapshot 聚合一次拆单所需的市场元数据。
type MarketSnapshot struct {
	Symbol      string
	AvgPrice    float64
	Constraints order.Constraints
	RetrievedAt time.Time
}
