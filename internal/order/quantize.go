package order

import (
	"math"

	"github.com/shopspring/decimal"
)

// 步长换算中用于吸收浮点除法误差的容差。
const stepEpsilon = 1e-9

// Constraints 描述交易所对数量与价格的量化约束。
// 字段缺失时由调用方填入交易所文档中的通用默认值。
type Constraints struct {
	QuantityPrecision int
	QuantityStep      float64
	PriceStep         float64
}

// Steps 计算 value 包含多少个完整的 step，向下取整。
func Steps(value, step float64) int64 {
	return int64(value / step)
}

// QuantityFromSteps 将步数还原为下单数量，按数量精度舍入以消除浮点误差。
func (c Constraints) QuantityFromSteps(steps int64) float64 {
	qty := decimal.NewFromFloat(float64(steps) * c.QuantityStep)
	return qty.Round(int32(c.QuantityPrecision)).InexactFloat64()
}

// PriceFromSteps 将步数还原为价格，精度取步长数量级再加两位小数。
func (c Constraints) PriceFromSteps(steps int64) float64 {
	digits := int32(-math.Log10(c.PriceStep)+stepEpsilon) + 2
	price := decimal.NewFromFloat(float64(steps) * c.PriceStep)
	return price.Round(digits).InexactFloat64()
}

// MinPriceSteps 返回不低于 price 的最小网格步数。
func (c Constraints) MinPriceSteps(price float64) int64 {
	return int64(math.Ceil(price/c.PriceStep - stepEpsilon))
}

// MaxPriceSteps 返回不高于 price 的最大网格步数。
func (c Constraints) MaxPriceSteps(price float64) int64 {
	return int64(math.Floor(price/c.PriceStep + stepEpsilon))
}
