package exchange

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"order-splitter/internal/order"
)

// constraintsFromMarket 从 ccxt 市场信息中提取量化约束。
// Binance 的 precision 字段直接给出步长，基础资产小数位取自原始 info，
// 任何缺失字段回退到交易所文档中的通用默认值。
func constraintsFromMarket(market map[string]interface{}) order.Constraints {
	constraints := DefaultConstraints()

	if precision, ok := market["precision"].(map[string]interface{}); ok {
		if step := parseNumeric(precision["amount"]); step > 0 {
			constraints.QuantityStep = step
		}
		if step := parseNumeric(precision["price"]); step > 0 {
			constraints.PriceStep = step
		}
	}

	if info, ok := market["info"].(map[string]interface{}); ok {
		if digits := parseNumeric(info["baseAssetPrecision"]); digits > 0 {
			constraints.QuantityPrecision = int(digits)
		}
	}

	return constraints
}

func parseNumeric(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case *float64:
		if v != nil {
			return *v
		}
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case int32:
		return float64(v)
	case uint32:
		return float64(v)
	case int16:
		return float64(v)
	case uint16:
		return float64(v)
	case int8:
		return float64(v)
	case uint8:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case fmt.Stringer:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case *json.Number:
		if v != nil {
			if f, err := v.Float64(); err == nil {
				return f
			}
		}
	}
	return 0
}
