package order

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Side 表示订单方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide 解析大小写不敏感的方向字符串。
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", fmt.Errorf("order: 未知的订单方向 %q", s)
	}
}

// Lower 返回交易所统一接口使用的小写方向。
func (s Side) Lower() string {
	return strings.ToLower(string(s))
}

const (
	// TypeLimit 表示限价单。
	TypeLimit = "LIMIT"
	// TimeInForceGTC 表示订单在成交或撤销前一直有效。
	TimeInForceGTC = "GTC"
)

// Request 描述一次拆单请求，金额均以报价货币计。
type Request struct {
	Symbol      string
	QuoteVolume float64
	QuoteDiff   float64
	Splits      int
	Side        Side
	MinPrice    float64
	MaxPrice    float64
}

// Validate 校验请求参数，汇总所有违规项。
func (r Request) Validate() error {
	var errs error
	if strings.TrimSpace(r.Symbol) == "" {
		errs = multierr.Append(errs, errors.New("交易对不能为空"))
	}
	if r.QuoteVolume <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("总量必须为正: %v", r.QuoteVolume))
	}
	if r.QuoteDiff < 0 {
		errs = multierr.Append(errs, fmt.Errorf("扰动量不能为负: %v", r.QuoteDiff))
	}
	if r.QuoteDiff > r.QuoteVolume {
		errs = multierr.Append(errs, fmt.Errorf("扰动量不能超过总量: %v > %v", r.QuoteDiff, r.QuoteVolume))
	}
	if r.Splits <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("拆单笔数必须为正: %d", r.Splits))
	}
	if r.Side != SideBuy && r.Side != SideSell {
		errs = multierr.Append(errs, fmt.Errorf("订单方向必须为 BUY 或 SELL: %q", r.Side))
	}
	if r.MinPrice <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("最低价必须为正: %v", r.MinPrice))
	}
	if r.MaxPrice < r.MinPrice {
		errs = multierr.Append(errs, fmt.Errorf("最高价不能低于最低价: %v < %v", r.MaxPrice, r.MinPrice))
	}
	if errs != nil {
		return fmt.Errorf("order: 请求校验失败: %w", errs)
	}
	return nil
}

// Order 为一笔待提交的限价单，生成后不再修改。
// ID 同时作为交易所幂等键（clientOrderId），重试期间保持不变。
type Order struct {
	ID          string
	Symbol      string
	TimeInForce string
	Quantity    float64
	Price       float64
	Side        Side
	Type        string
}
