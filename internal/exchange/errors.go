package exchange

import (
	"errors"
	"strings"

	ccxt "github.com/ccxt/ccxt/go/v4"
)

var (
	// ErrMaintenance 表示交易所处于维护状态，需要上层终止本次请求。
	ErrMaintenance = errors.New("exchange on maintenance")
	// ErrDuplicateOrder 表示该幂等键此前已被交易所接受，订单视为已提交。
	ErrDuplicateOrder = errors.New("duplicate order")
)

// IsRetryable 判断错误是否可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var ccxtErr *ccxt.Error
	if errors.As(err, &ccxtErr) {
		switch ccxtErr.Type {
		case ccxt.NetworkErrorErrType,
			ccxt.RequestTimeoutErrType,
			ccxt.ExchangeNotAvailableErrType,
			ccxt.RateLimitExceededErrType,
			ccxt.DDoSProtectionErrType,
			ccxt.BadResponseErrType,
			ccxt.NullResponseErrType:
			return true
		default:
			return false
		}
	}

	return false
}

// IsDuplicateOrder 判断错误是否为重复提交同一幂等键。
// Binance 对重复的 clientOrderId 返回 "Duplicate order sent."，
// 部分路径下 ccxt 未归类为 DuplicateOrderId，按报文兜底识别。
func IsDuplicateOrder(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateOrder) {
		return true
	}

	var ccxtErr *ccxt.Error
	if errors.As(err, &ccxtErr) {
		if ccxtErr.Type == ccxt.DuplicateOrderIdErrType {
			return true
		}
		return strings.Contains(ccxtErr.Message, "Duplicate order sent")
	}

	return false
}
