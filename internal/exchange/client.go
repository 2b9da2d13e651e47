package exchange

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	ccxt "github.com/ccxt/ccxt/go/v4"
	"go.uber.org/zap"

	"order-splitter/internal/config"
	"order-splitter/internal/order"
)

// Client 负责与交易所交互并实现重试机制。
type Client struct {
	cfg      config.ExchangeConfig
	logger   *zap.Logger
	exchange *ccxt.Binance

	marketsMu     sync.Mutex
	marketsLoaded bool
}

// NewClient 构造 Binance 现货客户端。
func NewClient(cfg config.ExchangeConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	userConfig := map[string]interface{}{
		"enableRateLimit": true,
		"options": map[string]interface{}{
			"adjustForTimeDifference": true,
			"defaultType":             "spot",
		},
	}

	if cfg.APIKey != "" {
		userConfig["apiKey"] = cfg.APIKey
	}
	if cfg.APISecret != "" {
		userConfig["secret"] = cfg.APISecret
	}
	if cfg.APIPass != "" {
		userConfig["password"] = cfg.APIPass
	}

	ex := ccxt.NewBinance(userConfig)
	if cfg.UseSandbox {
		ex.SetSandboxMode(true)
	}

	return &Client{
		cfg:      cfg,
		logger:   logger,
		exchange: ex,
	}, nil
}

// Raw 返回底层 ccxt 客户端。
func (c *Client) Raw() *ccxt.Binance {
	return c.exchange
}

// AveragePrice 获取交易对的平均成交价。优先使用行情接口给出的均价，
// 依次回退到加权均价、买卖中间价和最新成交价。
func (c *Client) AveragePrice(ctx context.Context, symbol string) (float64, error) {
	var raw ccxt.Ticker

	err := c.callWithRetry(ctx, "fetch_ticker", func() error {
		if err := c.ensureMarketsLoaded(ctx); err != nil {
			return err
		}

		ticker, err := c.exchange.FetchTicker(symbol)
		if err != nil {
			return err
		}

		raw = ticker
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("exchange: 获取 %s 行情失败: %w", symbol, err)
	}

	price := averageFromTicker(raw)
	if price <= 0 {
		return 0, fmt.Errorf("exchange: %s 行情缺少可用价格", symbol)
	}

	c.logger.Debug("已获取平均价格",
		zap.String("symbol", symbol),
		zap.Float64("price", price),
	)
	return price, nil
}

// FetchConstraints 获取交易对的数量与价格约束，缺失字段取默认值。
func (c *Client) FetchConstraints(ctx context.Context, symbol string) (order.Constraints, error) {
	var raw interface{}

	err := c.callWithRetry(ctx, "fetch_market", func() error {
		if err := c.ensureMarketsLoaded(ctx); err != nil {
			return err
		}

		raw = c.exchange.Market(symbol)
		if raw == nil {
			return fmt.Errorf("未找到交易对 %s 的市场信息", symbol)
		}
		return nil
	})
	if err != nil {
		return order.Constraints{}, fmt.Errorf("exchange: 获取 %s 市场约束失败: %w", symbol, err)
	}

	marketMap, ok := raw.(map[string]interface{})
	if !ok {
		c.logger.Warn("市场信息格式异常，使用默认约束", zap.String("symbol", symbol))
		return DefaultConstraints(), nil
	}

	constraints := constraintsFromMarket(marketMap)
	c.logger.Debug("已获取市场约束",
		zap.String("symbol", symbol),
		zap.Int("quantity_precision", constraints.QuantityPrecision),
		zap.Float64("quantity_step", constraints.QuantityStep),
		zap.Float64("price_step", constraints.PriceStep),
	)
	return constraints, nil
}

// Place 提交一笔限价单。订单 ID 作为幂等键传给交易所，
// 重复提交同一 ID 时返回 ErrDuplicateOrder。
// 此处不做重试，重试策略由上层的提交状态机控制。
func (c *Client) Place(ctx context.Context, o order.Order) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err := c.ensureMarketsLoaded(ctx); err != nil {
		return err
	}

	params := map[string]interface{}{
		"clientOrderId": o.ID,
		"timeInForce":   o.TimeInForce,
	}

	_, err := c.exchange.CreateLimitOrder(
		o.Symbol,
		o.Side.Lower(),
		o.Quantity,
		o.Price,
		ccxt.WithCreateLimitOrderParams(params),
	)
	if err != nil {
		if IsDuplicateOrder(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
		}
		return err
	}

	return nil
}

func (c *Client) ensureMarketsLoaded(ctx context.Context) error {
	if c.marketsLoaded {
		return nil
	}

	c.marketsMu.Lock()
	defer c.marketsMu.Unlock()

	if c.marketsLoaded {
		return nil
	}

	loadErr := c.callWithRetry(ctx, "load_markets", func() error {
		_, err := c.exchange.LoadMarkets()
		return err
	})
	if loadErr != nil {
		return loadErr
	}

	c.marketsLoaded = true
	c.logger.Info("已完成市场元数据加载")
	return nil
}

func (c *Client) callWithRetry(ctx context.Context, operation string, fn func() error) error {
	attempt := 0
	delay := c.cfg.Retry.MinDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	maxDelay := c.cfg.Retry.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		attempt++
		start := time.Now()
		err := fn()
		duration := time.Since(start)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("交易所调用重试后成功",
					zap.String("operation", operation),
					zap.Int("attempts", attempt),
					zap.Duration("latency", duration),
				)
			}
			return nil
		}

		normalizedErr, retry := c.classifyError(err)

		if errors.Is(normalizedErr, ErrMaintenance) {
			c.logger.Warn("交易所维护中",
				zap.String("operation", operation),
				zap.Error(normalizedErr),
			)
			return normalizedErr
		}

		if !retry || attempt >= c.cfg.Retry.MaxAttempts {
			c.logger.Error("交易所调用失败",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
				zap.Duration("latency", duration),
				zap.Error(normalizedErr),
			)
			return normalizedErr
		}

		wait := delay
		if wait > maxDelay {
			wait = maxDelay
		}

		c.logger.Warn("交易所调用失败，等待重试",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(normalizedErr),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func (c *Client) classifyError(err error) (error, bool) {
	if err == nil {
		return nil, false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err, false
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
			return err, true
		case ccxt.OnMaintenanceErrType:
			message := strings.TrimSpace(ccxtErr.Message)
			if message == "" {
				message = "exchange under maintenance"
			}
			return fmt.Errorf("%w: %s", ErrMaintenance, message), false
		default:
			return err, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return err, true
	}

	return err, false
}

func averageFromTicker(t ccxt.Ticker) float64 {
	if avg := derefFloat(t.Average); avg > 0 {
		return avg
	}
	if vwap := derefFloat(t.Vwap); vwap > 0 {
		return vwap
	}

	bid := derefFloat(t.Bid)
	ask := derefFloat(t.Ask)
	if bid > 0 && ask > 0 {
		return (bid + ask) / 2
	}

	if last := derefFloat(t.Last); last > 0 {
		return last
	}
	return derefFloat(t.Close)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
