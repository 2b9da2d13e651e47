//go:build integration
// +build integration

package execution

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"order-splitter/internal/config"
	"order-splitter/internal/exchange"
	"order-splitter/internal/order"
	"order-splitter/internal/store"
)

func TestExecutorIntegration_SandboxSubmit(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("integration test panic: %v", r)
		}
	}()

	configPath := os.Getenv("SPLITTER_CONFIG")
	if configPath == "" {
		configPath = "../../configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if !cfg.Exchange.UseSandbox {
		t.Skip("exchange.use_sandbox=false，出于安全考虑跳过真实下单测试")
	}
	if cfg.Exchange.APIKey == "" || cfg.Exchange.APISecret == "" {
		t.Skip("缺少交易所 API 凭证，跳过测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := exchange.NewClient(cfg.Exchange, zap.NewNop())
	if err != nil {
		t.Fatalf("初始化交易所客户端失败: %v", err)
	}

	st, err := store.NewSQLite(config.DatabaseConfig{
		InMemory:     true,
		MaxOpenConns: 2,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}
	defer st.Close()

	cache, err := exchange.NewCache(st.DB(), cfg.Metadata.CacheTTL, zap.NewNop())
	if err != nil {
		t.Fatalf("初始化约束缓存失败: %v", err)
	}

	meta := exchange.NewMetadataService(client, cache, zap.NewNop())
	snapshot, err := meta.Snapshot(ctx, "ETHUSDT")
	if err != nil {
		t.Fatalf("获取市场元数据失败: %v", err)
	}
	if snapshot.AvgPrice <= 0 {
		t.Fatalf("无法解析有效市场价格")
	}

	// 卖单挂在市价上方，避免在测试网立即成交。
	req := order.Request{
		Symbol:      "ETHUSDT",
		QuoteVolume: 40,
		QuoteDiff:   2,
		Splits:      2,
		Side:        order.SideSell,
		MinPrice:    snapshot.AvgPrice * 1.02,
		MaxPrice:    snapshot.AvgPrice * 1.05,
	}

	gen := order.NewGenerator(nil, zap.NewNop())
	orders, err := gen.Generate(req, snapshot.AvgPrice, snapshot.Constraints)
	if err != nil {
		t.Fatalf("生成拆分订单失败: %v", err)
	}
	if len(orders) != req.Splits {
		t.Fatalf("生成订单数量异常: got %d want %d", len(orders), req.Splits)
	}

	exec := NewExecutor(client, Options{MaxAttempts: cfg.Execution.MaxAttempts}, zap.NewNop())
	status := exec.SubmitAll(ctx, orders)
	if !status.OK() {
		t.Fatalf("批次提交不完整: requested=%f actual=%f", status.RequestedBaseQuantity, status.ActualBaseQuantity)
	}

	t.Logf("成功提交 %d 笔订单，symbol=%s requested=%.8f price=[%.2f, %.2f]",
		len(orders), req.Symbol, status.RequestedBaseQuantity, req.MinPrice, req.MaxPrice)
}
