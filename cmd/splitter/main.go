package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"order-splitter/internal/app"
	"order-splitter/internal/config"
	"order-splitter/internal/log"
	"order-splitter/internal/order"
	"order-splitter/internal/store"
)

func main() {
	var (
		configPath string
		symbol     string
		volume     float64
		amountDif  float64
		number     int
		sideFlag   string
		priceMin   float64
		priceMax   float64
		dryRun     bool
	)

	flag.StringVar(&configPath, "config", "", "配置文件路径，默认使用 configs/config.yaml")
	flag.StringVar(&symbol, "symbol", "ETHUSDT", "交易对")
	flag.Float64Var(&volume, "volume", 100, "以报价货币计的下单总量")
	flag.Float64Var(&amountDif, "amount-dif", 1, "单笔数量围绕均值的扰动幅度（报价货币）")
	flag.IntVar(&number, "number", 2, "拆分笔数")
	flag.StringVar(&sideFlag, "side", "SELL", "订单方向 BUY 或 SELL")
	flag.Float64Var(&priceMin, "price-min", 0, "挂单价格下限")
	flag.Float64Var(&priceMax, "price-max", 0, "挂单价格上限")
	flag.BoolVar(&dryRun, "dry-run", false, "只生成并记录订单，不真正提交")
	flag.Parse()

	if priceMin <= 0 || priceMax <= 0 {
		fmt.Fprintln(os.Stderr, "必须通过 -price-min 与 -price-max 指定价格区间")
		flag.Usage()
		os.Exit(2)
	}

	side, err := order.ParseSide(sideFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无效的订单方向: %v\n", err)
		os.Exit(2)
	}

	// .env 仅用于本地开发注入交易所密钥，不存在时忽略。
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		cfg.Execution.Simulation = true
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	sqliteStore, err := store.NewSQLite(cfg.Database)
	if err != nil {
		logger.Error("初始化数据库失败", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if closeErr := sqliteStore.Close(); closeErr != nil {
			logger.Warn("关闭数据库失败", zap.Error(closeErr))
		}
	}()

	req := order.Request{
		Symbol:      symbol,
		QuoteVolume: volume,
		QuoteDiff:   amountDif,
		Splits:      number,
		Side:        side,
		MinPrice:    priceMin,
		MaxPrice:    priceMax,
	}

	splitterApp := app.New(cfg, logger, sqliteStore)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	status, err := splitterApp.Run(ctx, req)
	if err != nil {
		logger.Error("拆单执行异常", zap.Error(err))
		os.Exit(1)
	}
	if !status.OK() {
		logger.Error("部分订单未能提交",
			zap.Float64("requested", status.RequestedBaseQuantity),
			zap.Float64("actual", status.ActualBaseQuantity),
		)
		os.Exit(1)
	}

	logger.Info("拆单已全部提交",
		zap.Float64("requested", status.RequestedBaseQuantity),
		zap.Int("orders", req.Splits),
	)
}
