package exchange

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"order-splitter/internal/order"
)

// Cache 将市场约束缓存到 SQLite，避免每次运行都重新拉取交易所元数据。
// 只缓存交易对的静态约束，不落任何订单状态。
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache 创建缓存并初始化表结构。
func NewCache(db *sql.DB, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	if db == nil {
		return nil, errors.New("exchange: 数据库实例不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cache := &Cache{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}

	if err := cache.initSchema(); err != nil {
		return nil, err
	}

	return cache, nil
}

func (c *Cache) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS market_constraints (
	symbol TEXT PRIMARY KEY,
	quantity_precision INTEGER NOT NULL,
	quantity_step REAL NOT NULL,
	price_step REAL NOT NULL,
	fetched_at TEXT NOT NULL
);
`
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("exchange: 初始化约束缓存表失败: %w", err)
	}
	return nil
}

// Lookup 返回未过期的缓存约束，未命中或已过期时 ok 为 false。
func (c *Cache) Lookup(ctx context.Context, symbol string) (order.Constraints, bool, error) {
	var (
		constraints order.Constraints
		fetchedAt   string
	)

	row := c.db.QueryRowContext(ctx,
		`SELECT quantity_precision, quantity_step, price_step, fetched_at
		 FROM market_constraints WHERE symbol = ?`,
		symbol,
	)
	err := row.Scan(&constraints.QuantityPrecision, &constraints.QuantityStep, &constraints.PriceStep, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Constraints{}, false, nil
	}
	if err != nil {
		return order.Constraints{}, false, fmt.Errorf("exchange: 查询约束缓存失败: %w", err)
	}

	ts, parseErr := time.Parse(time.RFC3339, fetchedAt)
	if parseErr != nil || time.Since(ts) > c.ttl {
		return order.Constraints{}, false, nil
	}

	return constraints, true, nil
}

// Save 写入或更新缓存条目。
func (c *Cache) Save(ctx context.Context, symbol string, constraints order.Constraints) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO market_constraints
		 (symbol, quantity_precision, quantity_step, price_step, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		symbol,
		constraints.QuantityPrecision,
		constraints.QuantityStep,
		constraints.PriceStep,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("exchange: 写入约束缓存失败: %w", err)
	}
	return nil
}
