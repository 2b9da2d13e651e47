package execution

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"order-splitter/internal/exchange"
	"order-splitter/internal/order"
)

// Placer 抽象单笔订单的提交通道。
type Placer interface {
	Place(ctx context.Context, o order.Order) error
}

// Options 控制提交行为。
type Options struct {
	MaxAttempts int
	RetryWait   time.Duration
}

// Executor 将拆分后的订单逐笔提交，并用状态机管理每笔订单的重试。
type Executor struct {
	placer Placer
	logger *zap.Logger
	opts   Options
}

// NewExecutor 创建执行器。
func NewExecutor(placer Placer, opts Options, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	return &Executor{
		placer: placer,
		logger: logger,
		opts:   opts,
	}
}

// SubmitAll 按顺序提交订单并累计数量统计。单笔订单最终失败不会中断批次，
// 缺口体现在返回的统计里。
func (e *Executor) SubmitAll(ctx context.Context, orders []order.Order) CreationStatus {
	var status CreationStatus
	for _, o := range orders {
		status = status.Add(e.submit(ctx, o))
	}

	if !status.OK() {
		e.logger.Warn("批次存在未提交的数量",
			zap.Float64("requested", status.RequestedBaseQuantity),
			zap.Float64("actual", status.ActualBaseQuantity),
		)
	}

	return status
}

// submit 驱动单笔订单的提交状态机。重复单视为已成功提交，
// 其余错误在放弃前最多尝试 MaxAttempts 次。
func (e *Executor) submit(ctx context.Context, o order.Order) CreationStatus {
	status := CreationStatus{RequestedBaseQuantity: o.Quantity}

	state := stateAttempting
	var lastErr error

	for attempt := 1; state == stateAttempting; attempt++ {
		err := e.placer.Place(ctx, o)

		if err == nil {
			state = stateSucceeded
			continue
		}
		if errors.Is(err, exchange.ErrDuplicateOrder) {
			state = stateDuplicate
			continue
		}

		lastErr = err
		if attempt >= e.opts.MaxAttempts {
			state = stateGaveUp
			continue
		}

		wait := time.Duration(attempt) * e.opts.RetryWait
		e.logger.Warn("下单失败，准备重试",
			zap.String("order_id", o.ID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = ctx.Err()
			state = stateGaveUp
		case <-timer.C:
		}
	}

	switch state {
	case stateSucceeded:
		status.ActualBaseQuantity = o.Quantity
		e.logger.Info("订单已提交",
			zap.String("order_id", o.ID),
			zap.String("symbol", o.Symbol),
			zap.String("side", string(o.Side)),
			zap.Float64("quantity", o.Quantity),
			zap.Float64("price", o.Price),
			zap.String("state", state.String()),
		)
	case stateDuplicate:
		status.ActualBaseQuantity = o.Quantity
		e.logger.Info("订单已存在，视为提交成功",
			zap.String("order_id", o.ID),
			zap.String("state", state.String()),
		)
	case stateGaveUp:
		e.logger.Error("订单多次提交失败，放弃",
			zap.String("order_id", o.ID),
			zap.Int("max_attempts", e.opts.MaxAttempts),
			zap.String("state", state.String()),
			zap.Error(lastErr),
		)
	}

	return status
}
