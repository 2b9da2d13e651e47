package execution

import (
	"context"

	"order-splitter/internal/order"
)

// Submitter 抽象批量提交入口，方便切换真实或模拟下单。
type Submitter interface {
	SubmitAll(ctx context.Context, orders []order.Order) CreationStatus
}

var _ Submitter = (*Executor)(nil)
