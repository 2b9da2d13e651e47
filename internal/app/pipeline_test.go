package app

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/zap"

	"order-splitter/internal/exchange"
	"order-splitter/internal/execution"
	"order-splitter/internal/order"
)

func TestPipelineRun_SubmitsGeneratedOrders(t *testing.T) {
	meta := exchange.NewMetadataService(&stubMetadataClient{
		price: 3.0,
		constraints: order.Constraints{
			QuantityPrecision: 5,
			QuantityStep:      0.017,
			PriceStep:         0.07,
		},
	}, nil, nil)

	placer := &recordingPlacer{}
	pipe := &pipeline{
		meta:      meta,
		generator: order.NewGenerator(rand.New(rand.NewSource(7)), nil),
		submitter: execution.NewExecutor(placer, execution.Options{MaxAttempts: 3}, nil),
		logger:    zap.NewNop(),
	}

	req := order.Request{
		Symbol:      "BTCUSDT",
		QuoteVolume: 10,
		QuoteDiff:   1,
		Splits:      3,
		Side:        order.SideSell,
		MinPrice:    2,
		MaxPrice:    4,
	}

	status, err := pipe.run(context.Background(), req)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !status.OK() {
		t.Fatalf("expected complete batch, got requested=%f actual=%f", status.RequestedBaseQuantity, status.ActualBaseQuantity)
	}
	if len(placer.orders) != req.Splits {
		t.Fatalf("unexpected order count: got %d want %d", len(placer.orders), req.Splits)
	}
	for _, o := range placer.orders {
		if o.Price < req.MinPrice || o.Price > req.MaxPrice {
			t.Errorf("order %s price %f outside [%f, %f]", o.ID, o.Price, req.MinPrice, req.MaxPrice)
		}
		if o.Side != order.SideSell {
			t.Errorf("order %s side mismatch: got %s", o.ID, o.Side)
		}
	}
}

func TestPipelineRun_RejectsInvalidRequest(t *testing.T) {
	pipe := &pipeline{
		meta:      exchange.NewMetadataService(&stubMetadataClient{price: 3.0}, nil, nil),
		generator: order.NewGenerator(nil, nil),
		submitter: execution.NewExecutor(&recordingPlacer{}, execution.Options{}, nil),
		logger:    zap.NewNop(),
	}

	req := order.Request{
		Symbol:      "",
		QuoteVolume: 10,
		Splits:      2,
		Side:        order.SideBuy,
		MinPrice:    2,
		MaxPrice:    4,
	}

	if _, err := pipe.run(context.Background(), req); err == nil || !strings.Contains(err.Error(), "请求校验失败") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type stubMetadataClient struct {
	price       float64
	constraints order.Constraints
}

func (s *stubMetadataClient) AveragePrice(ctx context.Context, symbol string) (float64, error) {
	return s.price, nil
}

func (s *stubMetadataClient) FetchConstraints(ctx context.Context, symbol string) (order.Constraints, error) {
	return s.constraints, nil
}

type recordingPlacer struct {
	orders []order.Order
}

func (p *recordingPlacer) Place(ctx context.Context, o order.Order) error {
	p.orders = append(p.orders, o)
	return nil
}
