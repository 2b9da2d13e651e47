package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-splitter/internal/order"
)

type mockMetadataClient struct {
	price          float64
	priceErr       error
	constraints    order.Constraints
	constraintsErr error
	fetchCalls     int
}

func (m *mockMetadataClient) AveragePrice(ctx context.Context, symbol string) (float64, error) {
	if m.priceErr != nil {
		return 0, m.priceErr
	}
	return m.price, nil
}

func (m *mockMetadataClient) FetchConstraints(ctx context.Context, symbol string) (order.Constraints, error) {
	m.fetchCalls++
	if m.constraintsErr != nil {
		return order.Constraints{}, m.constraintsErr
	}
	return m.constraints, nil
}

func TestMetadataServiceSnapshot_CombinesPriceAndConstraints(t *testing.T) {
	client := &mockMetadataClient{
		price:       3.0,
		constraints: order.Constraints{QuantityPrecision: 5, QuantityStep: 0.017, PriceStep: 0.07},
	}
	svc := NewMetadataService(client, nil, nil)

	snapshot, err := svc.Snapshot(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snapshot.Symbol != "BTCUSDT" {
		t.Errorf("expected symbol BTCUSDT, got %s", snapshot.Symbol)
	}
	if snapshot.AvgPrice != 3.0 {
		t.Errorf("expected price 3.0, got %v", snapshot.AvgPrice)
	}
	if snapshot.Constraints != client.constraints {
		t.Errorf("expected constraints %+v, got %+v", client.constraints, snapshot.Constraints)
	}
	if time.Since(snapshot.RetrievedAt) > time.Minute {
		t.Errorf("unexpected retrieval timestamp %v", snapshot.RetrievedAt)
	}
}

func TestMetadataServiceSnapshot_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("ticker unavailable")
	client := &mockMetadataClient{priceErr: wantErr}
	svc := NewMetadataService(client, nil, nil)

	if _, err := svc.Snapshot(context.Background(), "BTCUSDT"); !errors.Is(err, wantErr) {
		t.Fatalf("expected ticker error, got %v", err)
	}

	client = &mockMetadataClient{price: 3.0, constraintsErr: errors.New("market missing")}
	svc = NewMetadataService(client, nil, nil)
	if _, err := svc.Snapshot(context.Background(), "BTCUSDT"); err == nil {
		t.Fatalf("expected constraints error to propagate")
	}
}

func TestMetadataServiceSnapshot_UsesConstraintsCache(t *testing.T) {
	st := newTestStore(t)
	cache, err := NewCache(st.DB(), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewCache returned error: %v", err)
	}

	client := &mockMetadataClient{
		price:       3.0,
		constraints: order.Constraints{QuantityPrecision: 8, QuantityStep: 1e-6, PriceStep: 0.01},
	}
	svc := NewMetadataService(client, cache, nil)

	if _, err := svc.Snapshot(context.Background(), "ETHUSDT"); err != nil {
		t.Fatalf("first Snapshot returned error: %v", err)
	}
	if client.fetchCalls != 1 {
		t.Fatalf("expected one exchange fetch, got %d", client.fetchCalls)
	}

	if _, err := svc.Snapshot(context.Background(), "ETHUSDT"); err != nil {
		t.Fatalf("second Snapshot returned error: %v", err)
	}
	if client.fetchCalls != 1 {
		t.Errorf("expected cached constraints to skip fetch, got %d calls", client.fetchCalls)
	}

	cached, ok, err := cache.Lookup(context.Background(), "ETHUSDT")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected constraints to be stored after first snapshot")
	}
	if cached != client.constraints {
		t.Errorf("expected %+v in cache, got %+v", client.constraints, cached)
	}
}
