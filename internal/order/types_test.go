package order

import (
	"strings"
	"testing"
)

func TestParseSide(t *testing.T) {
	cases := []struct {
		input   string
		want    Side
		wantErr bool
	}{
		{"BUY", SideBuy, false},
		{"sell", SideSell, false},
		{" Buy ", SideBuy, false},
		{"hold", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseSide(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSide(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSide(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSide(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSideLower(t *testing.T) {
	if got := SideSell.Lower(); got != "sell" {
		t.Errorf("expected sell, got %s", got)
	}
	if got := SideBuy.Lower(); got != "buy" {
		t.Errorf("expected buy, got %s", got)
	}
}

func TestRequestValidate_AcceptsValidRequest(t *testing.T) {
	req := makeBaseRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestRequestValidate_RejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty symbol", func(r *Request) { r.Symbol = "  " }},
		{"zero volume", func(r *Request) { r.QuoteVolume = 0 }},
		{"negative volume", func(r *Request) { r.QuoteVolume = -5 }},
		{"negative diff", func(r *Request) { r.QuoteDiff = -1 }},
		{"diff above volume", func(r *Request) { r.QuoteDiff = 11 }},
		{"zero splits", func(r *Request) { r.Splits = 0 }},
		{"bad side", func(r *Request) { r.Side = "HOLD" }},
		{"zero min price", func(r *Request) { r.MinPrice = 0 }},
		{"inverted price range", func(r *Request) { r.MinPrice = 4; r.MaxPrice = 2 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := makeBaseRequest()
			tc.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestRequestValidate_CollectsAllViolations(t *testing.T) {
	req := Request{}
	err := req.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, fragment := range []string{"交易对", "总量", "拆单笔数", "订单方向", "最低价"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("expected %q in aggregated error, got %s", fragment, msg)
		}
	}
}
