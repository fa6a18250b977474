package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromFloat_RoundsToCent(t *testing.T) {
	tests := []struct {
		in   float64
		want Amount
	}{
		{0, 0},
		{12.34, 1234},
		{12.345, 1235},
		{12.344, 1234},
		{-12.345, -1235},
		{120000, 12_000_000},
	}
	for _, tt := range tests {
		if got := FromFloat(tt.in); got != tt.want {
			t.Errorf("FromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"1000", 100_000},
		{"$1,234.56", 123_456},
		{"-20", -2000},
		{"-$20.005", -2001},
		{" 40_000 ", 4_000_000},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "$", "12.3.4"} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidAmount", bad, err)
		}
	}
}

func TestMul_HalfAwayFromZero(t *testing.T) {
	// 0.05 * 0.5 = 0.025 -> 0.03
	got := FromCents(5).Mul(decimal.RequireFromString("0.5"))
	if got != 3 {
		t.Fatalf("Mul = %d, want 3", got)
	}
	got = FromCents(-5).Mul(decimal.RequireFromString("0.5"))
	if got != -3 {
		t.Fatalf("Mul negative = %d, want -3", got)
	}
}

func TestEscalate(t *testing.T) {
	base := FromFloat(10000)
	rate := decimal.RequireFromString("0.03")

	if got := base.Escalate(rate, 0); got != base {
		t.Fatalf("Escalate 0 periods = %s, want %s", got, base)
	}
	// 10000 * 1.03^2 = 10609
	if got := base.Escalate(rate, 2); got != FromFloat(10609) {
		t.Fatalf("Escalate 2 periods = %s, want 10609.00", got)
	}
	// 10000 * 1.03^10 = 13439.1637... -> 13439.16
	if got := base.Escalate(rate, 10); got != FromCents(1_343_916) {
		t.Fatalf("Escalate 10 periods = %s, want 13439.16", got)
	}
}

func TestGrowthFactor_TotalLoss(t *testing.T) {
	f := GrowthFactor(decimal.NewFromInt(-1), 3)
	if !f.IsZero() {
		t.Fatalf("GrowthFactor(-1, 3) = %s, want 0", f)
	}
	if !GrowthFactor(decimal.NewFromInt(-1), 0).Equal(decimal.NewFromInt(1)) {
		t.Fatal("GrowthFactor with zero periods should be 1")
	}
}

func TestString(t *testing.T) {
	if s := FromCents(-100_000).String(); s != "-1000.00" {
		t.Fatalf("String = %q, want -1000.00", s)
	}
	if s := FromCents(5).String(); s != "0.05" {
		t.Fatalf("String = %q, want 0.05", s)
	}
}

func TestJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1050.5, "b": "$2,000"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != 105_050 || v.B != 200_000 {
		t.Fatalf("decoded = %d, %d", v.A, v.B)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":1050.50,"b":2000.00}` {
		t.Fatalf("encoded = %s", out)
	}
}

func TestFromDecimal_Saturates(t *testing.T) {
	huge := decimal.NewFromInt(11).Pow(decimal.NewFromInt(40))
	if got := FromDecimal(huge); got != MaxAmount {
		t.Errorf("FromDecimal(11^40) = %d, want MaxAmount", got)
	}
	if got := FromDecimal(huge.Neg()); got != MinAmount {
		t.Errorf("FromDecimal(-11^40) = %d, want MinAmount", got)
	}
	if got := FromCents(100_000_000).Mul(huge); got != MaxAmount {
		t.Errorf("Mul overflow = %d, want MaxAmount", got)
	}
}

func TestSum_Saturates(t *testing.T) {
	tests := []struct {
		name string
		in   []Amount
		want Amount
	}{
		{"plain", []Amount{100, -30, 5}, 75},
		{"empty", nil, 0},
		{"overflow", []Amount{MaxAmount - 10, 50}, MaxAmount},
		{"underflow", []Amount{MinAmount + 10, -50}, MinAmount},
		{"recovers after clamp", []Amount{MaxAmount, 1, -MaxAmount}, 0},
	}
	for _, tt := range tests {
		if got := Sum(tt.in...); got != tt.want {
			t.Errorf("%s: Sum = %d, want %d", tt.name, got, tt.want)
		}
	}
}
