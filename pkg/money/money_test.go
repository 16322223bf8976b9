package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"2.675", "2.68"},
		{"100", "100"},
		{"0.335", "0.34"},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.in)
		got := Round2(d)
		want, _ := decimal.NewFromString(c.want)
		if !got.Equal(want) {
			t.Fatalf("Round2(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	base := decimal.NewFromInt(10000)
	rate := decimal.NewFromInt(5)
	got := Percent(base, rate)
	if got.StringFixed(2) != "500.00" {
		t.Fatalf("Percent(10000, 5) = %s, want 500.00", got)
	}
}

func TestFromPtr(t *testing.T) {
	if !FromPtr(nil).IsZero() {
		t.Fatal("FromPtr(nil) should be zero")
	}
	v := decimal.NewFromInt(7)
	if !FromPtr(&v).Equal(v) {
		t.Fatal("FromPtr should dereference")
	}
}
