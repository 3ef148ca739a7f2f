package helpers

import "testing"

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{5000, "Rp 5.000"},
		{25000, "Rp 25.000"},
		{1234567, "Rp 1.234.567"},
		{1000000000, "Rp 1.000.000.000"},
		{-25000, "-Rp 25.000"},
	}

	for _, tt := range tests {
		if got := FormatRupiah(tt.amount); got != tt.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestRupiahRoundTrip(t *testing.T) {
	for _, amount := range []int{0, 1, 999, 1000, 5000, 25000, 123456789, -42000} {
		parsed, err := ParseRupiah(FormatRupiah(amount))
		if err != nil {
			t.Fatalf("ParseRupiah(FormatRupiah(%d)): %v", amount, err)
		}
		if parsed != amount {
			t.Errorf("round trip changed %d to %d", amount, parsed)
		}
	}
}

func TestParseRupiahInvalid(t *testing.T) {
	for _, input := range []string{"", "Rp", "Rp abc", "25k"} {
		if _, err := ParseRupiah(input); err == nil {
			t.Errorf("ParseRupiah(%q) should fail", input)
		}
	}
}
