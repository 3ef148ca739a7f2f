package helpers

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupiah renders a whole-rupiah amount as "Rp 25.000".
func FormatRupiah(amount int) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := "Rp " + strings.Join(groups, ".")
	if negative {
		return "-" + formatted
	}
	return formatted
}

// ParseRupiah is the inverse of FormatRupiah: for any integer n,
// ParseRupiah(FormatRupiah(n)) == n.
func ParseRupiah(s string) (int, error) {
	s = strings.TrimSpace(s)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")

	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	amount, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}
