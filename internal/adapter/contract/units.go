package contract

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a decimal string into base units with the given decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" || !digitsOnly(whole) || !digitsOnly(frac) {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return v, nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	if pad := int(decimals) + 1 - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	cut := len(digits) - int(decimals)
	whole, frac := digits[:cut], strings.TrimRight(digits[cut:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
