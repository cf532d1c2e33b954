// Package format renders addresses, amounts and explorer links for display.
package format

import (
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale used for amounts; Bolivian Spanish groups with '.' and uses ',' for decimals.
var Locale = language.MustParse("es-BO")

const maxFractionDigits = 3

// Address shortens an address to its first six and last four characters.
func Address(addr string) string {
	if addr == "" {
		return ""
	}
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// Amount renders a decimal string with locale grouping and at most three
// fraction digits, rounding half away from zero. Arithmetic is exact for any
// length of input. Non-numeric input is returned unchanged.
func Amount(amount string) string {
	return AmountIn(Locale, amount)
}

// AmountIn renders amount for tag.
func AmountIn(tag language.Tag, amount string) string {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" || !isDecimal(trimmed) {
		return amount
	}
	value, ok := new(big.Rat).SetString(trimmed)
	if !ok {
		return amount
	}
	rounded := strings.TrimRight(value.FloatString(maxFractionDigits), "0")
	rounded = strings.TrimSuffix(rounded, ".")
	whole, fraction, _ := strings.Cut(rounded, ".")

	p := message.NewPrinter(tag)
	var out string
	if n, err := strconv.ParseUint(whole, 10, 64); err == nil {
		out = p.Sprint(number.Decimal(n))
	} else {
		out = group(whole, groupSeparator(p))
	}
	if fraction != "" {
		out += decimalSeparator(p) + fraction
	}
	return out
}

// AddressURL links an address on the block explorer.
func AddressURL(explorer, addr string) string {
	return join(explorer, "address", addr)
}

// TxURL links a transaction on the block explorer.
func TxURL(explorer, hash string) string {
	return join(explorer, "tx", hash)
}

func join(base, kind, id string) string {
	if base == "" || id == "" {
		return ""
	}
	u, err := url.JoinPath(base, kind, id)
	if err != nil {
		return ""
	}
	return u
}

func isDecimal(s string) bool {
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0:
			dot = true
		default:
			return false
		}
	}
	return true
}

// decimalSeparator extracts the locale decimal mark from a rendered 0.5.
func decimalSeparator(p *message.Printer) string {
	return strings.TrimSuffix(strings.TrimPrefix(p.Sprint(number.Decimal(0.5)), "0"), "5")
}

// groupSeparator extracts the locale thousands mark from a rendered 1000000.
func groupSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(uint64(1000000)))
	if len(s) < 7 {
		return ""
	}
	return s[1 : 1+(len(s)-7)/2]
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
