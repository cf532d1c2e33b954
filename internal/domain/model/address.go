package model

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress reports whether addr is a 0x-prefixed 20-byte hex address.
func IsValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// NormalizeAddress returns the EIP-55 checksum form of a valid address.
func NormalizeAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// SameAddress compares addresses ignoring case and surrounding whitespace.
func SameAddress(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// AccountKey returns the lowercased form used to scope stored collections.
func AccountKey(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
