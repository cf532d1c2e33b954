package contract

import (
	"math/big"
	"testing"
)

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"1", 18, "1000000000000000000", false},
		{"12.5", 6, "12500000", false},
		{"0.000001", 6, "1", false},
		{"0.0000001", 6, "", true},
		{"abc", 6, "", true},
		{".5", 6, "", true},
		{"1.2.3", 6, "", true},
		{"-1", 6, "", true},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.in, tc.decimals)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseUnits(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got.String() != tc.want {
			t.Errorf("ParseUnits(%q) = %v, %v; want %s", tc.in, got, err, tc.want)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		in       *big.Int
		decimals uint8
		want     string
	}{
		{big.NewInt(12500000), 6, "12.5"},
		{big.NewInt(1), 6, "0.000001"},
		{big.NewInt(1000), 0, "1000"},
		{big.NewInt(-1500), 3, "-1.5"},
		{nil, 6, "0"},
	}
	for _, tc := range cases {
		if got := FormatUnits(tc.in, tc.decimals); got != tc.want {
			t.Errorf("FormatUnits(%v, %d) = %q; want %q", tc.in, tc.decimals, got, tc.want)
		}
	}
}
