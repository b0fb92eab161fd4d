package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "", false},
		{"1.234", "", false},
		{"12.345", "", false},
		{"1,234", "", false},
		{"0.10", "0.10", true},
		{" 2.50 ", "2.50", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"1.234.567", "1234567.00", true},
		{".5", "0.50", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1e3", "", false},
		{"12a", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.StringFixed(2) != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got.StringFixed(2), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":        "R$ 0,00",
		"5":        "R$ 5,00",
		"100.5":    "R$ 100,50",
		"1000":     "R$ 1.000,00",
		"1234.56":  "R$ 1.234,56",
		"1000000":  "R$ 1.000.000,00",
		"-10":      "-R$ 10,00",
		"-1234.5":  "-R$ 1.234,50",
		"0.005":    "R$ 0,01",
		"99999.99": "R$ 99.999,99",
	}
	for in, want := range cases {
		if got := FormatBRL(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatBRL(%s) = %q, want %q", in, got, want)
		}
	}
}
