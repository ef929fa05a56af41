package utils

import "testing"

func TestValidNumero(t *testing.T) {
	cases := []struct {
		numero string
		want   bool
	}{
		{"0001/2025", true},
		{"0456/2025", true},
		{"9999/1999", true},
		{"456/2025", false},   // sequence must be zero-padded to four digits
		{"00456/2025", false}, // and no longer than four
		{"0456-2025", false},
		{"0456/25", false},
		{"", false},
		{"abcd/2025", false},
		{" 0456/2025", false},
	}
	for _, c := range cases {
		if got := ValidNumero(c.numero); got != c.want {
			t.Errorf("ValidNumero(%q) = %v, want %v", c.numero, got, c.want)
		}
	}
}

func TestFormatNumero(t *testing.T) {
	cases := []struct {
		n, ano int
		want   string
	}{
		{1, 2025, "0001/2025"},
		{456, 2025, "0456/2025"},
		{9999, 2025, "9999/2025"},
	}
	for _, c := range cases {
		if got := FormatNumero(c.n, c.ano); got != c.want {
			t.Errorf("FormatNumero(%d, %d) = %q, want %q", c.n, c.ano, got, c.want)
		}
	}
}

func TestParseNumero(t *testing.T) {
	cases := []struct {
		numero string
		want   int
		ok     bool
	}{
		{"0456/2025", 456, true},
		{"0001/2025", 1, true},
		{"9999/1999", 9999, true},
		{"sem-barra", 0, false},
		{"abcd/2025", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumero(c.numero)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumero(%q) = (%d, %v), want (%d, %v)", c.numero, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	numero := FormatNumero(457, 2025)
	if !ValidNumero(numero) {
		t.Fatalf("formatted numero %q is not valid", numero)
	}
	n, ok := ParseNumero(numero)
	if !ok || n != 457 {
		t.Fatalf("ParseNumero(%q) = (%d, %v), want (457, true)", numero, n, ok)
	}
}
