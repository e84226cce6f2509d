package utils

import "testing"

func TestKoboToNaira(t *testing.T) {
	cases := []struct {
		kobo, naira int64
	}{
		{0, 0},
		{100, 1},
		{1500000, 15000},
		{50000000, 500000},
	}
	for _, c := range cases {
		if got := KoboToNaira(c.kobo); got != c.naira {
			t.Errorf("KoboToNaira(%d) = %d, want %d", c.kobo, got, c.naira)
		}
	}
}

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "NGN 0"},
		{950, "NGN 950"},
		{15000, "NGN 15,000"},
		{1250000, "NGN 1,250,000"},
		{-5000, "-NGN 5,000"},
	}
	for _, c := range cases {
		if got := FormatNaira(c.amount); got != c.want {
			t.Errorf("FormatNaira(%d) = %q, want %q", c.amount, got, c.want)
		}
	}

	// Receipt PDFs render through the cp1252 core fonts; the output must
	// stay within ASCII.
	for _, c := range cases {
		for _, r := range FormatNaira(c.amount) {
			if r > 127 {
				t.Errorf("FormatNaira(%d) contains non-ASCII rune %q", c.amount, r)
			}
		}
	}
}

func TestParseNairaToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"₦15,000", 15000},
		{"15000", 15000},
		{" NGN 2,500 ", 2500},
		{"₦0", 0},
	}
	for _, c := range cases {
		got, err := ParseNairaToInt(c.in)
		if err != nil {
			t.Errorf("ParseNairaToInt(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNairaToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	if _, err := ParseNairaToInt(""); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseNairaToInt("abc"); err == nil {
		t.Error("expected error for non numeric input")
	}
}
