package utils

import (
	"reflect"
	"testing"
)

func TestSplitSeatList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"A1,A2", []string{"A1", "A2"}},
		{"a1; b2 ,c3", []string{"A1", "B2", "C3"}},
		{" A1 ,, ", []string{"A1"}},
		{"", []string{}},
	}
	for _, c := range cases {
		if got := SplitSeatList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitSeatList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  Ada   Obi "); got != "Ada Obi" {
		t.Errorf("NormalizeSpace = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" 0803 000 0000 "); got != "08030000000" {
		t.Errorf("NormalizePhone = %q", got)
	}
	if got := NormalizePhone(""); got != "" {
		t.Errorf("NormalizePhone empty = %q", got)
	}
}
