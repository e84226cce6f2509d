package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// KoboToNaira converts provider minor-unit amounts (kobo) to naira.
// Provider charges are whole-naira multiples of 100 in practice.
func KoboToNaira(kobo int64) int64 {
	return kobo / 100
}

// FormatNaira renders integer amount with thousand separators. The prefix
// stays ASCII: the naira sign is outside the cp1252 range the PDF core
// fonts encode.
func FormatNaira(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sNGN %s", sign, formatThousand(amount))
}

// ParseNairaToInt parses "₦1,000" or "1000" into an integer naira amount.
func ParseNairaToInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₦")
	s = strings.TrimPrefix(strings.ToLower(s), "ngn")
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(".", "", ",", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid naira amount")
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
