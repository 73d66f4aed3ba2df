package scoring

import (
	"strconv"
	"strings"
	"time"
)

// ParseDecimal parses numeric candidate input. Applications arrive from
// several locales, so a comma decimal separator is accepted everywhere a
// number is.
func ParseDecimal(input string) (float64, bool) {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses the date formats accepted on DATE questions.
func ParseDate(input string) (time.Time, bool) {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, cleaned); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// dateToDays converts a timestamp to whole days since the Unix epoch, the
// granularity all DATE interpolation runs at.
func dateToDays(t time.Time) float64 {
	return float64(t.Unix() / 86400)
}

// normalizeText makes text comparison case- and whitespace-insensitive.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}
