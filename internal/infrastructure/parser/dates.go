package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var indonesianMonths = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maret":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"agustus":   time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"desember":  time.December,
}

var (
	indonesianDateExpr = regexp.MustCompile(`(?i)(\d{1,2})\s+([a-z]+)\s+(\d{4})(?:[, ]+(\d{1,2})[:.](\d{2}))?`)
	slashDateExpr      = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// ParsePublishedTime interprets the date strings seen across the
// configured portals: ISO 8601 and RSS timestamp layouts, Indonesian
// month-name dates ("Senin, 15 Januari 2024 10:30 WIB"), and
// slash-delimited day/month/year. Unparseable input falls back to
// fallback rather than an error.
func ParsePublishedTime(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	if m := indonesianDateExpr.FindStringSubmatch(raw); m != nil {
		if month, ok := indonesianMonths[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			hour, minute := 0, 0
			if m[4] != "" {
				hour, _ = strconv.Atoi(m[4])
				minute, _ = strconv.Atoi(m[5])
			}
			if day >= 1 && day <= 31 {
				return time.Date(year, month, day, hour, minute, 0, 0, jakartaLocation())
			}
		}
	}

	if m := slashDateExpr.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, jakartaLocation())
		}
	}

	return fallback
}

func jakartaLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}
