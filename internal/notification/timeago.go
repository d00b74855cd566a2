package notification

import (
	"fmt"
	"math"
	"time"
)

const (
	minutesInDay        = 1440
	minutesInMonth      = 43200
	minutesInTwoMonths  = 86400
	minutesInAlmostTwoD = 2520
)

// TimeAgo renders the distance between ts and now in words with a suffix,
// e.g. "less than a minute ago", "about 2 hours ago", "in 3 days".
// It returns "N/A" when ts is empty or cannot be parsed.
func TimeAgo(ts string, now time.Time) string {
	if ts == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return "N/A"
	}

	earlier, later := t, now
	future := t.After(now)
	if future {
		earlier, later = now, t
	}

	words := distance(earlier, later)
	if future {
		return "in " + words
	}
	return words + " ago"
}

func distance(earlier, later time.Time) string {
	seconds := int64(later.Sub(earlier) / time.Second)
	minutes := int64(math.Round(float64(seconds) / 60))

	switch {
	case minutes < 2:
		if minutes == 0 {
			return "less than a minute"
		}
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < minutesInDay:
		hours := int64(math.Round(float64(minutes) / 60))
		return fmt.Sprintf("about %d hours", hours)
	case minutes < minutesInAlmostTwoD:
		return "1 day"
	case minutes < minutesInMonth:
		days := int64(math.Round(float64(minutes) / minutesInDay))
		return fmt.Sprintf("%d days", days)
	case minutes < minutesInTwoMonths:
		months := int64(math.Round(float64(minutes) / minutesInMonth))
		return plural("about %d month", months)
	}

	months := monthsBetween(earlier, later)
	if months < 12 {
		nearest := int64(math.Round(float64(minutes) / minutesInMonth))
		return plural("%d month", nearest)
	}

	years := months / 12
	rest := months % 12
	switch {
	case rest < 3:
		return plural("about %d year", years)
	case rest < 9:
		return plural("over %d year", years)
	default:
		return plural("almost %d year", years+1)
	}
}

// monthsBetween counts whole calendar months from earlier to later.
func monthsBetween(earlier, later time.Time) int64 {
	earlier, later = earlier.UTC(), later.UTC()
	months := int64(later.Year()-earlier.Year())*12 + int64(later.Month()-earlier.Month())
	if months > 0 && later.Day() < earlier.Day() {
		months--
	}
	return months
}

func plural(format string, n int64) string {
	s := fmt.Sprintf(format, n)
	if n != 1 {
		s += "s"
	}
	return s
}
