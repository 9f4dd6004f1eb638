package nlp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the human-readable rendering persisted for
// reminders, e.g. "03:00 PM on June 01, 2025". Reload re-parses this
// exact layout, so FormatDisplay and ParseTime must stay in sync.
const DisplayLayout = "03:04 PM on January 02, 2006"

// ErrNoTime is returned when no time-like token can be recovered from
// a phrase. Callers must not schedule on this error.
var ErrNoTime = errors.New("no recognizable time in phrase")

// clockRx matches clock tokens like "3pm", "11:00 AM", "15:30".
var clockRx = regexp.MustCompile(`\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)?\b`)

// ParseTime converts a fuzzy time phrase into an absolute instant,
// using ref for every component the phrase leaves unspecified.
//
// Rollover: a clock-only phrase that resolves strictly before ref
// means the next occurrence of that time, so 24h is added. When
// explicitTomorrow is set the default date is already ref+24h and no
// further adjustment happens. Phrases that carry an
// explicit calendar date (the persisted display layout) are returned
// as-is; reload depends on past dates staying in the past.
func ParseTime(phrase string, ref time.Time, explicitTomorrow bool) (time.Time, error) {
	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("parse time %q: %w", phrase, ErrNoTime)
	}

	if t, err := time.ParseInLocation(DisplayLayout, trimmed, ref.Location()); err == nil {
		return t, nil
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "tomorrow") {
		explicitTomorrow = true
	}

	h, m, ok := findClock(lower)
	if !ok {
		return time.Time{}, fmt.Errorf("parse time %q: %w", phrase, ErrNoTime)
	}

	base := ref
	if explicitTomorrow {
		base = ref.Add(24 * time.Hour)
	}
	out := time.Date(base.Year(), base.Month(), base.Day(), h, m, 0, 0, ref.Location())

	if !explicitTomorrow && out.Before(ref) {
		out = out.Add(24 * time.Hour)
	}
	return out, nil
}

// FormatDisplay renders t in the persisted display layout.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// findClock extracts the first plausible clock token from a lowercase
// phrase and returns it as a 24h hour/minute pair.
func findClock(lower string) (hour, minute int, ok bool) {
	for _, m := range clockRx.FindAllStringSubmatch(lower, -1) {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if h < 1 || h > 12 {
				continue
			}
			if h != 12 {
				h += 12
			}
		case "am":
			if h < 1 || h > 12 {
				continue
			}
			if h == 12 {
				h = 0
			}
		default:
			// A bare number only counts as a clock reading when it has
			// minutes attached; "open 2 tabs" must not parse as 02:00.
			if m[2] == "" {
				continue
			}
			if h > 23 {
				continue
			}
		}
		return h, min, true
	}
	return 0, 0, false
}
