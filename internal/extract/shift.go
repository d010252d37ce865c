package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shift defaults. "K" (kapanış, closing) always ends at ClosingTime.
const (
	DefaultShiftStart = "18:00"
	DefaultShiftEnd   = "06:00"
	ClosingTime       = "06:00"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	clockRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Shift is a normalized working window in 24h "HH:MM".
type Shift struct {
	Start string
	End   string
}

// ParseShift converts free-text shift notation into a Shift:
//
//	"19:00-K", "12:00--K" -> start, 06:00
//	"17:00-04:00"         -> 17:00, 04:00
//	"9:00"                -> 09:00, 06:00
//	"" or unparseable     -> 18:00, 06:00
func ParseShift(raw string) Shift {
	cleaned := strings.ToUpper(strings.ReplaceAll(whitespaceRe.ReplaceAllString(raw, ""), "--", "-"))
	if cleaned == "" {
		return Shift{Start: DefaultShiftStart, End: DefaultShiftEnd}
	}

	clocks := clockRe.FindAllStringSubmatch(cleaned, -1)

	if strings.Contains(cleaned, "-K") || strings.HasSuffix(cleaned, "K") {
		start := DefaultShiftStart
		if len(clocks) > 0 {
			start = padClock(clocks[0])
		}
		return Shift{Start: start, End: ClosingTime}
	}

	switch {
	case len(clocks) >= 2:
		return Shift{Start: padClock(clocks[0]), End: padClock(clocks[1])}
	case len(clocks) == 1:
		return Shift{Start: padClock(clocks[0]), End: ClosingTime}
	default:
		return Shift{Start: DefaultShiftStart, End: DefaultShiftEnd}
	}
}

func padClock(m []string) string {
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", h, mm)
}
