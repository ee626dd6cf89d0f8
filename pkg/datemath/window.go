package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var lastDurationRe = regexp.MustCompile(`^(?:last|past) (\d+) (hour|hours|day|days|week|weeks|month|months)$`)

// ParseWindow converts a relative range phrase to an absolute half-open
// window. Recognized phrases: "today", "yesterday", "this week",
// "this month", "last hour", "last N hours/days/weeks/months".
// Unrecognized input returns an error so callers can keep the raw value.
func (p *Parser) ParseWindow(relative string, baseTime time.Time) (Window, error) {
	relative = strings.ToLower(strings.TrimSpace(relative))
	base := baseTime.In(p.location)
	tomorrow := p.startOfDay(base.AddDate(0, 0, 1))

	switch relative {
	case "today":
		return Window{Start: p.startOfDay(base), End: tomorrow}, nil
	case "yesterday":
		return Window{Start: p.startOfDay(base.AddDate(0, 0, -1)), End: p.startOfDay(base)}, nil
	case "this week":
		return Window{Start: p.startOfWeek(base), End: tomorrow}, nil
	case "this month":
		return Window{Start: time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, p.location), End: tomorrow}, nil
	case "last hour", "past hour":
		return Window{Start: base.Add(-time.Hour), End: base}, nil
	}

	matches := lastDurationRe.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return Window{}, fmt.Errorf("unrecognized range: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch {
	case strings.HasPrefix(unit, "hour"):
		return Window{Start: base.Add(-time.Duration(amount) * time.Hour), End: base}, nil
	case strings.HasPrefix(unit, "day"):
		return Window{Start: p.startOfDay(base.AddDate(0, 0, -amount)), End: tomorrow}, nil
	case strings.HasPrefix(unit, "week"):
		return Window{Start: p.startOfDay(base.AddDate(0, 0, -amount*7)), End: tomorrow}, nil
	case strings.HasPrefix(unit, "month"):
		return Window{Start: p.startOfDay(base.AddDate(0, -amount, 0)), End: tomorrow}, nil
	}

	return Window{}, fmt.Errorf("unknown range unit: %q", unit)
}

// startOfWeek returns midnight on Monday of the week containing t.
func (p *Parser) startOfWeek(t time.Time) time.Time {
	t = t.In(p.location)
	offset := int(t.Weekday() - time.Monday)
	if offset < 0 {
		offset += 7
	}
	return p.startOfDay(t.AddDate(0, 0, -offset))
}
