package runkey

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the eight-digit date form embedded in run keys and filenames.
const DateLayout = "20060102"

// Key identifies one weekly data set as a closed date interval. The string
// form "YYYYMMDD-YYYYMMDD" is a hard on-disk contract: every stage resolves
// paths from it and retention cleanup parses folder names back into it.
type Key struct {
	Start time.Time
	End   time.Time
}

// FromLookback derives the key for a window of lookbackDays ending today (UTC).
func FromLookback(lookbackDays int, now time.Time) Key {
	today := now.UTC().Truncate(24 * time.Hour)
	return Key{
		Start: today.AddDate(0, 0, -lookbackDays),
		End:   today,
	}
}

// Parse converts a "YYYYMMDD-YYYYMMDD" string into a Key.
func Parse(value string) (Key, error) {
	trimmed := strings.TrimSpace(value)
	parts := strings.Split(trimmed, "-")
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("run key %q: expected YYYYMMDD-YYYYMMDD", value)
	}
	start, err := time.ParseInLocation(DateLayout, parts[0], time.UTC)
	if err != nil {
		return Key{}, fmt.Errorf("run key %q: start date: %w", value, err)
	}
	end, err := time.ParseInLocation(DateLayout, parts[1], time.UTC)
	if err != nil {
		return Key{}, fmt.Errorf("run key %q: end date: %w", value, err)
	}
	if end.Before(start) {
		return Key{}, fmt.Errorf("run key %q: start must not be after end", value)
	}
	return Key{Start: start, End: end}, nil
}

// String renders the canonical YYYYMMDD-YYYYMMDD form.
func (k Key) String() string {
	return k.Start.Format(DateLayout) + "-" + k.End.Format(DateLayout)
}

// Contains reports whether the given date falls inside the closed interval.
func (k Key) Contains(date time.Time) bool {
	d := date.UTC().Truncate(24 * time.Hour)
	return !d.Before(k.Start) && !d.After(k.End)
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.Start.IsZero() && k.End.IsZero()
}

// DisplayRange renders "2026/02/18 – 2026/02/25" for user-facing output.
func (k Key) DisplayRange() string {
	const layout = "2006/01/02"
	return k.Start.Format(layout) + " – " + k.End.Format(layout)
}
