package streak

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidWeekday is returned when a weekday label is not one of the seven
// recognized values.
var ErrInvalidWeekday = errors.New("invalid weekday")

type weekdayEntry struct {
	day       time.Weekday
	canonical string
	aliases   []string
}

// weekdayTable is the only mapping between weekday labels and numbers.
// Labels from the legacy clients are Portuguese, newer ones English.
var weekdayTable = []weekdayEntry{
	{time.Sunday, "sunday", []string{"sun", "domingo", "dom"}},
	{time.Monday, "monday", []string{"mon", "segunda", "segunda-feira", "seg"}},
	{time.Tuesday, "tuesday", []string{"tue", "tues", "terca", "terca-feira", "ter"}},
	{time.Wednesday, "wednesday", []string{"wed", "quarta", "quarta-feira", "qua"}},
	{time.Thursday, "thursday", []string{"thu", "thur", "thurs", "quinta", "quinta-feira", "qui"}},
	{time.Friday, "friday", []string{"fri", "sexta", "sexta-feira", "sex"}},
	{time.Saturday, "saturday", []string{"sat", "sabado", "sab"}},
}

var weekdayByLabel = buildWeekdayIndex()

func buildWeekdayIndex() map[string]time.Weekday {
	index := make(map[string]time.Weekday, len(weekdayTable)*6)
	for _, entry := range weekdayTable {
		index[entry.canonical] = entry.day
		for _, alias := range entry.aliases {
			index[alias] = entry.day
		}
	}
	return index
}

// ParseWeekday resolves a weekday label ("Terça", "tuesday", "tue") to its
// number, Sunday = 0.
func ParseWeekday(label string) (time.Weekday, error) {
	key := foldLabel(label)
	if day, ok := weekdayByLabel[key]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, label)
}

// CanonicalWeekday normalizes a label into the stored form.
func CanonicalWeekday(label string) (string, error) {
	day, err := ParseWeekday(label)
	if err != nil {
		return "", err
	}
	return WeekdayLabel(day), nil
}

// WeekdayLabel returns the canonical label for a weekday number.
func WeekdayLabel(day time.Weekday) string {
	if day < time.Sunday || day > time.Saturday {
		return ""
	}
	return weekdayTable[day].canonical
}

// foldLabel trims, strips accents and case-folds a label.
func foldLabel(label string) string {
	label = strings.TrimSpace(label)
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, label)
	if err != nil {
		stripped = label
	}
	return cases.Fold().String(stripped)
}
