package billing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// StorageLayout is year-first, the layout persisted on stay records.
	StorageLayout = "2006-01-02"
	// DisplayLayout is day-first, the layout shown on screens and invoices.
	DisplayLayout = "02-01-2006"
)

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts a hyphen-separated date in either year-first
// (2024-03-15) or day-first (15-03-2024) order. A 4 digit first segment
// selects year-first. A trailing time part ("2024-03-15T10:00:00Z") is ignored.
func ParseDate(text string) (time.Time, error) {
	raw := strings.TrimSpace(text)
	if i := strings.IndexAny(raw, "T "); i > 0 {
		raw = raw[:i]
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
		}
		nums[i] = n
	}

	var year, month, day int
	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else if len(parts[2]) == 4 {
		day, month, year = nums[0], nums[1], nums[2]
	} else {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31-02 into March; reject instead of shifting the stay.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return t, nil
}

// DaysBetween returns the number of billable nights between two dates.
// Same day bills as one night; partial days round up; never below one.
func DaysBetween(start, end time.Time) int {
	if start.Equal(end) {
		return 1
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func ToDisplayFormat(t time.Time) string {
	return t.Format(DisplayLayout)
}

func ToStorageFormat(t time.Time) string {
	return t.Format(StorageLayout)
}

// NormalizeStorage parses text in either layout and re-renders it year-first.
func NormalizeStorage(text string) (string, error) {
	t, err := ParseDate(text)
	if err != nil {
		return "", err
	}
	return ToStorageFormat(t), nil
}

// NormalizeDisplay parses text in either layout and re-renders it day-first.
func NormalizeDisplay(text string) (string, error) {
	t, err := ParseDate(text)
	if err != nil {
		return "", err
	}
	return ToDisplayFormat(t), nil
}
