package render

import (
	"fmt"
	"time"
	"unicode/utf16"
)

// StatusColor returns the accent colour of a status column.
func StatusColor(statusID int) string {
	switch statusID {
	case 1:
		return "#F7BC30"
	case 2:
		return "#FB5607"
	case 3:
		return "#FF006E"
	case 4:
		return "#3A86FF"
	default:
		return "#FFFFFF"
	}
}

// PriorityColor returns the colour of a priority badge.
func PriorityColor(priorityID int) string {
	switch priorityID {
	case 1:
		return "#08A508"
	case 2:
		return "#FFBE0B"
	default:
		return "#FA4D4D"
	}
}

// DepartmentColor derives a stable colour from a department name.
// The hash runs over UTF-16 code units with 32-bit shift semantics so
// colours match the ones shown by the web client.
func DepartmentColor(name string) string {
	var h int64
	for _, c := range utf16.Encode([]rune(name)) {
		h = int64(c) + (int64(int32(uint32(h)<<5)) - h)
	}
	return fmt.Sprintf("#%06x", uint32(h)&0xffffff)
}

var georgianWeekdays = [...]string{"კვი", "ორშ", "სამ", "ოთხ", "ხუთ", "პარ", "შაბ"}

// GeorgianDate formats a date as "<weekday> - dd/M/yyyy" with the Georgian
// weekday abbreviation.
func GeorgianDate(t time.Time) string {
	return georgianWeekdays[t.Weekday()] + " - " + t.Format("02/1/2006")
}

// ParseDueDate parses an API due date (RFC 3339 or a bare date).
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
