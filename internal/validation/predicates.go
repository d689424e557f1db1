package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mtlprog/momentum/internal/domain"
)

// Check names reported in FieldState.Checks.
const (
	CheckMinLength  = "minLength"
	CheckMaxLength  = "maxLength"
	CheckMinWords   = "minWords"
	CheckFormat     = "isValidFormat"
	CheckFutureDate = "isFutureDate"
	CheckPattern    = "pattern"
	CheckSize       = "size"
	CheckType       = "type"
)

// Limits of the text and file fields.
const (
	TitleMinLength       = 3
	TitleMaxLength       = 255
	DescriptionMinWords  = 4
	DescriptionMaxLength = 255
	NameMinLength        = 2
	NameMaxLength        = 255
	AvatarMaxSize        = 600 * 1024
)

// DateLayout is the user-facing deadline format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

var (
	deadlineFormat = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	namePattern    = regexp.MustCompile(`^[a-zA-Zა-ჰ\s]+$`)
)

// Clock returns the current time.
type Clock func() time.Time

// SystemClock is the wall clock.
var SystemClock Clock = time.Now

// Title checks a task title.
func Title(v string) map[string]bool {
	n := utf8.RuneCountInString(v)
	return map[string]bool{
		CheckMinLength: n >= TitleMinLength,
		CheckMaxLength: n <= TitleMaxLength,
	}
}

// Description checks a task description. A blank description is allowed.
func Description(v string) map[string]bool {
	if strings.TrimSpace(v) == "" {
		return map[string]bool{
			CheckMinWords:  true,
			CheckMaxLength: true,
		}
	}
	return map[string]bool{
		CheckMinWords:  len(strings.Fields(v)) >= DescriptionMinWords,
		CheckMaxLength: utf8.RuneCountInString(v) <= DescriptionMaxLength,
	}
}

// Deadline checks a DD.MM.YYYY date that must fall after today.
// The future check only passes when the format is valid.
func Deadline(v string, now time.Time) map[string]bool {
	checks := map[string]bool{
		CheckFormat:     deadlineFormat.MatchString(v),
		CheckFutureDate: false,
	}
	if !checks[CheckFormat] {
		return checks
	}

	date, err := ParseDate(v, now.Location())
	if err != nil {
		return checks
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	checks[CheckFutureDate] = date.After(today)

	return checks
}

// ParseDate builds the calendar date from DD.MM.YYYY parts.
// Out of range days and months roll over (32.01 is 1 February).
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return time.Time{}, strconv.ErrSyntax
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// PersonName checks an employee name or surname.
func PersonName(v string) map[string]bool {
	n := utf8.RuneCountInString(v)
	return map[string]bool{
		CheckMinLength: n >= NameMinLength,
		CheckMaxLength: n <= NameMaxLength,
		CheckPattern:   namePattern.MatchString(v),
	}
}

// Avatar checks an uploaded avatar. A missing file passes both checks but
// the field is still invalid.
func Avatar(f *domain.File) (checks map[string]bool, present bool) {
	if f == nil {
		return map[string]bool{CheckSize: true, CheckType: true}, false
	}
	return map[string]bool{
		CheckSize: f.Size() <= AvatarMaxSize,
		CheckType: strings.HasPrefix(f.ContentType, "image/"),
	}, true
}
