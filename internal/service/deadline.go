package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mtlprog/momentum/internal/validation"
)

// DefaultDeadline returns tomorrow's date in the form's DD.MM.YYYY layout.
func DefaultDeadline(now time.Time) string {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return tomorrow.Format(validation.DateLayout)
}

// ToAPIDate rewrites a DD.MM.YYYY deadline as YYYY-MM-DD for the API.
func ToAPIDate(deadline string) (string, error) {
	parts := strings.Split(deadline, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid deadline %q", deadline)
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}
