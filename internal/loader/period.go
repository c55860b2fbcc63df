package loader

import (
	"fmt"
	"strconv"
	"strings"
)

// Unclassified labels records whose response id carries no usable period.
const Unclassified = "미분류"

// PeriodMode selects how response ids map to period labels.
type PeriodMode string

const (
	// PeriodIntegrated labels every record with its survey year.
	PeriodIntegrated PeriodMode = "integrated"
	// PeriodSplit labels the split year by half and other years by year.
	PeriodSplit PeriodMode = "split"
)

func ParsePeriodMode(s string) (PeriodMode, error) {
	switch PeriodMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodIntegrated:
		return PeriodIntegrated, nil
	case PeriodSplit:
		return PeriodSplit, nil
	}
	return "", fmt.Errorf("unknown period mode %q", s)
}

// ParsePeriod derives the display period from a response id of the form
// YYYY_H_n, where H is the half (1 or 2) and n a sequence number.
func ParsePeriod(responseID string, mode PeriodMode, splitYear int) string {
	parts := strings.Split(strings.TrimSpace(responseID), "_")
	if len(parts) < 2 {
		return Unclassified
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Unclassified
	}
	half, err := strconv.Atoi(parts[1])
	if err != nil || (half != 1 && half != 2) {
		return Unclassified
	}

	if mode == PeriodSplit && year == splitYear {
		if half == 1 {
			return fmt.Sprintf("%d년 상반기", year)
		}
		return fmt.Sprintf("%d년 하반기", year)
	}
	return fmt.Sprintf("%d년", year)
}
