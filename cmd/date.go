// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// resolveDate turns the --month / --day flags into a concrete date,
// defaulting to today. month accepts an English name ("June") or a number
// (1-12); day is validated against the month's length in a leap year so
// February 29 stays reachable.
func resolveDate(month string, day int, now time.Time) (time.Month, int, error) {
	resolvedMonth := now.Month()
	resolvedDay := now.Day()

	if month != "" {
		m, err := parseMonth(month)
		if err != nil {
			return 0, 0, err
		}

		resolvedMonth = m
		// An explicit month without a day means the 1st, not today's day.
		if day == 0 {
			resolvedDay = 1
		}
	}

	if day != 0 {
		resolvedDay = day
	}

	// Year 2024 is a leap year, so February allows 29 days.
	maxDay := time.Date(2024, resolvedMonth+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if resolvedDay < 1 || resolvedDay > maxDay {
		return 0, 0, fmt.Errorf("day %d is out of range for %s", resolvedDay, resolvedMonth)
	}

	return resolvedMonth, resolvedDay, nil
}

func parseMonth(value string) (time.Month, error) {
	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d is out of range", n)
		}

		return time.Month(n), nil
	}

	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(value, m.String()) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown month %q", value)
}
