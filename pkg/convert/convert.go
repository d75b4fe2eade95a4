// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions of form and query
values.

A malformed value yields the zero value instead of an error. Search filters
and checkbox fields rely on that; form fields that must reject bad input
are checked by the validate package first.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}

// ToBool parses a checkbox or flag value. Besides the [strconv.ParseBool]
// spellings it accepts "on", which browsers send for a checked box.
func ToBool(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.EqualFold(s, "on") {
		return true
	}

	v, _ := strconv.ParseBool(s)
	return v
}

// ToFloat64 converts a string to a float64, swallowing errors.
func ToFloat64(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	v, _ := strconv.ParseFloat(s, 64)
	return v
}
