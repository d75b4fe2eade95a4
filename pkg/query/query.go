// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses repeated URL and form values.
package query

import "strconv"

// IntSlice parses repeated values (a multi-select, ?id=1&id=2) into
// integers. Invalid entries are skipped.
func IntSlice(vals []string) []int {
	var res []int
	for _, v := range vals {
		if i, err := strconv.Atoi(v); err == nil {
			res = append(res, i)
		}
	}
	return res
}
