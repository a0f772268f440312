// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package strings

import (
	"sort"
	std_strings "strings"
)

func SortStable(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return s[i] < s[j] })
}

// SplitTrimmed splits on the separator and trims surrounding space from each
// element, dropping empties.
func SplitTrimmed(s, sep string) (parts []string) {
	for _, p := range std_strings.Split(s, sep) {
		p = std_strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
