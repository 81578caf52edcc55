// Copyright 2025 AscendedCode

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ons

import (
	"strconv"
	"strings"
	"time"
)

// ParsePeriod interprets a period label as a calendar instant. The API uses
// several period naming schemes; the ones recognized here are:
//
//	Nov-25      month-year; two-digit years 69-99 are 19xx (strptime pivot)
//	2025
//	2025-11
//	2025 Q3     quarters map to their first month
//	2025-11-14
//
// The second value is false when the label matches none of them.
func ParsePeriod(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	formats := []string{
		"Jan-06",
		"2006",
		"2006-01",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	if fields := strings.Fields(s); len(fields) == 2 && len(fields[1]) == 2 &&
		(fields[1][0] == 'Q' || fields[1][0] == 'q') {
		y, err := strconv.Atoi(fields[0])
		q := int(fields[1][1] - '0')
		if err == nil && q >= 1 && q <= 4 {
			return time.Date(y, time.Month(3*q-2), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
