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

package series

import (
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the downloaded values of one series, for the metadata
// index of a batch run.
type Stats struct {
	Count  int
	First  string // period id of the first row
	Last   string // period id of the last row
	Mean   float64
	StdDev float64 // 0 for fewer than two rows
}

func newStats(rows []Row) Stats {
	s := Stats{Count: len(rows)}
	if len(rows) == 0 {
		return s
	}
	s.First = rows[0].Period
	s.Last = rows[len(rows)-1].Period
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.Value
	}
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
