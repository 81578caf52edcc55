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
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Filename converts a human label like "GDP growth (QoQ)" into a CSV file
// name like "gdp_growth_qoq.csv".
func Filename(label string) string {
	s := strings.ToLower(label)
	s = strings.NewReplacer("%", "pct", "&", "and", "/", "_").Replace(s)
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_") + ".csv"
}
