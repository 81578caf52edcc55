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
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// DimensionValue is a single assignment value: either one concrete option
// code, or the wildcard meaning "all options". The wildcard is a tagged state
// rather than a magic string, so it cannot be confused with a legitimate
// option code. The zero value is an empty concrete code; use Code or
// Wildcard.
type DimensionValue struct {
	code     string
	wildcard bool
}

// Code assigns a concrete option code to a dimension.
func Code(code string) DimensionValue { return DimensionValue{code: code} }

// Wildcard selects all options of a dimension. At most one dimension of a
// query may be wildcarded.
func Wildcard() DimensionValue { return DimensionValue{wildcard: true} }

// IsWildcard reports whether v is the wildcard.
func (v DimensionValue) IsWildcard() bool { return v.wildcard }

// String returns the wire encoding of the value.
func (v DimensionValue) String() string {
	if v.wildcard {
		return "*"
	}
	return v.code
}

// Assignment maps every dimension name of a version to its value.
type Assignment map[string]DimensionValue

// validate checks that the assignment keys exactly equal the given dimension
// set, with at most one wildcard. It runs before any network call, turning
// the server's late, one-at-a-time 400 errors into a single early, itemized
// failure.
func (a Assignment) validate(dimensions []string) error {
	known := make(map[string]bool, len(dimensions))
	var missing []string
	for _, d := range dimensions {
		known[d] = true
		if _, ok := a[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &IncompleteAssignmentError{Missing: missing}
	}
	var wildcards []string
	for name, v := range a {
		if !known[name] {
			return &DimensionNotFoundError{Dimension: name}
		}
		if v.IsWildcard() {
			wildcards = append(wildcards, name)
		}
	}
	if len(wildcards) > 1 {
		slices.Sort(wildcards)
		return &WildcardError{Dimensions: wildcards}
	}
	return nil
}

// Observation is a single flattened (period, value) data point. PeriodID is
// the machine key of the time period and PeriodLabel its human label.
type Observation struct {
	PeriodID    string
	PeriodLabel string
	Value       float64
}

// Result of an observations fetch. Records with unparseable values are
// collected in Failures rather than aborting the fetch, so a partial result
// is still usable.
type Result struct {
	Observations []Observation
	Failures     []ValueParseError
}

// Less orders two observations. The default is ByPeriodID.
type Less func(a, b Observation) bool

// ByPeriodID orders observations by period id, ascending. Period ids are not
// guaranteed chronological across datasets; callers needing calendar order
// should use ByPeriodChronology.
func ByPeriodID(a, b Observation) bool { return a.PeriodID < b.PeriodID }

// ByPeriodChronology orders observations by the calendar instant parsed from
// their period labels (see ParsePeriod), falling back to the period id when
// either label does not parse.
func ByPeriodChronology(a, b Observation) bool {
	at, aok := ParsePeriod(a.PeriodLabel)
	bt, bok := ParsePeriod(b.PeriodLabel)
	if aok && bok && !at.Equal(bt) {
		return at.Before(bt)
	}
	return a.PeriodID < b.PeriodID
}

// Wire format of the observations endpoint.
type observationDimension struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type wireObservation struct {
	Observation string                          `json:"observation"`
	Dimensions  map[string]observationDimension `json:"dimensions"`
}

type observationsPayload struct {
	Observations      []wireObservation `json:"observations"`
	TotalObservations int               `json:"total_observations"`
}

// timeDimension finds the time dimension of an observation. Its key is
// capitalised differently across datasets.
func (w wireObservation) timeDimension() (observationDimension, bool) {
	for name, d := range w.Dimensions {
		if strings.EqualFold(name, "time") {
			return d, true
		}
	}
	return observationDimension{}, false
}

// FetchObservations retrieves the observations selected by the assignment
// and flattens them into (period, value) records sorted by less (ByPeriodID
// when nil).
//
// dimensions must be the full dimension name set of the version, as returned
// by DimensionNames. The assignment is validated against it before the
// request: a missing dimension fails with *IncompleteAssignmentError listing
// every missing name at once, an unknown one with *DimensionNotFoundError,
// and more than one wildcard with *WildcardError, all without a network
// round trip.
func FetchObservations(ctx context.Context, ref *VersionRef, dimensions []string, a Assignment, less Less) (*Result, error) {
	if err := a.validate(dimensions); err != nil {
		return nil, err
	}
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	q := make(url.Values)
	for name, v := range a {
		q.Set(name, v.String())
	}
	var p observationsPayload
	if err := c.getJSON(ctx, ref.URL+"/observations", &p, q); err != nil {
		return nil, mapStatus(err, &VersionNotFoundError{URL: ref.URL})
	}

	res := &Result{}
	for _, w := range p.Observations {
		d, ok := w.timeDimension()
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(w.Observation), 64)
		if err != nil {
			res.Failures = append(res.Failures, ValueParseError{
				PeriodID: d.ID,
				Value:    w.Observation,
			})
			continue
		}
		res.Observations = append(res.Observations, Observation{
			PeriodID:    d.ID,
			PeriodLabel: d.Label,
			Value:       v,
		})
	}
	if less == nil {
		less = ByPeriodID
	}
	sort.Slice(res.Observations, func(i, j int) bool {
		return less(res.Observations[i], res.Observations[j])
	})
	return res, nil
}
