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

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// Dimensions lists the dimensions of a resolved version. Every one of them
// must be assigned a value in an observation query. The dimension list of a
// version fits in a single response, so this call is not paged.
func Dimensions(ctx context.Context, ref *VersionRef) ([]Dimension, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	var p page[Dimension]
	if err := c.getJSON(ctx, ref.URL+"/dimensions", &p, nil); err != nil {
		return nil, mapStatus(err, &VersionNotFoundError{URL: ref.URL})
	}
	return p.Items, nil
}

// DimensionNames extracts the sorted set of dimension names.
func DimensionNames(dims []Dimension) []string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name
	}
	slices.Sort(names)
	return names
}

// Options pages through the valid option codes of the dimension with the
// given options id (see Dimension.OptionsID). Option counts can exceed one
// page, e.g. the time dimension of a long series. The API's order is
// preserved for display but carries no meaning; treat the result as a set.
// The iterator fails with *DimensionNotFoundError if the dimension does not
// belong to the version.
func Options(ctx context.Context, ref *VersionRef, dimension string, pageSize int) *PageIterator[Option] {
	return newPageIterator[Option](ctx, ref.URL+"/dimensions/"+dimension+"/options",
		pageSize, &DimensionNotFoundError{Dimension: dimension})
}
