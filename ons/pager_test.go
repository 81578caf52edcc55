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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stockparfait/errors"

	"github.com/AscendedCode/onsdata/ons/onstest"

	. "github.com/smartystreets/goconvey/convey"
)

// servePaged serves slices of ids as dataset pages honoring offset/limit.
func servePaged(ids []string, withTotal bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		if offset > len(ids) {
			offset = len(ids)
		}
		end := offset + limit
		if end > len(ids) {
			end = len(ids)
		}
		items := []map[string]string{}
		for _, id := range ids[offset:end] {
			items = append(items, map[string]string{"id": id})
		}
		resp := map[string]interface{}{
			"items":  items,
			"count":  len(items),
			"offset": offset,
			"limit":  limit,
		}
		if withTotal {
			resp["total_count"] = len(ids)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func datasetIDs(datasets []Dataset) []string {
	ids := make([]string, len(datasets))
	for i, d := range datasets {
		ids[i] = d.ID
	}
	return ids
}

func TestPager(t *testing.T) {
	server := onstest.NewServer()
	defer server.Close()
	URL = server.URL() + "/v1"
	ctx := UseClient(context.Background(), server.Client(), 0)

	Convey("PageIterator delivers every item exactly once", t, func() {
		ids := []string{"a", "b", "c", "d", "e", "f", "g"}
		server.Handle("/v1/datasets", servePaged(ids, false))

		for _, pageSize := range []int{1, 2, 3, 4, 7, 8, 50} {
			Convey(fmt.Sprintf("with page size %d", pageSize), func() {
				datasets, err := ListDatasets(ctx, pageSize).All()
				So(err, ShouldBeNil)
				So(datasetIDs(datasets), ShouldResemble, ids)
			})
		}
	})

	Convey("PageIterator stops on total_count without an extra request", t, func() {
		ids := []string{"a", "b", "c", "d", "e", "f"}
		server.Handle("/v1/datasets/totals/editions", servePaged(ids, true))

		it := ListEditions(ctx, "totals", 3)
		items, err := it.All()
		So(err, ShouldBeNil)
		So(len(items), ShouldEqual, 6)
		So(server.Calls("/v1/datasets/totals/editions"), ShouldEqual, 2)
	})

	Convey("PageIterator requests the configured page size", t, func() {
		server.Handle("/v1/datasets/sized/editions", servePaged([]string{"x"}, false))
		_, err := ListEditions(ctx, "sized", 25).All()
		So(err, ShouldBeNil)
		q := server.Query("/v1/datasets/sized/editions")
		So(q.Get("limit"), ShouldEqual, "25")
		So(q.Get("offset"), ShouldEqual, "0")
	})

	Convey("An empty first page yields zero items, not an error", t, func() {
		server.Respond("/v1/datasets/empty/editions", http.StatusOK,
			`{"items": [], "count": 0, "offset": 0, "limit": 50, "total_count": 0}`)
		items, err := ListEditions(ctx, "empty", 0).All()
		So(err, ShouldBeNil)
		So(len(items), ShouldEqual, 0)
	})

	Convey("A server error becomes a retryable TransportError", t, func() {
		server.Respond("/v1/datasets/broken/editions", http.StatusInternalServerError,
			`{"message": "internal error"}`)
		_, err := ListEditions(ctx, "broken", 0).All()
		var te *TransportError
		So(errors.As(err, &te), ShouldBeTrue)
		So(te.Timeout, ShouldBeFalse)
	})

	Convey("A 404 becomes the endpoint's not-found error", t, func() {
		_, err := ListEditions(ctx, "no-such-dataset", 0).All()
		var nf *DatasetNotFoundError
		So(errors.As(err, &nf), ShouldBeTrue)
		So(nf.Dataset, ShouldEqual, "no-such-dataset")
	})

	Convey("Malformed JSON becomes a TransportError", t, func() {
		server.Respond("/v1/datasets/garbled/editions", http.StatusOK, `{"items": [`)
		_, err := ListEditions(ctx, "garbled", 0).All()
		var te *TransportError
		So(errors.As(err, &te), ShouldBeTrue)
	})
}
