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

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stockparfait/logging"

	"github.com/AscendedCode/onsdata/ons"
	"github.com/AscendedCode/onsdata/ons/onstest"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	server := onstest.NewServer()
	defer server.Close()
	ons.URL = server.URL() + "/v1"

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-dataset", "trade", "-edition", "time-series", "-options", "3",
			"-log-level", "debug"})
		So(err, ShouldBeNil)
		So(flags.Dataset, ShouldEqual, "trade")
		So(flags.Edition, ShouldEqual, "time-series")
		So(flags.Options, ShouldEqual, 3)
		So(flags.LogLevel, ShouldEqual, logging.Debug)

		Convey("requires -dataset", func() {
			_, err := parseFlags([]string{"-options", "3"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("run prints dimensions and a config template", t, func() {
		base := server.URL() + "/v1"
		versionURL := base + "/datasets/trade/editions/time-series/versions/1"
		server.Respond("/v1/datasets/trade", http.StatusOK, fmt.Sprintf(
			`{"id": "trade", "links": {"latest_version": {"href": %q, "id": "1"}}}`,
			versionURL))
		versionPath := "/v1/datasets/trade/editions/time-series/versions/1"
		server.Respond(versionPath+"/dimensions", http.StatusOK, `
{"items": [
  {"name": "time", "label": "Time", "links": {"options": {"id": "time"}}},
  {"name": "geography", "label": "Geography", "links": {"options": {"id": "geography"}}}
], "count": 2, "offset": 0, "limit": 20, "total_count": 2}`)
		server.Respond(versionPath+"/dimensions/time/options", http.StatusOK, `
{"items": [
  {"option": "feb-24", "label": "Feb-24"},
  {"option": "jan-24", "label": "Jan-24"}
], "count": 2, "offset": 0, "limit": 50, "total_count": 2}`)
		server.Respond(versionPath+"/dimensions/geography/options", http.StatusOK, `
{"items": [
  {"option": "K02000001", "label": "United Kingdom"}
], "count": 1, "offset": 0, "limit": 50, "total_count": 1}`)

		flags, err := parseFlags([]string{"-dataset", "trade", "-options", "1"})
		So(err, ShouldBeNil)
		var buf bytes.Buffer
		So(run(context.Background(), flags, &buf), ShouldBeNil)
		So("\n"+buf.String(), ShouldEqual, fmt.Sprintf(`
Version URL: %s

Dimension: time (Time)
  2 valid option(s):
    feb-24: Feb-24
  ... and 1 more

Dimension: geography (Geography)
  1 valid option(s):
    K02000001: United Kingdom

[[series]]
dataset = "trade"
label = "trade"
[series.dimensions]
geography = "K02000001"  # United Kingdom
`, versionURL))
	})
}
