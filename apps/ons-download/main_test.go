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
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	"github.com/AscendedCode/onsdata/ons"
	"github.com/AscendedCode/onsdata/ons/onstest"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	server := onstest.NewServer()
	defer server.Close()
	ons.URL = server.URL() + "/v1"

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_download_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-config", "series.toml", "-out", "csv", "-log-level", "warning"})
		So(err, ShouldBeNil)
		So(flags.Config, ShouldEqual, "series.toml")
		So(flags.Out, ShouldEqual, "csv")
		So(flags.LogLevel, ShouldEqual, logging.Warning)

		Convey("requires -config", func() {
			_, err := parseFlags([]string{"-out", "csv"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("download writes series CSVs and the metadata index", t, func() {
		base := server.URL() + "/v1"
		versionURL := base + "/datasets/trade/editions/time-series/versions/1"
		server.Respond("/v1/datasets/trade", http.StatusOK, fmt.Sprintf(
			`{"id": "trade", "links": {"latest_version": {"href": %q, "id": "1"}}}`,
			versionURL))
		versionPath := "/v1/datasets/trade/editions/time-series/versions/1"
		server.Respond(versionPath+"/dimensions", http.StatusOK, `
{"items": [
  {"name": "time", "links": {"options": {"id": "time"}}},
  {"name": "geography", "links": {"options": {"id": "geography"}}}
], "count": 2, "offset": 0, "limit": 20, "total_count": 2}`)
		server.Respond(versionPath+"/observations", http.StatusOK, `
{"observations": [
  {"observation": "268.2", "dimensions": {"Time": {"id": "feb-24", "label": "Feb-24"}}},
  {"observation": "255.9", "dimensions": {"Time": {"id": "jan-24", "label": "Jan-24"}}}
], "total_observations": 2}`)

		configFile := filepath.Join(tmpdir, "config.toml")
		So(testutil.WriteFile(configFile, `
[[series]]
dataset = "trade"
label = "UK exports"

[series.dimensions]
geography = "K02000001"
`), ShouldBeNil)

		outDir := filepath.Join(tmpdir, "out")
		flags, err := parseFlags([]string{"-config", configFile, "-out", outDir})
		So(err, ShouldBeNil)
		So(download(context.Background(), flags), ShouldBeNil)

		csv, err := os.ReadFile(filepath.Join(outDir, "uk_exports.csv"))
		So(err, ShouldBeNil)
		So("\n"+string(csv), ShouldEqual, `
period,period_label,value
jan-24,Jan-24,255.9
feb-24,Feb-24,268.2
`)

		meta, err := os.ReadFile(filepath.Join(outDir, "_metadata.csv"))
		So(err, ShouldBeNil)
		So("\n"+string(meta), ShouldEqual, `
dataset,filename,label,edition,version,observations,skipped,period_start,period_end,mean,stddev
trade,uk_exports.csv,UK exports,time-series,1,2,0,jan-24,feb-24,262.0500,8.6974
`)
	})
}
