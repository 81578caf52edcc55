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
	"net/http"
	"testing"

	"github.com/stockparfait/errors"

	"github.com/AscendedCode/onsdata/ons/onstest"

	. "github.com/smartystreets/goconvey/convey"
)

func obsJSON(period, label, value string) string {
	return `{"observation": "` + value + `", "dimensions": {"Time": {"id": "` +
		period + `", "label": "` + label + `"}}}`
}

func TestObservations(t *testing.T) {
	server := onstest.NewServer()
	defer server.Close()
	URL = server.URL() + "/v1"
	ctx := UseClient(context.Background(), server.Client(), 0)

	obsPath := "/v1/datasets/trade/editions/time-series/versions/5/observations"
	ref := &VersionRef{
		Dataset: "trade",
		Edition: "time-series",
		Version: 5,
		URL:     URL + "/datasets/trade/editions/time-series/versions/5",
	}
	dims := []string{
		"countriesandterritories",
		"direction",
		"geography",
		"standardindustrialtradeclassification",
		"time",
	}

	Convey("A full assignment fetches a flattened series", t, func() {
		server.Respond(obsPath, http.StatusOK, `
{"observations": [`+
			obsJSON("feb-24", "Feb-24", "268.2")+","+
			obsJSON("jan-24", "Jan-24", "255.9")+","+
			obsJSON("mar-24", "Mar-24", "271.4")+`
], "total_observations": 3}`)

		a := Assignment{
			"geography":                             Code("K02000001"),
			"countriesandterritories":               Code("W1"),
			"direction":                             Code("EX"),
			"standardindustrialtradeclassification": Code("T"),
			"time":                                  Wildcard(),
		}
		res, err := FetchObservations(ctx, ref, dims, a, nil)
		So(err, ShouldBeNil)
		So(res.Failures, ShouldBeEmpty)
		So(res.Observations, ShouldResemble, []Observation{
			{PeriodID: "feb-24", PeriodLabel: "Feb-24", Value: 268.2},
			{PeriodID: "jan-24", PeriodLabel: "Jan-24", Value: 255.9},
			{PeriodID: "mar-24", PeriodLabel: "Mar-24", Value: 271.4},
		})

		Convey("with every dimension in the query string", func() {
			q := server.Query(obsPath)
			So(q.Get("time"), ShouldEqual, "*")
			So(q.Get("geography"), ShouldEqual, "K02000001")
			So(q.Get("direction"), ShouldEqual, "EX")
		})
	})

	Convey("ByPeriodChronology sorts by calendar order of labels", t, func() {
		server.Respond(obsPath, http.StatusOK, `
{"observations": [`+
			obsJSON("apr-24", "Apr-24", "3")+","+
			obsJSON("dec-23", "Dec-23", "1")+","+
			obsJSON("feb-24", "Feb-24", "2")+`
], "total_observations": 3}`)

		a := Assignment{
			"countriesandterritories":               Code("W1"),
			"direction":                             Code("IM"),
			"geography":                             Code("K02000001"),
			"standardindustrialtradeclassification": Code("T"),
			"time":                                  Wildcard(),
		}
		res, err := FetchObservations(ctx, ref, dims, a, ByPeriodChronology)
		So(err, ShouldBeNil)
		So(res.Observations[0].PeriodLabel, ShouldEqual, "Dec-23")
		So(res.Observations[1].PeriodLabel, ShouldEqual, "Feb-24")
		So(res.Observations[2].PeriodLabel, ShouldEqual, "Apr-24")
	})

	Convey("Sentinel values are collected, not fatal", t, func() {
		server.Respond(obsPath, http.StatusOK, `
{"observations": [`+
			obsJSON("jan-24", "Jan-24", "123.45")+","+
			obsJSON("feb-24", "Feb-24", ".")+`
], "total_observations": 2}`)

		a := Assignment{
			"countriesandterritories":               Code("W1"),
			"direction":                             Code("EX"),
			"geography":                             Code("K02000001"),
			"standardindustrialtradeclassification": Code("T"),
			"time":                                  Wildcard(),
		}
		res, err := FetchObservations(ctx, ref, dims, a, nil)
		So(err, ShouldBeNil)
		So(res.Observations, ShouldResemble, []Observation{
			{PeriodID: "jan-24", PeriodLabel: "Jan-24", Value: 123.45},
		})
		So(res.Failures, ShouldResemble, []ValueParseError{
			{PeriodID: "feb-24", Value: "."},
		})
	})

	Convey("Assignment validation runs before any request", t, func() {
		before := server.TotalCalls()

		Convey("every missing dimension is itemized at once", func() {
			a := Assignment{
				"direction": Code("EX"),
				"time":      Wildcard(),
			}
			_, err := FetchObservations(ctx, ref, dims, a, nil)
			var inc *IncompleteAssignmentError
			So(errors.As(err, &inc), ShouldBeTrue)
			So(inc.Missing, ShouldResemble, []string{
				"countriesandterritories",
				"geography",
				"standardindustrialtradeclassification",
			})
			So(server.TotalCalls(), ShouldEqual, before)
		})

		Convey("an unknown dimension is rejected", func() {
			a := Assignment{
				"countriesandterritories":               Code("W1"),
				"direction":                             Code("EX"),
				"geography":                             Code("K02000001"),
				"standardindustrialtradeclassification": Code("T"),
				"time":                                  Wildcard(),
				"planet":                                Code("earth"),
			}
			_, err := FetchObservations(ctx, ref, dims, a, nil)
			var nf *DimensionNotFoundError
			So(errors.As(err, &nf), ShouldBeTrue)
			So(nf.Dimension, ShouldEqual, "planet")
			So(server.TotalCalls(), ShouldEqual, before)
		})

		Convey("at most one wildcard is allowed", func() {
			a := Assignment{
				"countriesandterritories":               Wildcard(),
				"direction":                             Code("EX"),
				"geography":                             Code("K02000001"),
				"standardindustrialtradeclassification": Code("T"),
				"time":                                  Wildcard(),
			}
			_, err := FetchObservations(ctx, ref, dims, a, nil)
			var wc *WildcardError
			So(errors.As(err, &wc), ShouldBeTrue)
			So(wc.Dimensions, ShouldResemble,
				[]string{"countriesandterritories", "time"})
			So(server.TotalCalls(), ShouldEqual, before)
		})
	})

	Convey("A lowercase time key is recognized too", t, func() {
		server.Respond(obsPath, http.StatusOK, `
{"observations": [
  {"observation": "7.5", "dimensions": {"time": {"id": "2024", "label": "2024"}}}
], "total_observations": 1}`)

		a := Assignment{
			"countriesandterritories":               Code("W1"),
			"direction":                             Code("EX"),
			"geography":                             Code("K02000001"),
			"standardindustrialtradeclassification": Code("T"),
			"time":                                  Wildcard(),
		}
		res, err := FetchObservations(ctx, ref, dims, a, nil)
		So(err, ShouldBeNil)
		So(res.Observations, ShouldResemble, []Observation{
			{PeriodID: "2024", PeriodLabel: "2024", Value: 7.5},
		})
	})
}
