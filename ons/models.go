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
	"encoding/json"
	"time"

	"github.com/stockparfait/errors"
)

// Link is a generic HAL-style link object.
type Link struct {
	HRef string `json:"href,omitempty"`
	ID   string `json:"id,omitempty"`
}

// DatasetLinks are the navigation links of a Dataset.
type DatasetLinks struct {
	Editions      *Link `json:"editions,omitempty"`
	LatestVersion *Link `json:"latest_version,omitempty"`
	Self          *Link `json:"self,omitempty"`
}

// Publisher of a dataset.
type Publisher struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	HRef string `json:"href,omitempty"`
}

// Dataset is the catalogue metadata of a single dataset. It is an immutable
// snapshot fetched per call; nothing is persisted locally.
type Dataset struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Keywords    []string     `json:"keywords,omitempty"`
	Publisher   *Publisher   `json:"publisher,omitempty"`
	Links       DatasetLinks `json:"links"`
}

// EditionLinks are the navigation links of an Edition.
type EditionLinks struct {
	LatestVersion *Link `json:"latest_version,omitempty"`
	Versions      *Link `json:"versions,omitempty"`
	Self          *Link `json:"self,omitempty"`
}

// Edition is a release variant of a dataset, e.g. "time-series" or a vintage
// code like "PWT24". Vintage codes are opaque strings with no ordering
// guarantee.
type Edition struct {
	Edition string       `json:"edition"`
	Links   EditionLinks `json:"links"`
}

// VersionLinks are the navigation links of a Version.
type VersionLinks struct {
	Self    *Link `json:"self,omitempty"`
	Version *Link `json:"version,omitempty"`
}

// Version is a specific published revision within an edition.
type Version struct {
	Version     int          `json:"version"`
	Edition     string       `json:"edition,omitempty"`
	ReleaseDate Time         `json:"release_date"`
	Links       VersionLinks `json:"links"`
}

// DimensionLinks are the navigation links of a Dimension.
type DimensionLinks struct {
	Options  *Link `json:"options,omitempty"`
	CodeList *Link `json:"code_list,omitempty"`
}

// Dimension is a named axis of a version along which observations are
// sliced. A full observation query assigns a value to every dimension.
type Dimension struct {
	Name  string         `json:"name"`
	Label string         `json:"label,omitempty"`
	Links DimensionLinks `json:"links"`
}

// OptionsID is the identifier of the options sub-endpoint, which differs from
// the display name on some datasets.
func (d Dimension) OptionsID() string {
	if d.Links.Options != nil && d.Links.Options.ID != "" {
		return d.Links.Options.ID
	}
	return d.Name
}

// Option is one valid value of a dimension.
type Option struct {
	Option string `json:"option"`
	Label  string `json:"label"`
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05.999Z07:00",
		"2006-01-02T15:04:05.999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var err error
	for _, f := range formats {
		var tm time.Time
		if tm, err = time.Parse(f, s); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, err
}

// Time is a wrapper around time.Time with JSON methods for the timestamp
// formats the API emits, primarily RFC 3339 release dates.
type Time time.Time

var _ json.Marshaler = Time{}
var _ json.Unmarshaler = &Time{}

// NewTime creates a Time in UTC. For use in tests.
func NewTime(year, month, day, hour, minute, second int) Time {
	return Time(time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC))
}

// String representation of Time.
func (t Time) String() string {
	return time.Time(t).Format("2006-01-02T15:04:05Z07:00")
}

// IsZero reports whether t is the zero time.
func (t Time) IsZero() bool { return time.Time(t).IsZero() }

// Before reports whether t is strictly earlier than t2.
func (t Time) Before(t2 Time) bool { return time.Time(t).Before(time.Time(t2)) }

// Equal reports whether t and t2 are the same instant.
func (t Time) Equal(t2 Time) bool { return time.Time(t).Equal(time.Time(t2)) }

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. An empty or null value parses as
// the zero time, since unpublished versions may omit the release date.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Time JSON must be a string")
	}
	if s == "" {
		*t = Time{}
		return nil
	}
	tm, err := parseTime(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse time string: '%s'", s)
	}
	*t = Time(tm)
	return nil
}
