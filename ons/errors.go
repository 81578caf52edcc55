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
	"fmt"
	"strings"
)

// TransportError is a network, timeout or malformed-response failure. It is
// always safe to retry the call with backoff; the client itself never
// retries, the retry count is the caller's decision.
type TransportError struct {
	Timeout bool // the request deadline expired
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return "transport: timeout: " + e.Err.Error()
	}
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError is a 400 response from the API, carrying the server's message.
// The client validates assignments before the request, so this normally
// indicates a disagreement with the server rather than a local bug.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("bad request (%d): %s", e.Status, e.Message)
}

// DatasetNotFoundError: the dataset id is unknown to the API. Not retryable.
type DatasetNotFoundError struct {
	Dataset string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset '%s' not found", e.Dataset)
}

// EditionNotFoundError: the dataset has no edition with this id.
type EditionNotFoundError struct {
	Dataset string
	Edition string
}

func (e *EditionNotFoundError) Error() string {
	return fmt.Sprintf("dataset '%s' has no edition '%s'", e.Dataset, e.Edition)
}

// VersionNotFoundError: no version resource exists at the resolved URL.
type VersionNotFoundError struct {
	URL string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("no version at '%s'", e.URL)
}

// DimensionNotFoundError: the dimension does not belong to the version.
type DimensionNotFoundError struct {
	Dimension string
}

func (e *DimensionNotFoundError) Error() string {
	return fmt.Sprintf("dimension '%s' not found", e.Dimension)
}

// NoVersionsError: the dataset exists but none of its editions has a
// published version.
type NoVersionsError struct {
	Dataset string
}

func (e *NoVersionsError) Error() string {
	return fmt.Sprintf("dataset '%s' has no published versions", e.Dataset)
}

// IncompleteAssignmentError reports every dimension of the target version
// that lacks a value. It is raised before any network call, unlike the
// server's 400 which names only the first missing dimension.
type IncompleteAssignmentError struct {
	Missing []string // sorted
}

func (e *IncompleteAssignmentError) Error() string {
	return "assignment is missing dimensions: " + strings.Join(e.Missing, ", ")
}

// WildcardError: more than one dimension carries the wildcard. The API
// accepts at most one.
type WildcardError struct {
	Dimensions []string // sorted
}

func (e *WildcardError) Error() string {
	return "more than one wildcarded dimension: " + strings.Join(e.Dimensions, ", ")
}

// ValueParseError is a single observation whose value field is not a number.
// The API represents suppressed or missing values as sentinel strings; these
// are collected per record and never abort a fetch.
type ValueParseError struct {
	PeriodID string
	Value    string // the raw value field
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("unparseable value '%s' for period '%s'", e.Value, e.PeriodID)
}
