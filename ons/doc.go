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

// Package ons implements a client for the beta dataset API of the Office for
// National Statistics (ONS).
//
// Official documentation is at https://developer.ons.gov.uk/ .
//
// The API organizes data as dataset -> edition -> version. Observations can
// only be queried from a specific version URL, so a query always starts with
// ResolveLatestVersion or ResolveEditionVersion. Each version has a set of
// dimensions, every one of which must be assigned exactly one option code (or
// the wildcard, for at most one dimension) before observations can be
// fetched.
//
// List endpoints return results in offset/limit pages of up to 1000 items.
// PageIterator implements transparent paging over such endpoints, and is used
// internally for listing datasets, editions, versions and dimension options.
//
// All calls are synchronous and bound by the timeout configured in UseClient.
// The client never retries: transport failures are reported as
// *TransportError and the retry policy is left to the caller. Batch
// downloading on top of this package is implemented in the series subpackage.
package ons
