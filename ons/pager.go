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
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// DefaultPageSize is the number of items requested per page when the caller
// does not specify one. The API caps pages at 1000 items.
const DefaultPageSize = 50

// page is the envelope of every list endpoint.
type page[T any] struct {
	Items      []T `json:"items"`
	Count      int `json:"count"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
}

// PageIterator walks an offset/limit list endpoint item by item. Paging is
// handled transparently: the offset advances by the number of items received
// until a page comes back short or the reported total_count is exhausted. The
// sequence is finite and non-restartable, and an empty first page yields zero
// items rather than an error.
type PageIterator[T any] struct {
	ctx      context.Context
	path     string
	pageSize int
	notFound error // returned in place of a 404 from the endpoint

	page      page[T]
	index     int // the item for Next() to return
	offset    int
	total     int // total_count from the last page, when reported
	pageCount int // which page number we're on, for logging
	started   bool
	done      bool
}

// newPageIterator creates a new iterator over the endpoint at path (relative
// to the client's base URL, or an absolute link href).
func newPageIterator[T any](ctx context.Context, path string, pageSize int, notFound error) *PageIterator[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &PageIterator[T]{ctx: ctx, path: path, pageSize: pageSize, notFound: notFound}
}

// nextPage fetches and populates the iterator with the next page. The first
// return value is false when the sequence is exhausted or the request failed.
func (it *PageIterator[T]) nextPage() (bool, error) {
	if it.done {
		return false, nil
	}
	if it.started {
		if len(it.page.Items) < it.pageSize {
			return false, nil
		}
		if it.total > 0 && it.offset >= it.total {
			return false, nil
		}
	}
	it.started = true
	c := GetClient(it.ctx)
	if c == nil {
		return false, errors.Reason("no client in context")
	}
	q := make(url.Values)
	q.Set("offset", strconv.Itoa(it.offset))
	q.Set("limit", strconv.Itoa(it.pageSize))
	// Clear the page, in case the decoder doesn't overwrite some parts.
	it.page = page[T]{}
	if err := c.getJSON(it.ctx, c.endpoint(it.path), &it.page, q); err != nil {
		return false, mapStatus(err, it.notFound)
	}
	it.index = 0
	it.offset += len(it.page.Items)
	if it.page.TotalCount > 0 {
		it.total = it.page.TotalCount
	}
	it.pageCount++
	logging.Debugf(it.ctx, "ONS: fetched page %d of %s with %d items",
		it.pageCount, it.path, len(it.page.Items))
	return len(it.page.Items) > 0, nil
}

// Next returns the next item. The second value is false when the sequence is
// exhausted. The error, when non-nil, terminates the iterator.
func (it *PageIterator[T]) Next() (T, bool, error) {
	var zero T
	if !it.started || it.index >= len(it.page.Items) {
		ok, err := it.nextPage()
		if !ok {
			it.done = true
			return zero, false, err
		}
	}
	item := it.page.Items[it.index]
	it.index++
	return item, true, nil
}

// All drains the remaining items into a slice.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T
	for {
		item, ok, err := it.Next()
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, item)
	}
}

// ListDatasets pages through the entire dataset catalogue. A pageSize < 1
// uses DefaultPageSize.
func ListDatasets(ctx context.Context, pageSize int) *PageIterator[Dataset] {
	return newPageIterator[Dataset](ctx, "/datasets", pageSize,
		errors.Reason("dataset catalogue not found"))
}

// ListEditions pages through the editions of a dataset. The iterator fails
// with *DatasetNotFoundError if the dataset id is unknown.
func ListEditions(ctx context.Context, dataset string, pageSize int) *PageIterator[Edition] {
	return newPageIterator[Edition](ctx, "/datasets/"+dataset+"/editions", pageSize,
		&DatasetNotFoundError{Dataset: dataset})
}

// ListVersions pages through the versions of one edition. The iterator fails
// with *EditionNotFoundError if the dataset has no such edition.
func ListVersions(ctx context.Context, dataset, edition string, pageSize int) *PageIterator[Version] {
	return newPageIterator[Version](ctx,
		"/datasets/"+dataset+"/editions/"+edition+"/versions", pageSize,
		&EditionNotFoundError{Dataset: dataset, Edition: edition})
}
