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
	"fmt"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// VersionRef identifies a resolved dataset version and the URL from which its
// dimensions and observations are reachable.
type VersionRef struct {
	Dataset     string
	Edition     string
	Version     int
	ReleaseDate Time
	URL         string
}

func (r *VersionRef) String() string {
	return fmt.Sprintf("%s/%s/v%d", r.Dataset, r.Edition, r.Version)
}

// FetchDataset retrieves the catalogue metadata of a single dataset. It fails
// with *DatasetNotFoundError when the id is unknown.
func FetchDataset(ctx context.Context, dataset string) (*Dataset, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	var d Dataset
	uri := c.endpoint("/datasets/" + dataset)
	if err := c.getJSON(ctx, uri, &d, nil); err != nil {
		return nil, mapStatus(err, &DatasetNotFoundError{Dataset: dataset})
	}
	if d.ID == "" {
		d.ID = dataset
	}
	return &d, nil
}

// parseVersionURL extracts the edition id and version number from a link of
// the form .../editions/<edition>/versions/<n>.
func parseVersionURL(href string) (edition string, version int) {
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		switch parts[i] {
		case "editions":
			edition = parts[i+1]
		case "versions":
			version, _ = strconv.Atoi(parts[i+1])
		}
	}
	return edition, version
}

// refFromLink builds a VersionRef from a latest_version link object.
func refFromLink(dataset string, l *Link) *VersionRef {
	edition, version := parseVersionURL(l.HRef)
	if version == 0 {
		version, _ = strconv.Atoi(l.ID)
	}
	return &VersionRef{
		Dataset: dataset,
		Edition: edition,
		Version: version,
		URL:     l.HRef,
	}
}

// refFromVersion builds a VersionRef from a listed version object.
func refFromVersion(c *Client, dataset, edition string, v Version) *VersionRef {
	if v.Edition != "" {
		edition = v.Edition
	}
	uri := ""
	if v.Links.Self != nil && v.Links.Self.HRef != "" {
		uri = v.Links.Self.HRef
	} else {
		uri = c.endpoint(fmt.Sprintf("/datasets/%s/editions/%s/versions/%d",
			dataset, edition, v.Version))
	}
	return &VersionRef{
		Dataset:     dataset,
		Edition:     edition,
		Version:     v.Version,
		ReleaseDate: v.ReleaseDate,
		URL:         uri,
	}
}

// laterVersion reports whether a is strictly more recent than b in the total
// order used by the resolvers: release timestamp, then version number, then
// edition id. The API defines no canonical ordering for vintage codes, so
// this order is part of the contract.
func laterVersion(a, b *VersionRef) bool {
	if !a.ReleaseDate.Equal(b.ReleaseDate) {
		return b.ReleaseDate.Before(a.ReleaseDate)
	}
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	return a.Edition > b.Edition
}

// latestOfEdition lists the versions of one edition and returns the most
// recent one per laterVersion, or nil when the edition has none.
func latestOfEdition(ctx context.Context, c *Client, dataset string, e Edition) (*VersionRef, error) {
	versions, err := ListVersions(ctx, dataset, e.Edition, 0).All()
	if err != nil {
		return nil, errors.Annotate(err,
			"failed to list versions of '%s' edition '%s'", dataset, e.Edition)
	}
	var best *VersionRef
	for _, v := range versions {
		ref := refFromVersion(c, dataset, e.Edition, v)
		if best == nil || laterVersion(ref, best) {
			best = ref
		}
	}
	return best, nil
}

// ResolveLatestVersion finds the most recent published version of a dataset.
//
// When the dataset metadata carries a direct latest_version link, it is
// returned immediately without enumerating editions. Otherwise every
// edition's versions are listed and ordered by release timestamp, breaking
// ties by the higher version number and then the lexicographically greater
// edition id.
//
// Fails with *DatasetNotFoundError when the dataset id is unknown, and with
// *NoVersionsError when editions exist but none has a version.
func ResolveLatestVersion(ctx context.Context, dataset string) (*VersionRef, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	d, err := FetchDataset(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if l := d.Links.LatestVersion; l != nil && l.HRef != "" {
		return refFromLink(dataset, l), nil
	}

	editions, err := ListEditions(ctx, dataset, 0).All()
	if err != nil {
		return nil, errors.Annotate(err, "failed to list editions of '%s'", dataset)
	}
	var best *VersionRef
	for _, e := range editions {
		ref, err := latestOfEdition(ctx, c, dataset, e)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			continue
		}
		if best == nil || laterVersion(ref, best) {
			best = ref
		}
	}
	if best == nil {
		return nil, &NoVersionsError{Dataset: dataset}
	}
	logging.Debugf(ctx, "ONS: resolved %s to %s", dataset, best)
	return best, nil
}

// ResolveEditionVersion finds the most recent version of one named edition,
// e.g. the default "time-series" edition or a vintage like "PWT24". The
// edition's own latest_version link is followed when present; otherwise its
// versions are listed and ordered as in ResolveLatestVersion.
//
// Fails with *DatasetNotFoundError when the dataset id is unknown, with
// *EditionNotFoundError when the dataset has no such edition, and with
// *NoVersionsError when the edition has no versions.
func ResolveEditionVersion(ctx context.Context, dataset, edition string) (*VersionRef, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	editions, err := ListEditions(ctx, dataset, 0).All()
	if err != nil {
		return nil, err
	}
	for _, e := range editions {
		if e.Edition != edition {
			continue
		}
		if l := e.Links.LatestVersion; l != nil && l.HRef != "" {
			return refFromLink(dataset, l), nil
		}
		ref, err := latestOfEdition(ctx, c, dataset, e)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			return nil, &NoVersionsError{Dataset: dataset}
		}
		return ref, nil
	}
	return nil, &EditionNotFoundError{Dataset: dataset, Edition: edition}
}
