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

// Package series implements batch downloading of ONS time series into CSV
// files. A batch run is driven by a TOML config listing the series, each
// identified by a dataset, an optional pinned edition and the concrete
// option code for every dimension except time, which is always wildcarded to
// fetch the full series.
//
// Series are independent and downloaded with a bounded worker pool; one
// series failing does not abort the others. Requests are rate limited out of
// politeness to the shared public endpoint.
package series

import (
	"context"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"golang.org/x/time/rate"

	"github.com/AscendedCode/onsdata/ons"
)

// Spec describes one series to download.
type Spec struct {
	Dataset string `toml:"dataset"`
	Label   string `toml:"label"`
	// Edition pins a named edition, e.g. "time-series" or "PWT24". Empty
	// resolves the dataset's latest version across all editions.
	Edition string `toml:"edition,omitempty"`
	// Dimensions maps each dimension name to its option code. The time
	// dimension is implied and wildcarded.
	Dimensions map[string]string `toml:"dimensions"`
}

// Config drives a batch download run.
type Config struct {
	OutDir     string  `toml:"out_dir"`
	Parallel   int     `toml:"parallel"`            // worker pool size, default 1
	RPS        float64 `toml:"requests_per_second"` // politeness limit, default 2
	Retries    int     `toml:"retries"`             // transport retries per series, default 3
	ChronoSort bool    `toml:"chronological_sort"`  // sort by parsed period label, default true
	Series     []Spec  `toml:"series"`
}

// LoadConfig reads and validates a TOML batch config.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file '%s'", path)
	}
	defer f.Close()

	c := Config{Parallel: 1, RPS: 2.0, Retries: 3, ChronoSort: true}
	d := toml.NewDecoder(f)
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file '%s'", path)
	}
	if len(c.Series) == 0 {
		return nil, errors.Reason("config '%s' defines no series", path)
	}
	seen := make(map[string]bool)
	for i, s := range c.Series {
		if s.Dataset == "" {
			return nil, errors.Reason("series #%d has no dataset", i+1)
		}
		if s.Label == "" {
			return nil, errors.Reason("series #%d (%s) has no label", i+1, s.Dataset)
		}
		if seen[s.Label] {
			return nil, errors.Reason("duplicate series label '%s'", s.Label)
		}
		seen[s.Label] = true
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	if c.RPS <= 0 {
		c.RPS = 2.0
	}
	return &c, nil
}

// Row is one exported observation row.
type Row struct {
	Period string  // machine-sortable period id
	Label  string  // human period label
	Value  float64
}

// CSV implements table.Row.
func (r Row) CSV() []string {
	return []string{r.Period, r.Label, formatValue(r.Value)}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Result of one series download. Err is set when the series failed; the
// other fields are valid only when it is nil.
type Result struct {
	Spec     Spec
	Ref      *ons.VersionRef
	Rows     []Row
	Failures []ons.ValueParseError
	Stats    Stats
	Err      error
}

type refKey struct {
	dataset string
	edition string
}

// Downloader downloads the configured series, isolating failures per series.
type Downloader struct {
	config  *Config
	limiter *rate.Limiter

	mu   sync.Mutex
	refs map[refKey]*ons.VersionRef
}

// NewDownloader creates a Downloader for the config.
func NewDownloader(c *Config) *Downloader {
	return &Downloader{
		config:  c,
		limiter: rate.NewLimiter(rate.Limit(c.RPS), 1),
		refs:    make(map[refKey]*ons.VersionRef),
	}
}

// resolveRef resolves the version for a series and caches it by (dataset,
// edition), so several series of the same dataset share one resolution.
// Concurrent first lookups may resolve twice; the duplicate work is harmless.
func (d *Downloader) resolveRef(ctx context.Context, spec Spec) (*ons.VersionRef, error) {
	key := refKey{dataset: spec.Dataset, edition: spec.Edition}
	d.mu.Lock()
	ref, ok := d.refs[key]
	d.mu.Unlock()
	if ok {
		return ref, nil
	}
	var err error
	if spec.Edition != "" {
		ref, err = ons.ResolveEditionVersion(ctx, spec.Dataset, spec.Edition)
	} else {
		ref, err = ons.ResolveLatestVersion(ctx, spec.Dataset)
	}
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.refs[key] = ref
	d.mu.Unlock()
	return ref, nil
}

// tryDownload performs a single download attempt for one series.
func (d *Downloader) tryDownload(ctx context.Context, spec Spec, res *Result) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return errors.Annotate(err, "canceled while rate limited")
	}
	ref, err := d.resolveRef(ctx, spec)
	if err != nil {
		return err
	}
	res.Ref = ref

	dims, err := ons.Dimensions(ctx, ref)
	if err != nil {
		return err
	}
	names := ons.DimensionNames(dims)
	a := make(ons.Assignment, len(names))
	for name, code := range spec.Dimensions {
		a[name] = ons.Code(code)
	}
	for _, name := range names {
		if strings.EqualFold(name, "time") {
			a[name] = ons.Wildcard()
		}
	}
	less := ons.ByPeriodID
	if d.config.ChronoSort {
		less = ons.ByPeriodChronology
	}
	r, err := ons.FetchObservations(ctx, ref, names, a, less)
	if err != nil {
		return err
	}
	if len(r.Observations) == 0 && len(r.Failures) == 0 {
		return errors.Reason("no observations returned for '%s'", spec.Label)
	}
	res.Rows = make([]Row, len(r.Observations))
	for i, o := range r.Observations {
		res.Rows[i] = Row{Period: o.PeriodID, Label: o.PeriodLabel, Value: o.Value}
	}
	res.Failures = r.Failures
	res.Stats = newStats(res.Rows)
	return nil
}

// download runs one series with exponential backoff on transport errors.
// Resource errors such as an unknown dataset are not retried.
func (d *Downloader) download(ctx context.Context, spec Spec) *Result {
	res := &Result{Spec: spec}
	var err error
	for attempt := 0; ; attempt++ {
		err = d.tryDownload(ctx, spec, res)
		var te *ons.TransportError
		if err == nil || !errors.As(err, &te) || attempt >= d.config.Retries {
			break
		}
		delay := time.Second << uint(attempt)
		logging.Warningf(ctx, "transport error for '%s', retrying in %s: %s",
			spec.Label, delay, err.Error())
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			res.Err = err
			return res
		}
	}
	res.Err = err
	return res
}

// DownloadAll downloads every configured series using a worker pool of the
// configured size. One series failing does not abort the others; each Result
// carries its own error. Results come back in config order.
func (d *Downloader) DownloadAll(ctx context.Context) []*Result {
	f := func(spec Spec) *Result {
		res := d.download(ctx, spec)
		if res.Err != nil {
			logging.Warningf(ctx, "failed to download '%s': %s",
				spec.Label, res.Err.Error())
		} else {
			logging.Infof(ctx, "downloaded '%s': %d observations, %d skipped",
				spec.Label, len(res.Rows), len(res.Failures))
		}
		return res
	}
	pm := iterator.ParallelMap(ctx, d.config.Parallel, iterator.FromSlice(d.config.Series), f)
	defer pm.Close()

	results := iterator.Reduce[*Result, []*Result](pm, []*Result{},
		func(r *Result, rs []*Result) []*Result { return append(rs, r) })

	order := make(map[string]int, len(d.config.Series))
	for i, s := range d.config.Series {
		order[s.Label] = i
	}
	sort.Slice(results, func(i, j int) bool {
		return order[results[i].Spec.Label] < order[results[j].Spec.Label]
	})
	return results
}

// LogSummary reports the per-series outcome of a batch run, successes first.
func LogSummary(ctx context.Context, results []*Result) {
	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	logging.Infof(ctx, "downloaded %d of %d series", succeeded, len(results))
	for _, r := range results {
		if r.Err != nil {
			logging.Warningf(ctx, "  %s: %s: %s", r.Spec.Dataset, r.Spec.Label,
				r.Err.Error())
		}
	}
}
