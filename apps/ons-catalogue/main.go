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

// Command ons-catalogue lists every dataset available on the ONS API, as a
// readable text table or as CSV. Run it first to see what data is available.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/AscendedCode/onsdata/ons"
	"github.com/AscendedCode/onsdata/table"
)

type Flags struct {
	Out      string // output file; default stdout
	CSV      bool   // dump CSV format; default: text
	PageSize int
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("ons-catalogue", flag.ExitOnError)
	fs.StringVar(&flags.Out, "out", "", "output file; default: stdout")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.IntVar(&flags.PageSize, "page-size", 0, "items per API page; 0 = default")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	return &flags, err
}

// Env are environment overrides shared by all the apps.
type Env struct {
	BaseURL string        `envconfig:"ONS_BASE_URL"`
	Timeout time.Duration `envconfig:"ONS_TIMEOUT"`
}

// apiContext applies the environment overrides and injects the API client
// into the context.
func apiContext(ctx context.Context) (context.Context, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, errors.Annotate(err, "failed to read environment")
	}
	if env.BaseURL != "" {
		ons.URL = env.BaseURL
	}
	return ons.UseClient(ctx, nil, env.Timeout), nil
}

type catalogueRow struct {
	Dataset ons.Dataset
}

func (r catalogueRow) CSV() []string {
	publisher := ""
	if r.Dataset.Publisher != nil {
		publisher = r.Dataset.Publisher.Name
	}
	description := r.Dataset.Description
	if len(description) > 200 {
		description = description[:200]
	}
	return []string{
		r.Dataset.ID,
		r.Dataset.Title,
		publisher,
		strings.Join(r.Dataset.Keywords, ", "),
		description,
	}
}

func catalogueTable(ctx context.Context, pageSize int) (*table.Table, error) {
	datasets, err := ons.ListDatasets(ctx, pageSize).All()
	if err != nil {
		return nil, errors.Annotate(err, "failed to list datasets")
	}
	logging.Infof(ctx, "found %d datasets", len(datasets))
	tbl := table.NewTable("id", "title", "publisher", "keywords", "description")
	for _, d := range datasets {
		tbl.AddRow(catalogueRow{Dataset: d})
	}
	return tbl, nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	ctx, err := apiContext(ctx)
	if err != nil {
		return err
	}
	tbl, err := catalogueTable(ctx, flags.PageSize)
	if err != nil {
		return err
	}
	if flags.Out != "" {
		f, err := os.OpenFile(flags.Out, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Annotate(err, "failed to create '%s'", flags.Out)
		}
		defer f.Close()
		w = f
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{MaxColWidth: 60}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
