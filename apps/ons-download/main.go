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

// Command ons-download downloads the ONS time series described in a TOML
// config into per-series CSV files plus a metadata index. A sample config:
//
//	out_dir = "output"
//	parallel = 2
//
//	[[series]]
//	dataset = "trade"
//	label = "UK total exports"
//	[series.dimensions]
//	geography = "K02000001"
//	countriesandterritories = "W1"
//	direction = "EX"
//	standardindustrialtradeclassification = "T"
//
// Use ons-dimensions to discover valid dimension values for a dataset. One
// series failing does not abort the others; a per-series summary is reported
// at the end.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/AscendedCode/onsdata/ons"
	"github.com/AscendedCode/onsdata/ons/series"
)

type Flags struct {
	Config   string // required
	Out      string // overrides out_dir from the config
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("ons-download", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config", "", "TOML config file (required)")
	fs.StringVar(&flags.Out, "out", "", "output directory; overrides out_dir from the config")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -config argument")
	}
	return &flags, err
}

// Env are environment overrides shared by all the apps.
type Env struct {
	BaseURL string        `envconfig:"ONS_BASE_URL"`
	Timeout time.Duration `envconfig:"ONS_TIMEOUT"`
}

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

func download(ctx context.Context, flags *Flags) error {
	ctx, err := apiContext(ctx)
	if err != nil {
		return err
	}
	config, err := series.LoadConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	outDir := config.OutDir
	if flags.Out != "" {
		outDir = flags.Out
	}
	if outDir == "" {
		outDir = "output"
	}
	logging.Infof(ctx, "downloading %d series...", len(config.Series))
	results := series.NewDownloader(config).DownloadAll(ctx)
	series.LogSummary(ctx, results)
	if err := series.WriteAll(ctx, outDir, results); err != nil {
		return errors.Annotate(err, "failed to write output")
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

	if err := download(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
