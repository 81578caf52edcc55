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

// Command ons-dimensions explores the dimensions of an ONS dataset: what
// axes it has, and which option codes are valid for each one. Knowing these
// is required before downloading observations; the command finishes by
// printing a template series entry for the ons-download config.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/AscendedCode/onsdata/ons"
)

type Flags struct {
	Dataset  string // required
	Edition  string // optional; default: resolve the latest across editions
	Options  int    // max options to print per dimension
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("ons-dimensions", flag.ExitOnError)
	fs.StringVar(&flags.Dataset, "dataset", "", "dataset id (required)")
	fs.StringVar(&flags.Edition, "edition", "", "edition id; default: latest version overall")
	fs.IntVar(&flags.Options, "options", 10, "max. options to print per dimension")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Dataset == "" {
		return nil, errors.Reason("missing required -dataset argument")
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

// printDimension writes one dimension's option summary.
func printDimension(w io.Writer, d ons.Dimension, options []ons.Option, max int) {
	label := d.Label
	if label == "" {
		label = d.Name
	}
	fmt.Fprintf(w, "Dimension: %s (%s)\n", d.Name, label)
	fmt.Fprintf(w, "  %d valid option(s):\n", len(options))
	for i, o := range options {
		if i >= max {
			fmt.Fprintf(w, "  ... and %d more\n", len(options)-max)
			break
		}
		fmt.Fprintf(w, "    %s: %s\n", o.Option, o.Label)
	}
	fmt.Fprintln(w)
}

// printTemplate writes a ready-to-edit series entry for the ons-download
// config, wildcarding time and picking the first option elsewhere.
func printTemplate(w io.Writer, flags *Flags, ref *ons.VersionRef, dims []ons.Dimension, options map[string][]ons.Option) {
	fmt.Fprintln(w, "[[series]]")
	fmt.Fprintf(w, "dataset = %q\n", flags.Dataset)
	fmt.Fprintf(w, "label = %q\n", flags.Dataset)
	if flags.Edition != "" {
		fmt.Fprintf(w, "edition = %q\n", ref.Edition)
	}
	fmt.Fprintln(w, "[series.dimensions]")
	for _, d := range dims {
		opts := options[d.Name]
		switch {
		case isTime(d.Name):
			// Implied wildcard; listed for documentation only.
		case len(opts) > 0:
			fmt.Fprintf(w, "%s = %q  # %s\n", d.Name, opts[0].Option, opts[0].Label)
		default:
			fmt.Fprintf(w, "%s = \"?\"\n", d.Name)
		}
	}
}

func isTime(name string) bool {
	return name == "time" || name == "Time"
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	ctx, err := apiContext(ctx)
	if err != nil {
		return err
	}
	var ref *ons.VersionRef
	if flags.Edition != "" {
		ref, err = ons.ResolveEditionVersion(ctx, flags.Dataset, flags.Edition)
	} else {
		ref, err = ons.ResolveLatestVersion(ctx, flags.Dataset)
	}
	if err != nil {
		return errors.Annotate(err, "failed to resolve '%s'", flags.Dataset)
	}
	fmt.Fprintf(w, "Version URL: %s\n\n", ref.URL)

	dims, err := ons.Dimensions(ctx, ref)
	if err != nil {
		return errors.Annotate(err, "failed to list dimensions")
	}
	options := make(map[string][]ons.Option, len(dims))
	for _, d := range dims {
		opts, err := ons.Options(ctx, ref, d.OptionsID(), 0).All()
		if err != nil {
			return errors.Annotate(err, "failed to list options of '%s'", d.Name)
		}
		options[d.Name] = opts
		printDimension(w, d, opts, flags.Options)
	}
	printTemplate(w, flags, ref, dims, options)
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
