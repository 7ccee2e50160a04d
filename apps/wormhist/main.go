// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/openworm/wormstats/features"
	"github.com/openworm/wormstats/plot"
	"github.com/openworm/wormstats/stats"
	"github.com/openworm/wormstats/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type Flags struct {
	Config   string // required
	Ctl      string // required
	Exp      string // optional
	LogLevel logging.Level
	CSV      bool   // dump CSV format; default: text
	JS       string // file to write versus plots to; requires -exp
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("wormhist", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config", "", "TOML config file (required)")
	fs.StringVar(&flags.Ctl, "ctl", "", "directory of control video CSV files (required)")
	fs.StringVar(&flags.Exp, "exp", "", "directory of experiment video CSV files")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.CSV, "csv", false, "print tables in CSV format; default: text")
	fs.StringVar(&flags.JS, "js", "", "write experiment vs control plots as JS to this file")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -config argument")
	}
	if flags.Ctl == "" {
		return nil, errors.Reason("missing required -ctl argument")
	}
	if flags.JS != "" && flags.Exp == "" {
		return nil, errors.Reason("-js requires -exp")
	}
	return &flags, nil
}

func printTable(w io.Writer, title string, t *table.Table, flags *Flags) error {
	if flags.CSV {
		return t.WriteCSV(w, table.Params{})
	}
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return errors.Annotate(err, "failed to write title")
	}
	return t.WriteText(w, table.Params{MaxColWidth: 40})
}

func loadSet(ctx context.Context, dir string, specs []*stats.BinSpec, workers int) (*features.Set, error) {
	videos, err := features.LoadVideos(ctx, dir)
	if err != nil {
		return nil, errors.Annotate(err, "failed to load videos")
	}
	return features.Build(ctx, videos, specs, workers)
}

func writePlots(ctx context.Context, path string, cmps []*stats.Comparison) error {
	ctx = plot.Use(ctx, plot.NewCanvas())
	for _, c := range cmps {
		if _, err := plot.Versus(ctx, c.Exp, c.Ctl); err != nil {
			return errors.Annotate(err, "failed to plot %s", c.Exp.Description())
		}
	}
	if err := plot.Significance(ctx, cmps); err != nil {
		return errors.Annotate(err, "failed to plot q-values")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to open %s", path)
	}
	defer f.Close()

	if err := plot.WriteJS(ctx, f); err != nil {
		return errors.Annotate(err, "failed to write plots to %s", path)
	}
	logging.Infof(ctx, "wrote %d plots to %s", len(cmps), path)
	return nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := features.ParseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	specs, err := config.Specs()
	if err != nil {
		return errors.Annotate(err, "invalid config")
	}
	ctl, err := loadSet(ctx, flags.Ctl, specs, config.Workers)
	if err != nil {
		return errors.Annotate(err, "failed to build control histograms")
	}
	if err := printTable(w, "Control", table.SummaryTable(ctl.Histograms()), flags); err != nil {
		return errors.Annotate(err, "failed to print control summary")
	}
	if flags.Exp == "" {
		return nil
	}
	exp, err := loadSet(ctx, flags.Exp, specs, config.Workers)
	if err != nil {
		return errors.Annotate(err, "failed to build experiment histograms")
	}
	if err := printTable(w, "Experiment", table.SummaryTable(exp.Histograms()), flags); err != nil {
		return errors.Annotate(err, "failed to print experiment summary")
	}
	cmps, err := features.Compare(ctx, exp, ctl)
	if err != nil {
		return errors.Annotate(err, "failed to compare experiment to control")
	}
	if err := printTable(w, "Experiment vs Control", table.ComparisonTable(cmps), flags); err != nil {
		return errors.Annotate(err, "failed to print comparisons")
	}
	if flags.JS != "" {
		if err := writePlots(ctx, flags.JS, cmps); err != nil {
			return errors.Annotate(err, "failed to write plots")
		}
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
