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

package features

import (
	"io"
	"os"
	"runtime"

	"github.com/openworm/wormstats/stats"
	"github.com/stockparfait/errors"

	toml "github.com/pelletier/go-toml/v2"
)

// Feature is the configuration of a single feature's histograms.
type Feature struct {
	Field     string  `toml:"field"`
	LongField string  `toml:"long_field"` // default: Field
	Units     string  `toml:"units"`
	BinWidth  float64 `toml:"bin_width"`
	HistType  string  `toml:"hist_type"` // motion, simple (default) or event
	Signed    bool    `toml:"signed"`
	MaxBins   int     `toml:"max_bins"` // default: global max_bins
}

// Config of the histogram computation. A typical config file:
//
//   max_bins = 100000
//   workers = 8
//
//   [[feature]]
//   field = "locomotion.velocity.head.speed"
//   long_field = "Head Speed"
//   units = "microns/s"
//   bin_width = 10.0
//   hist_type = "motion"
//   signed = true
type Config struct {
	MaxBins  int       `toml:"max_bins"` // default: stats.DefaultMaxBins
	Workers  int       `toml:"workers"`  // default: 2*runtime.NumCPU()
	Features []Feature `toml:"feature"`
}

// DecodeConfig reads the TOML config from r, rejecting unknown keys, and
// fills in the defaults.
func DecodeConfig(r io.Reader) (*Config, error) {
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to decode config")
	}
	if c.MaxBins < 0 {
		return nil, errors.Reason("max_bins=%d must be non-negative", c.MaxBins)
	}
	if c.MaxBins == 0 {
		c.MaxBins = stats.DefaultMaxBins
	}
	if c.Workers < 0 {
		return nil, errors.Reason("workers=%d must be non-negative", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = 2 * runtime.NumCPU()
	}
	if len(c.Features) == 0 {
		return nil, errors.Reason("no features configured")
	}
	return &c, nil
}

// ParseConfig reads the config file at path.
func ParseConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", path)
	}
	defer f.Close()

	c, err := DecodeConfig(f)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", path)
	}
	return c, nil
}

// Specs creates validated bin specs for all the features, in the config
// order. Feature fields must be unique.
func (c *Config) Specs() ([]*stats.BinSpec, error) {
	seen := make(map[string]bool)
	specs := make([]*stats.BinSpec, len(c.Features))
	for i, f := range c.Features {
		if seen[f.Field] {
			return nil, errors.Reason("duplicate feature '%s'", f.Field)
		}
		seen[f.Field] = true
		ht := stats.HistSimple
		if f.HistType != "" {
			var err error
			if ht, err = stats.ParseHistType(f.HistType); err != nil {
				return nil, errors.Annotate(err, "feature '%s'", f.Field)
			}
		}
		s := &stats.BinSpec{
			Field:     f.Field,
			LongField: f.LongField,
			Units:     f.Units,
			BinWidth:  f.BinWidth,
			HistType:  ht,
			Signed:    f.Signed,
			MaxBins:   f.MaxBins,
		}
		if s.MaxBins == 0 {
			s.MaxBins = c.MaxBins
		}
		if err := s.Check(); err != nil {
			return nil, errors.Annotate(err, "invalid feature #%d", i)
		}
		specs[i] = s
	}
	return specs, nil
}
