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

package stats

import (
	"fmt"
	"math"
)

// DefaultMaxBins is the default limit on the number of bins in a single
// Histogram. It protects against a bin width too small for the data range.
const DefaultMaxBins = 1000000

// BinSpec configures the histograms of a single feature. All the histograms
// that are later merged must share the same BinSpec instance (or at least the
// same BinWidth and LongField). A BinSpec must not be modified once
// histograms are created from it.
type BinSpec struct {
	Field     string   // feature path, e.g. "locomotion.velocity.head.speed"
	LongField string   // human readable name; defaults to Field
	Units     string   // optional, for display only
	BinWidth  float64  // must be > 0
	HistType  HistType // motion, simple or event
	Signed    bool     // whether negative values are meaningful
	MaxBins   int      // 0 means DefaultMaxBins
}

// Check validates the BinSpec and sets default values.
func (s *BinSpec) Check() error {
	if s.Field == "" {
		return &ConfigurationError{Msg: "feature field is required"}
	}
	if !(s.BinWidth > 0) || math.IsInf(s.BinWidth, 0) {
		return &ConfigurationError{Msg: fmt.Sprintf(
			"bin width for %s must be a positive number, got %g",
			s.Field, s.BinWidth)}
	}
	if s.MaxBins < 0 {
		return &ConfigurationError{Msg: fmt.Sprintf(
			"max bins for %s must be >= 0, got %d", s.Field, s.MaxBins)}
	}
	if s.HistType >= histTypeLast {
		return &ConfigurationError{Msg: fmt.Sprintf(
			"invalid histogram type for %s: %d", s.Field, s.HistType)}
	}
	if s.LongField == "" {
		s.LongField = s.Field
	}
	return nil
}

// Limit is the effective maximum number of bins.
func (s *BinSpec) Limit() int {
	if s.MaxBins == 0 {
		return DefaultMaxBins
	}
	return s.MaxBins
}

// ConfigurationError is returned when histogram bins cannot be created for
// the given configuration, e.g. the data needs more bins than allowed.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// PreconditionError is returned by Merge when its inputs cannot be merged.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return "precondition error: " + e.Msg
}
