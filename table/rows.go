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

package table

import (
	"github.com/openworm/wormstats/stats"
)

// Significant digits of the statistics columns.
const digits = 4

// SummaryHeader is the header of the SummaryRow columns.
var SummaryHeader = []string{
	"Feature", "Motion", "Data", "Videos", "Samples", "Mean", "Std", "P normal"}

// SummaryRow summarizes a histogram.
type SummaryRow struct {
	H *stats.Histogram
}

var _ Row = SummaryRow{}

func (r SummaryRow) CSV() []string {
	samples := 0
	for _, n := range r.H.NumSamples() {
		samples += n
	}
	return []string{
		r.H.Spec().LongField,
		r.H.MotionType().String(),
		r.H.DataType().String(),
		Int(r.H.NumVideos()),
		Int(samples),
		Float(r.H.Mean(), digits),
		Float(r.H.Std(), digits),
		Float(r.H.PNormal(), digits),
	}
}

// SummaryTable of the histograms.
func SummaryTable(hs []*stats.Histogram) *Table {
	t := NewTable(SummaryHeader...)
	for _, h := range hs {
		t.AddRow(SummaryRow{H: h})
	}
	return t
}

// ComparisonHeader is the header of the ComparisonRow columns.
var ComparisonHeader = []string{
	"Feature", "Motion", "Data", "Exp mean", "Ctl mean", "P t", "P w", "Q t", "Q w"}

// ComparisonRow shows the statistics of an experiment vs control comparison.
type ComparisonRow struct {
	C *stats.Comparison
}

var _ Row = ComparisonRow{}

func (r ComparisonRow) CSV() []string {
	return []string{
		r.C.Exp.Spec().LongField,
		r.C.Exp.MotionType().String(),
		r.C.Exp.DataType().String(),
		Float(r.C.Exp.Mean(), digits),
		Float(r.C.Ctl.Mean(), digits),
		Float(r.C.PT, digits),
		Float(r.C.PW, digits),
		Float(r.C.QT, digits),
		Float(r.C.QW, digits),
	}
}

// ComparisonTable of the comparisons.
func ComparisonTable(cs []*stats.Comparison) *Table {
	t := NewTable(ComparisonHeader...)
	for _, c := range cs {
		t.AddRow(ComparisonRow{C: c})
	}
	return t
}
