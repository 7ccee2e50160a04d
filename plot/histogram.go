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

package plot

import (
	"context"
	"math"

	"github.com/openworm/wormstats/stats"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// VersusGroup is the Canvas group of the graphs created by Versus.
const VersusGroup = "versus"

// NewHistogramPlot plots the p.d.f. of the histogram against its bin
// midpoints. The plot is empty when the histogram has no samples.
func NewHistogramPlot(h *stats.Histogram) *Plot {
	x := h.BinMidpoints()
	y := h.PDF()
	if y == nil {
		x = nil
	}
	return NewXYPlot(x, y).
		SetYLabel("bin pdf").
		SetLegend(h.Description()).
		SetChartType(ChartBars)
}

// Versus creates a graph of the experiment p.d.f. overlaid on the control
// p.d.f. for the same feature. If the histograms are for different features,
// no graph is created and the result is (nil, nil).
//
// The X range spans from the smallest of the first bin midpoints to the
// smallest of the last bin midpoints. When a Canvas is in the context, the
// graph is also added to it in VersusGroup.
func Versus(ctx context.Context, exp, ctl *stats.Histogram) (*Graph, error) {
	if exp == nil || ctl == nil {
		return nil, errors.Reason("cannot plot a nil histogram")
	}
	if exp.Spec().LongField != ctl.Spec().LongField {
		logging.Debugf(ctx, "not plotting '%s' against '%s'",
			exp.Spec().LongField, ctl.Spec().LongField)
		return nil, nil
	}
	title := exp.Description()
	g := NewGraph(title).SetXLabel(exp.Spec().LongField)
	g.AddPlotLeft(NewHistogramPlot(ctl).SetLegend("Control").SetChartType(ChartFilled))
	g.AddPlotLeft(NewHistogramPlot(exp).SetLegend("Experiment").SetChartType(ChartLine))

	minX := math.Min(exp.FirstBinMidpoint(), ctl.FirstBinMidpoint())
	maxX := math.Min(exp.LastBinMidpoint(), ctl.LastBinMidpoint())
	if !math.IsNaN(minX) && !math.IsNaN(maxX) {
		g.SetXRange(minX, maxX)
	}
	if c := Get(ctx); c != nil {
		if err := c.AddGraph(g, VersusGroup); err != nil {
			return nil, errors.Annotate(err, "failed to add '%s' to Canvas", title)
		}
	}
	return g, nil
}

// SignificanceGroup is the Canvas group of the graph created by Significance.
const SignificanceGroup = "significance"

// SignificanceGraph is the ID of the graph created by Significance.
const SignificanceGraph = "q-values"

// minQValue replaces zero q-values on the log scale. A p-value computed as
// 1-CDF is either 0 or above ~1e-16.
const minQValue = 1e-16

func qValuePlot(cmps []*stats.Comparison, q func(*stats.Comparison) float64) *Plot {
	x := []float64{}
	y := []float64{}
	for i, c := range cmps {
		v := q(c)
		if math.IsNaN(v) {
			continue
		}
		x = append(x, float64(i))
		y = append(y, math.Max(v, minQValue))
	}
	return NewXYPlot(x, y).SetChartType(ChartScatter)
}

// Significance adds a graph of the comparisons' q-values against their index
// to the Canvas in context: the t-test on the left Y axis, and the
// Mann-Whitney U test on the right, both on the log scale. Undefined q-values
// are skipped.
func Significance(ctx context.Context, cmps []*stats.Comparison) error {
	g, err := EnsureGraph(ctx, SignificanceGraph, SignificanceGroup)
	if err != nil {
		return errors.Annotate(err, "failed to create significance graph")
	}
	g.SetTitle("Experiment vs Control q-values").
		SetXLabel("comparison").
		SetYLogScale(true)
	pt := qValuePlot(cmps, func(c *stats.Comparison) float64 { return c.QT }).
		SetYLabel("q").SetLegend("Welch t-test")
	pw := qValuePlot(cmps, func(c *stats.Comparison) float64 { return c.QW }).
		SetYLabel("q").SetLegend("Mann-Whitney U")
	if err := AddLeft(ctx, pt, SignificanceGraph); err != nil {
		return errors.Annotate(err, "failed to add t-test q-values")
	}
	if err := AddRight(ctx, pw, SignificanceGraph); err != nil {
		return errors.Annotate(err, "failed to add Mann-Whitney q-values")
	}
	logging.Debugf(ctx, "plotted q-values of %d comparisons", len(cmps))
	return nil
}
