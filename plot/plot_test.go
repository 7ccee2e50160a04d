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
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/openworm/wormstats/stats"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlot(t *testing.T) {
	t.Parallel()

	Convey("Plot API works", t, func() {
		c := NewCanvas()
		ctx := Use(context.Background(), c)
		xyGroup := NewGroup("xy").SetTitle("XY")
		otherGroup := NewGroup("other")

		So(xyGroup.Title, ShouldEqual, "XY")
		So(AddGroup(ctx, xyGroup), ShouldBeNil)
		So(AddGroup(ctx, otherGroup), ShouldBeNil)
		So(AddGroup(ctx, NewGroup("xy")), ShouldNotBeNil)
		So(c.Groups, ShouldResemble, []*Group{xyGroup, otherGroup})
		So(Get(context.Background()), ShouldBeNil)
		So(AddGroup(context.Background(), NewGroup("none")), ShouldNotBeNil)

		Convey("Adding graphs", func() {
			Convey("to existing groups", func() {
				pdfGraph, err := EnsureGraph(ctx, "p.d.f.", "xy")
				So(err, ShouldBeNil)
				pdfGraph.SetTitle("Distributions").SetXLabel("speed").SetYLogScale(true)

				otherGraph, err := EnsureGraph(ctx, "other", "other")
				So(err, ShouldBeNil)

				So(pdfGraph.Title, ShouldEqual, "Distributions")
				So(pdfGraph.XLabel, ShouldEqual, "speed")
				So(pdfGraph.YLogScale, ShouldBeTrue)
				So(pdfGraph.GroupID, ShouldEqual, "xy")

				g, err := EnsureGraph(ctx, "p.d.f.", "xy")
				So(err, ShouldBeNil)
				So(g, ShouldEqual, pdfGraph)

				// Duplicate graph ID in another group.
				_, err = EnsureGraph(ctx, "other", "xy")
				So(err, ShouldNotBeNil)

				So(len(c.graphMap), ShouldEqual, 2)
				So(c.Groups[0].Graphs[0], ShouldEqual, pdfGraph)
				So(c.Groups[1].Graphs[0], ShouldEqual, otherGraph)
			})

			Convey("to a new group", func() {
				g, err := EnsureGraph(ctx, "scatter", "dots")
				So(err, ShouldBeNil)
				So(len(c.Groups), ShouldEqual, 3)
				So(c.Groups[2].Graphs[0], ShouldEqual, g)
				So(c.GetGroup("dots"), ShouldEqual, c.Groups[2])
			})

			Convey("from a group pre-populated with graphs", func() {
				gr := NewGroup("prep")
				g1 := NewGraph("one")
				g2 := NewGraph("two")

				So(gr.AddGraph(g1), ShouldBeNil)
				So(gr.AddGraph(g2), ShouldBeNil)
				So(gr.AddGraph(NewGraph("one")), ShouldNotBeNil)

				So(AddGroup(ctx, gr), ShouldBeNil)
				So(c.Groups, ShouldResemble, []*Group{xyGroup, otherGroup, gr})
				So(len(c.graphMap), ShouldEqual, 2)
				So(c.GetGraph("one"), ShouldEqual, g1)
				So(c.GetGraph("none"), ShouldBeNil)
			})
		})

		Convey("Adding plots", func() {
			_, err := EnsureGraph(ctx, "lines", "xy")
			So(err, ShouldBeNil)

			p := NewXYPlot([]float64{1, 2, 3}, []float64{10, 20, 30}).
				SetYLabel("p").
				SetLegend("PDF").
				SetChartType(ChartDashed)
			So(p.Size(), ShouldEqual, 3)
			So(func() { NewXYPlot([]float64{1}, nil) }, ShouldPanic)

			Convey("to the right Y axis", func() {
				So(AddRight(ctx, p, "lines"), ShouldBeNil)
				So(AddRight(ctx, p, "nonexistent"), ShouldNotBeNil)
				So(c.graphMap["lines"].PlotsRight, ShouldResemble, []*Plot{p})
			})

			Convey("to the left Y axis, updating bounds", func() {
				So(AddLeft(ctx, p, "lines"), ShouldBeNil)
				So(AddLeft(ctx, NewXYPlot([]float64{5, 0}, []float64{1, 1}), "lines"), ShouldBeNil)
				g := c.GetGraph("lines")
				So(len(g.PlotsLeft), ShouldEqual, 2)
				So(*g.MinX, ShouldEqual, 0.0)
				So(*g.MaxX, ShouldEqual, 5.0)
				So(*xyGroup.MinX, ShouldEqual, 0.0)
				So(*xyGroup.MaxX, ShouldEqual, 5.0)
			})

			Convey("JSON conversion works", func() {
				So(AddLeft(ctx, p, "lines"), ShouldBeNil)
				c2 := NewCanvas()
				ctx2 := Use(context.Background(), c2)
				So(AddGroup(ctx2, xyGroup), ShouldBeNil)
				var buf bytes.Buffer
				So(WriteJS(ctx2, &buf), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
var DATA = {"Groups":[{"Title":"XY","Graphs":[{"Title":"lines","XLabel":"Value","YLogScale":false,"PlotsRight":null,"PlotsLeft":[{"X":[1,2,3],"Y":[10,20,30],"YLabel":"p","Legend":"PDF","ChartType":"dashed"}],"MinX":1,"MaxX":3}],"MinX":1,"MaxX":3}]}
;`)
			})
		})
	})

	Convey("ChartType names", t, func() {
		So(ChartFilled.String(), ShouldEqual, "filled")
		So(ChartType(10).String(), ShouldEqual, "<Undefined ChartType: 10>")
		_, err := ChartType(10).MarshalText()
		So(err, ShouldNotBeNil)
	})
}

func TestHistogramPlots(t *testing.T) {
	t.Parallel()

	spec := &stats.BinSpec{Field: "speed", LongField: "Head Speed", BinWidth: 1.0}
	tags := stats.Tags{Hist: stats.HistSimple}

	hist := func(data ...float64) *stats.Histogram {
		h, err := stats.NewHistogram(data, spec, tags)
		So(err, ShouldBeNil)
		return h
	}

	Convey("NewHistogramPlot works", t, func() {
		p := NewHistogramPlot(hist(1.5, 2.5, 2.7, 3.1))
		So(p.X, ShouldResemble, []float64{1.5, 2.5, 3.5})
		So(p.Y, ShouldResemble, []float64{0.25, 0.5, 0.25})
		So(p.YLabel, ShouldEqual, "bin pdf")
		So(p.Legend, ShouldEqual, "Head Speed , motion_type:all, data_type: all")
		So(p.ChartType, ShouldEqual, ChartBars)
	})

	Convey("Versus works", t, func() {
		exp := hist(1.5, 2.5, 3.5, 4.5, 5.5)
		ctl := hist(0.5, 1.5, 2.5, 3.5)

		Convey("without Canvas", func() {
			g, err := Versus(context.Background(), exp, ctl)
			So(err, ShouldBeNil)
			So(g.Title, ShouldEqual, exp.Description())
			So(g.XLabel, ShouldEqual, "Head Speed")
			So(len(g.PlotsLeft), ShouldEqual, 2)
			So(g.PlotsLeft[0].Legend, ShouldEqual, "Control")
			So(g.PlotsLeft[0].X, ShouldResemble, ctl.BinMidpoints())
			So(g.PlotsLeft[0].Y, ShouldResemble, ctl.PDF())
			So(g.PlotsLeft[1].Legend, ShouldEqual, "Experiment")
			So(g.PlotsLeft[1].Y, ShouldResemble, exp.PDF())
			So(*g.MinX, ShouldEqual, 0.5)
			So(*g.MaxX, ShouldEqual, 3.5)
		})

		Convey("with Canvas", func() {
			c := NewCanvas()
			ctx := Use(context.Background(), c)
			g, err := Versus(ctx, exp, ctl)
			So(err, ShouldBeNil)
			So(c.GetGraph(exp.Description()), ShouldEqual, g)
			So(c.GetGroup(VersusGroup).Graphs, ShouldResemble, []*Graph{g})

			_, err = Versus(ctx, exp, ctl)
			So(err, ShouldNotBeNil)
		})

		Convey("different features", func() {
			other := &stats.BinSpec{Field: "length", BinWidth: 1.0}
			So(other.Check(), ShouldBeNil)
			h, err := stats.NewHistogram([]float64{1}, other, tags)
			So(err, ShouldBeNil)
			g, err := Versus(context.Background(), exp, h)
			So(err, ShouldBeNil)
			So(g, ShouldBeNil)

			_, err = Versus(context.Background(), nil, ctl)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSignificance(t *testing.T) {
	t.Parallel()

	cmps := []*stats.Comparison{
		{QT: 0.01, QW: 0.02},
		{QT: math.NaN(), QW: 0.5},
		{QT: 0, QW: math.NaN()},
	}

	Convey("Significance works", t, func() {
		c := NewCanvas()
		ctx := Use(context.Background(), c)
		So(Significance(ctx, cmps), ShouldBeNil)

		g := c.GetGraph(SignificanceGraph)
		So(g, ShouldNotBeNil)
		So(g.GroupID, ShouldEqual, SignificanceGroup)
		So(g.YLogScale, ShouldBeTrue)
		So(len(g.PlotsLeft), ShouldEqual, 1)
		So(len(g.PlotsRight), ShouldEqual, 1)

		pt := g.PlotsLeft[0]
		So(pt.X, ShouldResemble, []float64{0, 2})
		So(pt.Y, ShouldResemble, []float64{0.01, minQValue})
		So(pt.ChartType, ShouldEqual, ChartScatter)

		pw := g.PlotsRight[0]
		So(pw.X, ShouldResemble, []float64{0, 1})
		So(pw.Y, ShouldResemble, []float64{0.02, 0.5})
		So(pw.Legend, ShouldEqual, "Mann-Whitney U")

		So(*g.MinX, ShouldEqual, 0.0)
		So(*g.MaxX, ShouldEqual, 2.0)
		So(*c.GetGroup(SignificanceGroup).MaxX, ShouldEqual, 2.0)

		var buf bytes.Buffer
		So(WriteJSON(ctx, &buf), ShouldBeNil)
	})

	Convey("Significance requires a Canvas", t, func() {
		So(Significance(context.Background(), cmps), ShouldNotBeNil)
	})
}
