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
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	Convey("WelchTTest works", t, func() {
		Convey("same samples", func() {
			x := []float64{1, 2, 3, 4, 5}
			So(testutil.Round(WelchTTest(x, x), 5), ShouldEqual, 1.0)
		})

		Convey("shifted samples", func() {
			x := normalSample(50, 0.0, 1.0, 1)
			y := normalSample(50, 5.0, 1.0, 2)
			So(WelchTTest(x, y), ShouldBeLessThan, 1e-10)
			So(WelchTTest(x, y), ShouldEqual, WelchTTest(y, x))
		})

		Convey("known value", func() {
			// t = -2.4495, df = 4.
			x := []float64{1, 2, 3}
			y := []float64{3, 4, 5}
			So(testutil.Round(WelchTTest(x, y), 3), ShouldEqual, 0.0705)
		})

		Convey("unequal sizes and variances", func() {
			x := []float64{1, 2, 3, 4, 5.5}
			y := []float64{2, 4, 6, 8.5}
			So(testutil.Round(WelchTTest(x, y), 5), ShouldEqual, 0.2618)
		})

		Convey("undefined cases", func() {
			So(math.IsNaN(WelchTTest([]float64{1}, []float64{1, 2})), ShouldBeTrue)
			So(math.IsNaN(WelchTTest(nil, nil)), ShouldBeTrue)
			So(math.IsNaN(WelchTTest([]float64{1, 1}, []float64{2, 2})), ShouldBeTrue)
		})
	})

	Convey("MannWhitneyUTest works", t, func() {
		x := []float64{1, 2, 3, 4, 5}
		y := []float64{6, 7, 8, 9, 10}
		p := MannWhitneyUTest(x, y)
		So(p, ShouldBeLessThan, 0.01)
		So(p, ShouldBeGreaterThan, 0.0)
		So(MannWhitneyUTest(x, x), ShouldBeGreaterThan, 0.5)
		So(math.IsNaN(MannWhitneyUTest([]float64{1, 1}, []float64{1, 1})), ShouldBeTrue)
		So(math.IsNaN(MannWhitneyUTest(nil, y)), ShouldBeTrue)
	})

	Convey("FDR works", t, func() {
		qs := FDR([]float64{0.01, 0.04, 0.03, math.NaN()})
		So(len(qs), ShouldEqual, 4)
		So(testutil.RoundSlice(qs[:3], 5), ShouldResemble, []float64{0.03, 0.04, 0.04})
		So(math.IsNaN(qs[3]), ShouldBeTrue)

		So(FDR(nil), ShouldResemble, []float64{})
		So(testutil.RoundSlice(FDR([]float64{0.5, 0.9}), 5), ShouldResemble,
			[]float64{0.9, 0.9})
	})

	Convey("Compare works", t, func() {
		spec := &BinSpec{Field: "morphology.length", LongField: "Length", BinWidth: 1.0}
		tags := Tags{Hist: HistSimple}
		merge := func(mu float64, seed uint64) *Histogram {
			var hs []*Histogram
			for i := uint64(0); i < 8; i++ {
				h, ok, err := CreateHistogram(normalSample(30, mu, 1.0, seed+i), spec, tags)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				hs = append(hs, h)
			}
			h, err := Merge(append(hs, nil))
			So(err, ShouldBeNil)
			return h
		}
		exp := merge(10.0, 100)
		ctl := merge(20.0, 200)

		c, err := Compare(exp, ctl)
		So(err, ShouldBeNil)
		So(c.Exp, ShouldEqual, exp)
		So(c.Ctl, ShouldEqual, ctl)
		So(c.PT, ShouldBeLessThan, 1e-6)
		So(c.PW, ShouldBeLessThan, 0.001)
		So(c.QT, ShouldEqual, c.PT)
		So(c.QW, ShouldEqual, c.PW)

		Convey("adjusts for multiple comparisons", func() {
			c2 := &Comparison{PT: 0.04, PW: math.NaN()}
			AdjustComparisons([]*Comparison{c, c2})
			So(c.QT, ShouldEqual, 2*c.PT)
			So(testutil.Round(c2.QT, 5), ShouldEqual, 0.04)
			So(c.QW, ShouldEqual, c.PW)
			So(math.IsNaN(c2.QW), ShouldBeTrue)
		})

		Convey("rejects different features", func() {
			other := &BinSpec{Field: "morphology.width", LongField: "Width", BinWidth: 1.0}
			h, ok, err := CreateHistogram([]float64{1, 2}, other, tags)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			_, err = Compare(exp, h)
			_, isPrecondition := err.(*PreconditionError)
			So(isPrecondition, ShouldBeTrue)
			_, err = Compare(nil, h)
			So(err, ShouldNotBeNil)
		})
	})
}
