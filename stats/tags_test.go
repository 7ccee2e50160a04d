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

	. "github.com/smartystreets/goconvey/convey"
)

func TestTags(t *testing.T) {
	t.Parallel()

	Convey("Names round trip", t, func() {
		for _, m := range AllMotionTypes {
			p, err := ParseMotionType(m.String())
			So(err, ShouldBeNil)
			So(p, ShouldEqual, m)
		}
		for _, d := range AllDataTypes {
			p, err := ParseDataType(d.String())
			So(err, ShouldBeNil)
			So(p, ShouldEqual, d)
		}
		for _, h := range []HistType{HistMotion, HistSimple, HistEvent} {
			p, err := ParseHistType(h.String())
			So(err, ShouldBeNil)
			So(p, ShouldEqual, h)
		}
		_, err := ParseMotionType("sideways")
		So(err, ShouldNotBeNil)
		_, err = ParseDataType("")
		So(err, ShouldNotBeNil)
		So(HistType(10).String(), ShouldEqual, "<Undefined HistType: 10>")

		var h HistType
		So(h.UnmarshalText([]byte("event")), ShouldBeNil)
		So(h, ShouldEqual, HistEvent)
		So(h.UnmarshalText([]byte("bogus")), ShouldNotBeNil)
		_, err = HistType(10).MarshalText()
		So(err, ShouldNotBeNil)

		tags := Tags{Hist: HistMotion, Motion: MotionPaused, Data: DataNegative}
		So(tags.String(), ShouldEqual, "motion/paused/negative")
	})

	Convey("MotionType.Filter works", t, func() {
		data := []float64{1, 2, 3, 4, 5}
		modes := []float64{1, 0, -1, math.NaN(), 1}

		res, err := MotionAll.Filter(data, nil)
		So(err, ShouldBeNil)
		So(res, ShouldResemble, data)

		res, err = MotionForward.Filter(data, modes)
		So(err, ShouldBeNil)
		So(res, ShouldResemble, []float64{1, 5})

		res, err = MotionPaused.Filter(data, modes)
		So(err, ShouldBeNil)
		So(res, ShouldResemble, []float64{2})

		res, err = MotionBackward.Filter(data, modes)
		So(err, ShouldBeNil)
		So(res, ShouldResemble, []float64{3})

		_, err = MotionForward.Filter(data, modes[:2])
		So(err, ShouldNotBeNil)
	})

	Convey("DataType.Filter works", t, func() {
		data := []float64{-2, 0, 3, math.NaN()}
		So(len(DataAll.Filter(data)), ShouldEqual, 4)
		So(DataAbsolute.Filter(data), ShouldResemble, []float64{2, 0, 3})
		So(DataPositive.Filter(data), ShouldResemble, []float64{3})
		So(DataNegative.Filter(data), ShouldResemble, []float64{-2})
		So(DataNegative.Filter([]float64{1}), ShouldResemble, []float64{})
	})
}
