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

	"github.com/stockparfait/errors"
)

// HistType is the kind of feature a histogram is computed for.
type HistType uint8

// Values of HistType:
// - HistMotion is a per-frame feature which can be split by motion mode.
// - HistSimple is a per-frame feature which is not split by motion.
// - HistEvent is a per-event feature (e.g. durations of omega turns).
const (
	HistMotion HistType = iota
	HistSimple
	HistEvent
	histTypeLast
)

var histTypeNames = [...]string{"motion", "simple", "event"}

func (t HistType) String() string {
	if t >= histTypeLast {
		return fmt.Sprintf("<Undefined HistType: %d>", t)
	}
	return histTypeNames[t]
}

// ParseHistType converts the string form back to HistType.
func ParseHistType(s string) (HistType, error) {
	for i, n := range histTypeNames {
		if n == s {
			return HistType(i), nil
		}
	}
	return 0, errors.Reason("unknown histogram type: '%s'", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t HistType) MarshalText() ([]byte, error) {
	if t >= histTypeLast {
		return nil, errors.Reason("invalid histogram type: %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *HistType) UnmarshalText(b []byte) error {
	v, err := ParseHistType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MotionType selects the frames by the worm's locomotion mode.
type MotionType uint8

// Values of MotionType.
const (
	MotionAll MotionType = iota
	MotionForward
	MotionPaused
	MotionBackward
	motionTypeLast
)

var motionTypeNames = [...]string{"all", "forward", "paused", "backward"}

// AllMotionTypes lists the motion types a motion feature is expanded into.
var AllMotionTypes = []MotionType{
	MotionAll, MotionForward, MotionPaused, MotionBackward}

func (m MotionType) String() string {
	if m >= motionTypeLast {
		return fmt.Sprintf("<Undefined MotionType: %d>", m)
	}
	return motionTypeNames[m]
}

// ParseMotionType converts the string form back to MotionType.
func ParseMotionType(s string) (MotionType, error) {
	for i, n := range motionTypeNames {
		if n == s {
			return MotionType(i), nil
		}
	}
	return 0, errors.Reason("unknown motion type: '%s'", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m MotionType) MarshalText() ([]byte, error) {
	if m >= motionTypeLast {
		return nil, errors.Reason("invalid motion type: %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MotionType) UnmarshalText(b []byte) error {
	v, err := ParseMotionType(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// mode is the per-frame motion mode value for the motion type: 1 for
// forward, 0 for paused and -1 for backward. MotionAll has no mode.
func (m MotionType) mode() float64 {
	switch m {
	case MotionForward:
		return 1
	case MotionPaused:
		return 0
	case MotionBackward:
		return -1
	}
	return math.NaN()
}

// Filter selects the data points whose frame has this motion mode. The modes
// slice has one value per frame and must be as long as data, unless m is
// MotionAll, in which case data is returned as is. Frames with a NaN mode
// (unknown motion) are only included for MotionAll.
func (m MotionType) Filter(data, modes []float64) ([]float64, error) {
	if m == MotionAll {
		return data, nil
	}
	if m >= motionTypeLast {
		return nil, errors.Reason("invalid motion type: %d", m)
	}
	if len(modes) != len(data) {
		return nil, errors.Reason("len(modes)=%d != len(data)=%d",
			len(modes), len(data))
	}
	mode := m.mode()
	res := []float64{}
	for i, x := range data {
		if modes[i] == mode {
			res = append(res, x)
		}
	}
	return res, nil
}

// DataType is an additional filter on the values of the data.
type DataType uint8

// Values of DataType:
// - DataAll keeps all values.
// - DataAbsolute replaces values by their absolute values.
// - DataPositive keeps only positive values.
// - DataNegative keeps only negative values.
const (
	DataAll DataType = iota
	DataAbsolute
	DataPositive
	DataNegative
	dataTypeLast
)

var dataTypeNames = [...]string{"all", "absolute", "positive", "negative"}

// AllDataTypes lists the data types a signed feature is expanded into.
var AllDataTypes = []DataType{DataAll, DataAbsolute, DataPositive, DataNegative}

func (d DataType) String() string {
	if d >= dataTypeLast {
		return fmt.Sprintf("<Undefined DataType: %d>", d)
	}
	return dataTypeNames[d]
}

// ParseDataType converts the string form back to DataType.
func ParseDataType(s string) (DataType, error) {
	for i, n := range dataTypeNames {
		if n == s {
			return DataType(i), nil
		}
	}
	return 0, errors.Reason("unknown data type: '%s'", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d DataType) MarshalText() ([]byte, error) {
	if d >= dataTypeLast {
		return nil, errors.Reason("invalid data type: %d", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DataType) UnmarshalText(b []byte) error {
	v, err := ParseDataType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Filter applies the data type to the values. DataAll returns data as is;
// other types always return a newly allocated slice. NaN values are dropped
// by all types except DataAll.
func (d DataType) Filter(data []float64) []float64 {
	if d == DataAll {
		return data
	}
	res := []float64{}
	for _, x := range data {
		switch d {
		case DataAbsolute:
			if !math.IsNaN(x) {
				res = append(res, math.Abs(x))
			}
		case DataPositive:
			if x > 0 {
				res = append(res, x)
			}
		case DataNegative:
			if x < 0 {
				res = append(res, x)
			}
		}
	}
	return res
}

// Tags identify the subclass of a feature measurement a Histogram counts.
type Tags struct {
	Hist   HistType
	Motion MotionType
	Data   DataType
}

func (t Tags) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Hist, t.Motion, t.Data)
}
