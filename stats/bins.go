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
	"gonum.org/v1/gonum/floats"
)

// maxGridIndex bounds the grid index of a bin edge, so it is exactly
// representable both as int and float64.
const maxGridIndex = 1 << 52

// Bins are equal width histogram bins snapped to the grid {k * Width} for
// integer k. Any two Bins with the same Width have edges on the same grid, and
// therefore histograms over them can be merged without re-binning.
//
// All bins are right half-open except the last one, which is closed:
// [b0, b1), [b1, b2), ..., [b(n-1), bn].
type Bins struct {
	Width  float64
	First  int       // grid index of the first edge: Bounds[0] = First * Width
	Bounds []float64 // n+1 bin edges
}

// gridValue computes the k'th grid point. All edges and midpoints are computed
// through here, so the same grid point always has the same float64 value.
func gridValue(k int, width, shift float64) float64 {
	return float64(k)*width + shift*width
}

// CoveringBins computes the smallest grid-snapped Bins covering all of the
// data. If all the values fall on the same grid point, the bins are extended
// up by one bin, so there is always at least one bin. It returns
// ConfigurationError when more than maxBins bins are needed, which includes
// the case of non-finite data.
func CoveringBins(data []float64, width float64, maxBins int) (*Bins, error) {
	if len(data) == 0 {
		return nil, errors.Reason("cannot cover empty data")
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, &ConfigurationError{
			Msg: fmt.Sprintf("bin width must be a positive number, got %g", width)}
	}
	minData := floats.Min(data)
	maxData := floats.Max(data)

	// Snap the bins to the grid, e.g. for width=2 and minData=11 the first bin
	// starts at 10.
	lo := math.Floor(minData / width)
	hi := math.Ceil(maxData / width)
	if lo == hi {
		hi = lo + 1
	}
	n := hi - lo
	if !(n <= float64(maxBins)) {
		return nil, &ConfigurationError{Msg: fmt.Sprintf(
			"given the bin width %g, the number of bins for [%g..%g] exceeds "+
				"the maximum of %d", width, minData, maxData, maxBins)}
	}
	if math.Abs(lo) > maxGridIndex || math.Abs(hi) > maxGridIndex {
		return nil, &ConfigurationError{Msg: fmt.Sprintf(
			"data range [%g..%g] is too far from zero for the bin width %g",
			minData, maxData, width)}
	}
	b := &Bins{
		Width:  width,
		First:  int(lo),
		Bounds: make([]float64, int(n)+1),
	}
	for i := range b.Bounds {
		b.Bounds[i] = gridValue(b.First+i, width, 0)
	}
	// Floating point rounding may leave the data slightly outside of the exact
	// bounds, but never by a whole bin.
	if minData < b.Bounds[0]-width || maxData > b.Bounds[len(b.Bounds)-1]+width {
		return nil, errors.Reason(
			"bins [%g..%g] do not cover data [%g..%g]",
			b.Bounds[0], b.Bounds[len(b.Bounds)-1], minData, maxData)
	}
	return b, nil
}

// NumBins is the number of bins (one less than the number of bounds).
func (b *Bins) NumBins() int { return len(b.Bounds) - 1 }

// Bin computes the bin index for a sample. Values outside of the bounds are
// assigned to the nearest end bin.
func (b *Bins) Bin(x float64) int {
	l := 0
	u := b.NumBins() - 1
	if x < b.Bounds[l+1] {
		return 0
	}
	if x >= b.Bounds[u] {
		return u
	}
	// Invariant: Bounds[l] <= x < Bounds[u].
	for l+1 < u {
		m := (l + u) / 2
		if x < b.Bounds[m] {
			u = m
		} else {
			l = m
		}
	}
	return l
}

// Midpoints of all the bins. It always returns a newly allocated slice.
func (b *Bins) Midpoints() []float64 {
	res := make([]float64, b.NumBins())
	for i := range res {
		res[i] = gridValue(b.First+i, b.Width, 0.5)
	}
	return res
}

// Count the data in each bin.
func (b *Bins) Count(data []float64) []uint {
	counts := make([]uint, b.NumBins())
	for _, x := range data {
		counts[b.Bin(x)]++
	}
	return counts
}
