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

// gridTolerance is the allowed deviation of a bin offset from an integer, in
// units of bin width.
const gridTolerance = 1e-6

// checkMergeable verifies that all the non-nil histograms can be merged with
// ref, and returns the reference histogram (the first non-nil one).
func checkMergeable(hs []*Histogram) (*Histogram, error) {
	var ref *Histogram
	for i, h := range hs {
		if h == nil {
			continue
		}
		if h.spec == nil {
			return nil, &PreconditionError{
				Msg: fmt.Sprintf("histogram %d has no spec", i)}
		}
		if ref == nil {
			ref = h
			continue
		}
		if h.spec != ref.spec {
			if h.spec.BinWidth != ref.spec.BinWidth {
				return nil, &PreconditionError{Msg: fmt.Sprintf(
					"histogram %d has bin width %g != %g",
					i, h.spec.BinWidth, ref.spec.BinWidth)}
			}
			if h.spec.LongField != ref.spec.LongField {
				return nil, &PreconditionError{Msg: fmt.Sprintf(
					"histogram %d is for '%s', not '%s'",
					i, h.spec.LongField, ref.spec.LongField)}
			}
		}
		if h.tags != ref.tags {
			return nil, &PreconditionError{Msg: fmt.Sprintf(
				"histogram %d has tags %s != %s", i, h.tags, ref.tags)}
		}
	}
	if ref == nil {
		return nil, &PreconditionError{Msg: "no histograms to merge"}
	}
	return ref, nil
}

// Merge histograms of the same feature into a new Histogram, without
// modifying the inputs. All the histograms must have the same bin width, long
// field and tags, otherwise PreconditionError is returned.
//
// The bins of the result span the bins of all the inputs. Since bins are
// always snapped to the same grid, the counts of each input are copied as is
// at their offset in the new bins. Per-video statistics are concatenated in
// the order of the inputs; a merged input contributes all of its videos.
//
// A nil input stands for a video without data: it gets a zero row of counts,
// zero samples and NaN mean and standard deviation.
func Merge(hs []*Histogram) (*Histogram, error) {
	ref, err := checkMergeable(hs)
	if err != nil {
		return nil, err
	}
	width := ref.BinWidth()
	res := &Histogram{
		spec:   ref.spec,
		tags:   ref.tags,
		merged: true,
	}

	// Align all bins.
	minMid := math.Inf(1)
	maxMid := math.Inf(-1)
	for _, h := range hs {
		if h == nil || h.NumBins() == 0 {
			continue
		}
		minMid = math.Min(minMid, h.FirstBinMidpoint())
		maxMid = math.Max(maxMid, h.LastBinMidpoint())
	}
	numBins := 0
	if !math.IsInf(minMid, 1) {
		numBins = int(math.Round((maxMid-minMid)/width)) + 1
		if numBins > ref.spec.Limit() {
			return nil, &ConfigurationError{Msg: fmt.Sprintf(
				"merged histogram for %s needs %d bins, more than the maximum of %d",
				ref.spec.Field, numBins, ref.spec.Limit())}
		}
		first := int(math.Round(minMid/width - 0.5))
		res.bins = &Bins{
			Width:  width,
			First:  first,
			Bounds: make([]float64, numBins+1),
		}
		for i := range res.bins.Bounds {
			res.bins.Bounds[i] = gridValue(first+i, width, 0)
		}
	}

	var counts [][]uint
	var samples []int
	var means, stds []float64
	for i, h := range hs {
		if h == nil {
			counts = append(counts, make([]uint, numBins))
			samples = append(samples, 0)
			means = append(means, math.NaN())
			stds = append(stds, math.NaN())
			continue
		}
		// start is NaN when h has no bins, and its rows remain zero.
		offset := (h.FirstBinMidpoint() - minMid) / width
		start := math.Round(offset)
		if math.Abs(offset-start) > gridTolerance {
			return nil, &PreconditionError{Msg: fmt.Sprintf(
				"histogram %d bins are not aligned: offset %g bins", i, offset)}
		}
		for _, row := range h.VideoCounts() {
			newRow := make([]uint, numBins)
			if !math.IsNaN(start) {
				copy(newRow[int(start):int(start)+len(row)], row)
			}
			counts = append(counts, newRow)
		}
		samples = append(samples, h.NumSamples()...)
		means = append(means, h.MeanPerVideo()...)
		stds = append(stds, h.StdPerVideo()...)
	}
	res.videoCounts.set(counts)
	res.numSamples.set(samples)
	res.means.set(means)
	res.stds.set(stds)
	return res, nil
}
