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
	"sync"

	"github.com/dgryski/go-onlinestats"
	"github.com/stockparfait/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// lazy is a compute-once slot. The value is computed on the first get() and
// never changes afterwards. It is safe for concurrent use.
type lazy[T any] struct {
	once sync.Once
	v    T
}

func (l *lazy[T]) get(f func() T) T {
	l.once.Do(func() { l.v = f() })
	return l.v
}

// set the value, unless it was already computed.
func (l *lazy[T]) set(v T) {
	l.get(func() T { return v })
}

// Histogram of a single feature measurement, either for a single video, or
// merged from several histograms of the same feature.
//
// All the derived values are computed on first access and cached. A Histogram
// is never modified after construction, and is safe for concurrent use.
//
// Per-video statistics (NumSamples, MeanPerVideo, StdPerVideo, VideoCounts)
// are always indexed by the source video; a single video histogram has exactly
// one entry.
type Histogram struct {
	spec   *BinSpec
	tags   Tags
	data   []float64 // nil for merged histograms
	bins   *Bins     // nil only when a merged histogram has no bins at all
	merged bool

	midpoints   lazy[[]float64]
	counts      lazy[[]uint]
	videoCounts lazy[[][]uint]
	pdf         lazy[[]float64]
	numSamples  lazy[[]int]
	means       lazy[[]float64]
	stds        lazy[[]float64]
	pNormal     lazy[float64]
}

// NewHistogram creates a single video Histogram with bins covering all of the
// data. The data slice is stored as is, without copying, and must not be
// modified afterwards. The data must be non-empty and contain no NaN values;
// see CreateHistogram for a more lenient factory.
//
// It returns ConfigurationError if the data requires more than
// spec.Limit() bins.
func NewHistogram(data []float64, spec *BinSpec, tags Tags) (*Histogram, error) {
	if spec == nil {
		return nil, errors.Reason("spec cannot be nil")
	}
	if len(data) == 0 {
		return nil, errors.Reason("no data for %s", spec.Field)
	}
	if floats.HasNaN(data) {
		return nil, errors.Reason("data for %s contains NaN", spec.Field)
	}
	bins, err := CoveringBins(data, spec.BinWidth, spec.Limit())
	if err != nil {
		return nil, err
	}
	return &Histogram{
		spec: spec,
		tags: tags,
		data: data,
		bins: bins,
	}, nil
}

// CreateHistogram is the factory for single video histograms. NaN values are
// dropped from the data first. When no data remains, the histogram is absent:
// the result is (nil, false, nil). This is the common case of a feature not
// observed in a video, and it is not an error.
func CreateHistogram(data []float64, spec *BinSpec, tags Tags) (h *Histogram, ok bool, err error) {
	data = dropNaN(data)
	if len(data) == 0 {
		return nil, false, nil
	}
	if h, err = NewHistogram(data, spec, tags); err != nil {
		return nil, false, err
	}
	return h, true, nil
}

// dropNaN returns data itself when it has no NaN values, or a filtered copy.
func dropNaN(data []float64) []float64 {
	if !floats.HasNaN(data) {
		return data
	}
	res := make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) {
			res = append(res, x)
		}
	}
	return res
}

// Spec shared by all the histograms of the feature.
func (h *Histogram) Spec() *BinSpec { return h.spec }

// Tags of the histogram.
func (h *Histogram) Tags() Tags { return h.tags }

// HistType, MotionType and DataType are shortcuts for the fields of Tags.
func (h *Histogram) HistType() HistType     { return h.tags.Hist }
func (h *Histogram) MotionType() MotionType { return h.tags.Motion }
func (h *Histogram) DataType() DataType     { return h.tags.Data }

// Data is the raw sample of a single video histogram; nil when merged.
func (h *Histogram) Data() []float64 { return h.data }

// IsMerged is true for histograms created by Merge.
func (h *Histogram) IsMerged() bool { return h.merged }

// BinWidth of the BinSpec.
func (h *Histogram) BinWidth() float64 { return h.spec.BinWidth }

// BinBoundaries are the n+1 edges of the n bins.
func (h *Histogram) BinBoundaries() []float64 {
	if h.bins == nil {
		return nil
	}
	return h.bins.Bounds
}

// BinMidpoints are the centers of the bins.
func (h *Histogram) BinMidpoints() []float64 {
	return h.midpoints.get(func() []float64 {
		if h.bins == nil {
			return nil
		}
		return h.bins.Midpoints()
	})
}

// NumBins is the number of bins.
func (h *Histogram) NumBins() int { return len(h.BinMidpoints()) }

// FirstBinMidpoint is NaN when there are no bins.
func (h *Histogram) FirstBinMidpoint() float64 {
	m := h.BinMidpoints()
	if len(m) == 0 {
		return math.NaN()
	}
	return m[0]
}

// LastBinMidpoint is NaN when there are no bins.
func (h *Histogram) LastBinMidpoint() float64 {
	m := h.BinMidpoints()
	if len(m) == 0 {
		return math.NaN()
	}
	return m[len(m)-1]
}

// Counts of samples in each bin, over all the videos.
func (h *Histogram) Counts() []uint {
	return h.counts.get(func() []uint {
		if !h.merged {
			return h.bins.Count(h.data)
		}
		res := make([]uint, h.NumBins())
		for _, row := range h.VideoCounts() {
			for i, c := range row {
				res[i] += c
			}
		}
		return res
	})
}

// VideoCounts are the bin counts for each source video, aligned to this
// histogram's bins.
func (h *Histogram) VideoCounts() [][]uint {
	return h.videoCounts.get(func() [][]uint {
		return [][]uint{h.Counts()}
	})
}

// PDF is the probability mass of each bin: the counts normalized by the total
// number of samples. It is nil when there are no samples.
func (h *Histogram) PDF() []float64 {
	return h.pdf.get(func() []float64 {
		total := 0
		for _, n := range h.NumSamples() {
			total += n
		}
		if total == 0 {
			return nil
		}
		res := make([]float64, h.NumBins())
		for i, c := range h.Counts() {
			res[i] = float64(c) / float64(total)
		}
		return res
	})
}

// NumSamples for each video.
func (h *Histogram) NumSamples() []int {
	return h.numSamples.get(func() []int {
		return []int{len(h.data)}
	})
}

// MeanPerVideo is the mean of the samples in each video.
func (h *Histogram) MeanPerVideo() []float64 {
	return h.means.get(func() []float64 {
		return []float64{stat.Mean(h.data, nil)}
	})
}

// StdPerVideo is the sample standard deviation (with Bessel's correction) for
// each video. It is 0 for a single sample.
func (h *Histogram) StdPerVideo() []float64 {
	return h.stds.get(func() []float64 {
		if len(h.data) == 1 {
			return []float64{0}
		}
		return []float64{stat.StdDev(h.data, nil)}
	})
}

// NumVideos is the number of videos contributing to the histogram.
func (h *Histogram) NumVideos() int { return len(h.MeanPerVideo()) }

// ValidMeans are the per-video means excluding NaN. It always returns a newly
// allocated slice.
func (h *Histogram) ValidMeans() []float64 {
	res := []float64{}
	for _, m := range h.MeanPerVideo() {
		if !math.IsNaN(m) {
			res = append(res, m)
		}
	}
	return res
}

// NumValidMeasurements is the number of videos with a valid mean.
func (h *Histogram) NumValidMeasurements() int { return len(h.ValidMeans()) }

// AllMeansValid is true when no video has a NaN mean.
func (h *Histogram) AllMeansValid() bool {
	return h.NumValidMeasurements() == h.NumVideos()
}

// NoValidMeans is true when all the videos have NaN means.
func (h *Histogram) NoValidMeans() bool { return h.NumValidMeasurements() == 0 }

// Mean of the valid per-video means; NaN if there are none.
func (h *Histogram) Mean() float64 {
	valid := h.ValidMeans()
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// Std is the population standard deviation of the valid per-video means; NaN
// if there are none.
func (h *Histogram) Std() float64 {
	valid := h.ValidMeans()
	n := float64(len(valid))
	switch len(valid) {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	_, v := stat.MeanVariance(valid, nil)
	return math.Sqrt(v * (n - 1) / n)
}

// PNormal is the p-value of the two-sided Shapiro-Wilk test of the null
// hypothesis that the valid per-video means are drawn from a normal
// distribution. It is NaN for fewer than 3 valid means, or when the test is
// undefined for the data (e.g. all the means are the same).
func (h *Histogram) PNormal() float64 {
	return h.pNormal.get(func() float64 {
		valid := h.ValidMeans()
		if len(valid) < 3 {
			return math.NaN()
		}
		_, p, err := onlinestats.SWilk(valid)
		if err != nil {
			return math.NaN()
		}
		return p
	})
}

// Description is a longer name of the histogram, suitable for a plot title.
func (h *Histogram) Description() string {
	return fmt.Sprintf("%s , motion_type:%s, data_type: %s",
		h.spec.LongField, h.tags.Motion, h.tags.Data)
}
