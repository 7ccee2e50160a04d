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

package features

import (
	"context"
	"fmt"
	"sort"

	"github.com/openworm/wormstats/stats"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
)

// Key identifies a histogram in a Set.
type Key struct {
	Field  string
	Motion stats.MotionType
	Data   stats.DataType
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%s/%s]", k.Field, k.Motion, k.Data)
}

// Expand the BinSpec into the tags of all its histograms: motion features get
// all the motion types, and signed features all the data types.
func Expand(spec *stats.BinSpec) []stats.Tags {
	motions := []stats.MotionType{stats.MotionAll}
	if spec.HistType == stats.HistMotion {
		motions = stats.AllMotionTypes
	}
	datas := []stats.DataType{stats.DataAll}
	if spec.Signed {
		datas = stats.AllDataTypes
	}
	var res []stats.Tags
	for _, m := range motions {
		for _, d := range datas {
			res = append(res, stats.Tags{Hist: spec.HistType, Motion: m, Data: d})
		}
	}
	return res
}

// Set of merged histograms of a group of videos, such as the control or the
// experiment group.
type Set struct {
	NumVideos int
	keys      []Key
	hists     map[Key]*stats.Histogram
}

func newSet(numVideos int) *Set {
	return &Set{NumVideos: numVideos, hists: make(map[Key]*stats.Histogram)}
}

func (s *Set) add(k Key, h *stats.Histogram) {
	if _, ok := s.hists[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.hists[k] = h
}

// Keys of the histograms present in the set, in the order of bin specs, motion
// types and data types.
func (s *Set) Keys() []Key { return s.keys }

// Get the histogram by key, or nil if absent.
func (s *Set) Get(k Key) *stats.Histogram { return s.hists[k] }

// Histograms in the order of Keys.
func (s *Set) Histograms() []*stats.Histogram {
	res := make([]*stats.Histogram, len(s.keys))
	for i, k := range s.keys {
		res[i] = s.hists[k]
	}
	return res
}

// VideoHistograms creates all the histograms of the video for the BinSpec, keyed
// by their tags. Absent histograms, including those for a feature missing in
// the video, are not in the result.
func VideoHistograms(ctx context.Context, v *Video, spec *stats.BinSpec) (map[stats.Tags]*stats.Histogram, error) {
	res := make(map[stats.Tags]*stats.Histogram)
	data, ok := v.Features[spec.Field]
	if !ok {
		logging.Debugf(ctx, "video %s has no feature %s", v.Name, spec.Field)
		return res, nil
	}
	for _, tags := range Expand(spec) {
		filtered, err := tags.Motion.Filter(data, v.MotionModes)
		if err != nil {
			return nil, errors.Annotate(err, "video %s, feature %s, motion %s",
				v.Name, spec.Field, tags.Motion)
		}
		filtered = tags.Data.Filter(filtered)
		h, ok, err := stats.CreateHistogram(filtered, spec, tags)
		if err != nil {
			return nil, errors.Annotate(err, "video %s, histogram %s[%s]",
				v.Name, spec.Field, tags)
		}
		if !ok {
			logging.Debugf(ctx, "video %s: no data for %s[%s]", v.Name, spec.Field, tags)
			continue
		}
		res[tags] = h
	}
	return res, nil
}

type videoResult struct {
	index int
	hists []map[stats.Tags]*stats.Histogram // per spec
	err   error
}

// Build creates the per-video histograms in parallel using the given number
// of workers, and merges them for each feature, motion and data type. A
// histogram absent in all the videos is absent from the Set.
func Build(ctx context.Context, videos []*Video, specs []*stats.BinSpec, workers int) (*Set, error) {
	if len(videos) == 0 {
		return nil, errors.Reason("no videos")
	}
	if workers < 1 {
		workers = 1
	}
	indices := make([]int, len(videos))
	for i := range indices {
		indices[i] = i
	}
	f := func(i int) videoResult {
		r := videoResult{index: i}
		for _, s := range specs {
			hs, err := VideoHistograms(ctx, videos[i], s)
			if err != nil {
				r.err = err
				return r
			}
			r.hists = append(r.hists, hs)
		}
		return r
	}
	ctx, cancel := context.WithCancel(ctx)
	pm := iterator.ParallelMap(ctx, workers, iterator.FromSlice(indices), f)
	defer func() {
		cancel()
		iterator.Flush(pm)
	}()

	results := iterator.Reduce[videoResult, []videoResult](
		pm, []videoResult{}, func(r videoResult, rs []videoResult) []videoResult {
			return append(rs, r)
		})
	if len(results) != len(videos) {
		return nil, errors.Reason("processed %d videos out of %d",
			len(results), len(videos))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	for _, r := range results {
		if r.err != nil {
			return nil, errors.Annotate(r.err, "failed to process videos")
		}
	}

	set := newSet(len(videos))
	for si, s := range specs {
		for _, tags := range Expand(s) {
			var hs []*stats.Histogram
			for _, r := range results {
				if h, ok := r.hists[si][tags]; ok {
					hs = append(hs, h)
				}
			}
			k := Key{Field: s.Field, Motion: tags.Motion, Data: tags.Data}
			if len(hs) == 0 {
				logging.Debugf(ctx, "no videos have data for %s", k)
				continue
			}
			m, err := stats.Merge(hs)
			if err != nil {
				return nil, errors.Annotate(err, "failed to merge %s", k)
			}
			set.add(k, m)
		}
	}
	logging.Infof(ctx, "built %d histograms from %d videos",
		len(set.keys), len(videos))
	return set, nil
}
