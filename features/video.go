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
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// MotionModeColumn is the optional CSV column with the per-frame motion mode:
// 1 forward, 0 paused, -1 backward, empty if unknown.
const MotionModeColumn = "motion_mode"

// Video is the feature measurements of a single video.
type Video struct {
	Name        string
	Features    map[string][]float64 // per-frame or per-event values
	MotionModes []float64            // per-frame; nil when unknown
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadCSVVideo reads a video from CSV. The first row is a header of feature
// fields; each following row is a frame. Empty cells and "NaN" are missing
// values.
func ReadCSVVideo(r io.Reader, name string) (*Video, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read header")
	}
	cols := make([][]float64, len(header))
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read line %d", line)
		}
		for i, s := range row {
			x, err := parseValue(s)
			if err != nil {
				return nil, errors.Annotate(err, "line %d, column '%s'",
					line, header[i])
			}
			cols[i] = append(cols[i], x)
		}
	}
	v := &Video{Name: name, Features: make(map[string][]float64)}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := v.Features[h]; ok || (h == MotionModeColumn && v.MotionModes != nil) {
			return nil, errors.Reason("duplicate column '%s'", h)
		}
		if cols[i] == nil {
			cols[i] = []float64{}
		}
		if h == MotionModeColumn {
			v.MotionModes = cols[i]
			continue
		}
		v.Features[h] = cols[i]
	}
	return v, nil
}

// ReadVideoFile reads a CSV video file. The video is named after the file
// without its extension.
func ReadVideoFile(path string) (*Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open %s", path)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	v, err := ReadCSVVideo(f, name)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read %s", path)
	}
	return v, nil
}

// LoadVideos reads all the *.csv files in dir, sorted by file name.
func LoadVideos(ctx context.Context, dir string) ([]*Video, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, errors.Annotate(err, "failed to list %s", dir)
	}
	if len(paths) == 0 {
		return nil, errors.Reason("no CSV files in %s", dir)
	}
	sort.Strings(paths)
	videos := make([]*Video, len(paths))
	for i, p := range paths {
		if videos[i], err = ReadVideoFile(p); err != nil {
			return nil, errors.Annotate(err, "failed to load videos")
		}
		logging.Debugf(ctx, "loaded video %s with %d features",
			videos[i].Name, len(videos[i].Features))
	}
	logging.Infof(ctx, "loaded %d videos from %s", len(videos), dir)
	return videos, nil
}
