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
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
)

// Comparison of the experiment histogram against the control histogram of the
// same feature. The tests are performed on the valid per-video means.
type Comparison struct {
	Exp *Histogram
	Ctl *Histogram
	PT  float64 // Welch's t-test p-value
	PW  float64 // Mann-Whitney U (Wilcoxon rank-sum) test p-value
	QT  float64 // PT adjusted for multiple comparisons, see AdjustComparisons
	QW  float64 // PW adjusted for multiple comparisons
}

// Compare the experiment and control histograms. It's an error if they are
// for different features. P-values which cannot be computed (e.g. too few
// videos) are NaN. The q-values are set to the p-values; use
// AdjustComparisons to adjust them over a set of comparisons.
func Compare(exp, ctl *Histogram) (*Comparison, error) {
	if exp == nil || ctl == nil {
		return nil, &PreconditionError{Msg: "cannot compare a nil histogram"}
	}
	if exp.spec.LongField != ctl.spec.LongField {
		return nil, &PreconditionError{Msg: fmt.Sprintf(
			"cannot compare '%s' against '%s'",
			exp.spec.LongField, ctl.spec.LongField)}
	}
	x := exp.ValidMeans()
	y := ctl.ValidMeans()
	c := &Comparison{
		Exp: exp,
		Ctl: ctl,
		PT:  WelchTTest(x, y),
		PW:  MannWhitneyUTest(x, y),
	}
	c.QT = c.PT
	c.QW = c.PW
	return c, nil
}

// WelchTTest computes the two-sided p-value of Welch's unequal variances
// t-test. It is NaN when either sample has fewer than 2 values or both have
// zero variance.
func WelchTTest(x, y []float64) float64 {
	res, err := mstats.TwoSampleWelchTTest(
		mstats.Sample{Xs: x}, mstats.Sample{Xs: y}, mstats.LocationDiffers)
	if err != nil {
		return math.NaN()
	}
	return res.P
}

// MannWhitneyUTest computes the two-sided p-value of the Mann-Whitney U test
// (also known as the Wilcoxon rank-sum test). It is NaN when the test is
// undefined, e.g. for an empty sample or when all the values are equal.
func MannWhitneyUTest(x, y []float64) float64 {
	res, err := mstats.MannWhitneyUTest(x, y, mstats.LocationDiffers)
	if err != nil {
		return math.NaN()
	}
	return res.P
}

// FDR computes the Benjamini-Hochberg false discovery rate q-values for the
// p-values. NaN p-values are not counted as tests and remain NaN. It always
// returns a newly allocated slice.
func FDR(ps []float64) []float64 {
	qs := make([]float64, len(ps))
	idx := []int{}
	for i, p := range ps {
		qs[i] = math.NaN()
		if !math.IsNaN(p) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(i, j int) bool { return ps[idx[i]] < ps[idx[j]] })
	m := float64(len(idx))
	q := 1.0
	for k := len(idx) - 1; k >= 0; k-- {
		i := idx[k]
		q = math.Min(q, ps[i]*m/float64(k+1))
		qs[i] = q
	}
	return qs
}

// AdjustComparisons sets QT and QW of all the comparisons to the FDR q-values
// of their PT and PW, respectively.
func AdjustComparisons(cs []*Comparison) {
	pt := make([]float64, len(cs))
	pw := make([]float64, len(cs))
	for i, c := range cs {
		pt[i] = c.PT
		pw[i] = c.PW
	}
	qt := FDR(pt)
	qw := FDR(pw)
	for i, c := range cs {
		c.QT = qt[i]
		c.QW = qw[i]
	}
}
