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

	"github.com/openworm/wormstats/stats"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// Compare all the histograms present in both sets, in the order of the
// experiment set keys. The q-values are adjusted over all the resulting
// comparisons.
func Compare(ctx context.Context, exp, ctl *Set) ([]*stats.Comparison, error) {
	var res []*stats.Comparison
	for _, k := range exp.Keys() {
		c := ctl.Get(k)
		if c == nil {
			logging.Debugf(ctx, "%s is absent in control", k)
			continue
		}
		cmp, err := stats.Compare(exp.Get(k), c)
		if err != nil {
			return nil, errors.Annotate(err, "failed to compare %s", k)
		}
		res = append(res, cmp)
	}
	stats.AdjustComparisons(res)
	return res, nil
}
