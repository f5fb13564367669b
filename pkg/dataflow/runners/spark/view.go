// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spark

import (
	"context"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// evaluateView backs a view with its input's materialized elements,
// wrapped in the global window. All three view kinds share this shape;
// what differs is how consumers resolve the elements, which happens when
// the consuming operator broadcasts its side inputs. In particular a
// singleton view over the wrong number of elements fails at consumption,
// not here.
func evaluateView(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	elems, err := in.Collect(ctx)
	if err != nil {
		return err
	}
	windowed := make([]values.WindowedValue, len(elems))
	for i, e := range elems {
		windowed[i] = values.InGlobalWindow(e)
	}
	return ec.SetSideInput(op.View, windowed)
}
