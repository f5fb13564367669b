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

func evaluateParDo(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	side, err := broadcastSideInputs(ctx, op.Side, ec)
	if err != nil {
		return err
	}
	out := in.MapPartitions(doFnFunction(ctx, op.Name, op.Fn, side))
	return ec.SetOutputDataset(op, out)
}

// evaluateParDoMulti runs the user fn once over the input, producing a
// single stream of KV{tag, value} pairs, then caches that stream and
// carves one output per declared tag out of it with a filter and a value
// extraction. The fan-out never re-runs the fn: the tagged outputs
// partition the emitted elements.
func evaluateParDoMulti(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	side, err := broadcastSideInputs(ctx, op.Side, ec)
	if err != nil {
		return err
	}
	tagged := in.MapPartitions(multiDoFnFunction(ctx, op.Name, op.Fn, op.Tags, side)).Cache()

	for i, tag := range op.Tags {
		tag := tag
		filtered := tagged.Filter(func(e any) (bool, error) {
			return e.(values.KV).Key == tag, nil
		})
		out := filtered.Map(func(e any) (any, error) {
			return e.(values.KV).Value, nil
		})
		if err := ec.SetDataset(op.Output[i], out); err != nil {
			return err
		}
	}
	return nil
}
