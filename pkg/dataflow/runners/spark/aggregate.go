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

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// keyedInput destructures a keyed operator's input: the physical dataset
// and the key coder whose bytes the engine groups by.
func keyedInput(op *graph.Operator, ec *EvaluationContext) (engine.Dataset, coder.KVCoder, error) {
	in, err := ec.InputDataset(op)
	if err != nil {
		return nil, nil, err
	}
	kc, ok := op.Input[0].Coder.(coder.KVCoder)
	if !ok {
		return nil, nil, errors.Errorf("operator %v input %v does not carry a kv coder", op.Name, op.Input[0])
	}
	return in, kc, nil
}

func evaluateGroupByKey(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, kc, err := keyedInput(op, ec)
	if err != nil {
		return err
	}
	return ec.SetOutputDataset(op, in.GroupByKey(kc.KeyCoder().Encode))
}

// evaluateCombinePerKey lowers a per-key combine onto the engine's
// three-phase combineByKey. Every CombineFn phase takes the key, but the
// engine's combine functions receive values and accumulators only, never
// the key; so the key is duplicated into the value channel, each input
// travels as KV{key, KV{key, value}} and every accumulator as
// KV{key, accumulator}, keeping the key at hand for each phase. Seeding
// runs CreateAccumulator plus AddInput on the first value; a key with a
// single value takes the same path, there is no identity shortcut.
// ExtractOutput runs as a separate mapping pass over the combined result.
func evaluateCombinePerKey(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, kc, err := keyedInput(op, ec)
	if err != nil {
		return err
	}
	fn := op.Combine

	duplicated := in.Map(func(e any) (any, error) {
		kv, ok := e.(values.KV)
		if !ok {
			return nil, errors.Errorf("operator %v: element %T is not a kv pair", op.Name, e)
		}
		return values.KV{Key: kv.Key, Value: kv}, nil
	})

	spec := engine.CombineSpec{
		CreateCombiner: func(v any) (any, error) {
			kv := v.(values.KV)
			a, err := fn.CreateAccumulator(kv.Key)
			if err != nil {
				return nil, combineErr(err, "CreateAccumulator")
			}
			a, err = fn.AddInput(kv.Key, a, kv.Value)
			if err != nil {
				return nil, combineErr(err, "AddInput")
			}
			return values.KV{Key: kv.Key, Value: a}, nil
		},
		MergeValue: func(acc, v any) (any, error) {
			akv := acc.(values.KV)
			kv := v.(values.KV)
			a, err := fn.AddInput(akv.Key, akv.Value, kv.Value)
			if err != nil {
				return nil, combineErr(err, "AddInput")
			}
			return values.KV{Key: akv.Key, Value: a}, nil
		},
		MergeCombiners: func(x, y any) (any, error) {
			a := x.(values.KV)
			b := y.(values.KV)
			merged, err := fn.MergeAccumulators(a.Key, a.Value, b.Value)
			if err != nil {
				return nil, combineErr(err, "MergeAccumulators")
			}
			return values.KV{Key: a.Key, Value: merged}, nil
		},
	}
	combined := duplicated.CombineByKey(kc.KeyCoder().Encode, spec)

	extracted := combined.Map(func(e any) (any, error) {
		kv := e.(values.KV)
		inner := kv.Value.(values.KV)
		out, err := fn.ExtractOutput(inner.Key, inner.Value)
		if err != nil {
			return nil, combineErr(err, "ExtractOutput")
		}
		return values.KV{Key: kv.Key, Value: out}, nil
	})
	return ec.SetOutputDataset(op, extracted)
}

// evaluateCombineGrouped applies a combine to an already grouped
// collection: the key is present in each element, so the whole create,
// fold, extract sequence runs in one step per pair without duplicating
// the key.
func evaluateCombineGrouped(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	fn := op.Combine

	combined := in.Map(func(e any) (any, error) {
		kv, ok := e.(values.KV)
		if !ok {
			return nil, errors.Errorf("operator %v: element %T is not a kv pair", op.Name, e)
		}
		vals, ok := kv.Value.([]any)
		if !ok {
			return nil, errors.Errorf("operator %v: values of key %v are not grouped", op.Name, kv.Key)
		}
		a, err := fn.CreateAccumulator(kv.Key)
		if err != nil {
			return nil, combineErr(err, "CreateAccumulator")
		}
		for _, v := range vals {
			a, err = fn.AddInput(kv.Key, a, v)
			if err != nil {
				return nil, combineErr(err, "AddInput")
			}
		}
		out, err := fn.ExtractOutput(kv.Key, a)
		if err != nil {
			return nil, combineErr(err, "ExtractOutput")
		}
		return values.KV{Key: kv.Key, Value: out}, nil
	})
	return ec.SetOutputDataset(op, combined)
}
