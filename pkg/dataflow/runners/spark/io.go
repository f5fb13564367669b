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
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/avroio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/textio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
)

func evaluateReadText(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	return ec.SetOutputDataset(op, ec.Engine().TextFile(op.Pattern))
}

// evaluateWriteText is a terminal action: it runs the upstream computation
// and persists the result. Write failures surface to the caller with the
// cause attached; nothing masks a partially written output.
func evaluateWriteText(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	if err := in.SaveAsTextFile(ctx, op.Prefix); err != nil {
		return connectorErr(err, "writing text to "+op.Prefix)
	}
	return nil
}

// evaluateReadAvro expands the pattern eagerly, parallelizes the matched
// file names, and decodes each file's records on the workers.
func evaluateReadAvro(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	files, err := textio.Expand(op.Pattern)
	if err != nil {
		return connectorErr(err, "reading avro from "+op.Pattern)
	}
	names := make([]any, len(files))
	for i, f := range files {
		names[i] = f
	}
	records := ec.Engine().Parallelize(names).MapPartitions(func(elems []any) ([]any, error) {
		var out []any
		for _, name := range elems {
			recs, err := avroio.ReadFile(name.(string))
			if err != nil {
				return nil, connectorErr(err, "reading avro file")
			}
			out = append(out, recs...)
		}
		return out, nil
	})
	return ec.SetOutputDataset(op, records)
}

func evaluateWriteAvro(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	in, err := ec.InputDataset(op)
	if err != nil {
		return err
	}
	err = in.ForeachPartition(ctx, func(part, total int, elems []any) error {
		return avroio.WriteFile(avroio.ShardName(op.Prefix, part, total), op.Schema, elems)
	})
	if err != nil {
		return connectorErr(err, "writing avro to "+op.Prefix)
	}
	return nil
}

func evaluateFlatten(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	ins := make([]engine.Dataset, len(op.Input))
	for i, node := range op.Input {
		ds, err := ec.DatasetFor(node)
		if err != nil {
			return err
		}
		ins[i] = ds
	}
	union, err := ec.Engine().Union(ins)
	if err != nil {
		return errors.Wrapf(err, "operator %v", op.Name)
	}
	return ec.SetOutputDataset(op, union)
}

// evaluateCreate encodes the literal elements with the output coder at
// translation time, hands the byte arrays to the engine, and decodes them
// back on the workers. The eager encode surfaces a coder mismatch before
// any computation runs.
func evaluateCreate(_ context.Context, op *graph.Operator, ec *EvaluationContext) error {
	c := op.Output[0].Coder
	data, err := coder.EncodeSlice(c, op.Values)
	if err != nil {
		return errors.Wrapf(err, "operator %v: encoding literal elements", op.Name)
	}
	elems := make([]any, len(data))
	for i, b := range data {
		elems[i] = b
	}
	decoded := ec.Engine().Parallelize(elems).Map(func(e any) (any, error) {
		return c.Decode(e.([]byte))
	})
	return ec.SetOutputDataset(op, decoded)
}
