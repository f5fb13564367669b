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

// EvaluationContext is one job run's state: the mapping from graph nodes to
// physical datasets and from views to their materialized elements. It is
// mutated only by the single evaluation goroutine driving the graph walk;
// evaluators must register outputs here and not retain dataset references
// otherwise. It doubles as the job result, letting callers collect outputs
// after Run returns.
type EvaluationContext struct {
	eng   engine.Engine
	jobID string
	name  string

	datasets map[*graph.Node]engine.Dataset
	views    map[values.Tag][]values.WindowedValue
}

func newEvaluationContext(eng engine.Engine, jobID, name string) *EvaluationContext {
	return &EvaluationContext{
		eng:      eng,
		jobID:    jobID,
		name:     name,
		datasets: make(map[*graph.Node]engine.Dataset),
		views:    make(map[values.Tag][]values.WindowedValue),
	}
}

// Engine returns the host engine the job runs on.
func (ec *EvaluationContext) Engine() engine.Engine {
	return ec.eng
}

// JobID returns the run's unique id.
func (ec *EvaluationContext) JobID() string {
	return ec.jobID
}

// Name returns the label the job was run under.
func (ec *EvaluationContext) Name() string {
	return ec.name
}

// DatasetFor returns the physical dataset registered for node.
func (ec *EvaluationContext) DatasetFor(node *graph.Node) (engine.Dataset, error) {
	ds, ok := ec.datasets[node]
	if !ok {
		return nil, errors.Errorf("no dataset registered for node %v; operator evaluated out of order", node)
	}
	return ds, nil
}

// InputDataset returns the dataset of the operator's single input node.
func (ec *EvaluationContext) InputDataset(op *graph.Operator) (engine.Dataset, error) {
	if len(op.Input) != 1 {
		return nil, errors.Errorf("operator %v has %d inputs, want exactly 1", op.Name, len(op.Input))
	}
	return ec.DatasetFor(op.Input[0])
}

// SetDataset registers the dataset computed for node. Each node is bound
// exactly once.
func (ec *EvaluationContext) SetDataset(node *graph.Node, ds engine.Dataset) error {
	if _, ok := ec.datasets[node]; ok {
		return errors.Errorf("dataset for node %v registered twice", node)
	}
	ec.datasets[node] = ds
	return nil
}

// SetOutputDataset registers the dataset of the operator's single output
// node.
func (ec *EvaluationContext) SetOutputDataset(op *graph.Operator, ds engine.Dataset) error {
	if len(op.Output) != 1 {
		return errors.Errorf("operator %v has %d outputs, want exactly 1", op.Name, len(op.Output))
	}
	return ec.SetDataset(op.Output[0], ds)
}

// SetSideInput registers the materialized, windowed elements backing view.
func (ec *EvaluationContext) SetSideInput(view *graph.View, elems []values.WindowedValue) error {
	if _, ok := ec.views[view.Tag()]; ok {
		return errors.Errorf("view %v registered twice", view)
	}
	ec.views[view.Tag()] = elems
	return nil
}

// SideInput returns the materialized elements backing view.
func (ec *EvaluationContext) SideInput(view *graph.View) ([]values.WindowedValue, error) {
	elems, ok := ec.views[view.Tag()]
	if !ok {
		return nil, errors.Errorf("view %v has no materialized backing; operator evaluated out of order", view)
	}
	return elems, nil
}

// DefaultCoder picks a coder for an arbitrary value by its dynamic type,
// for values that cross the engine boundary outside any node's coder, such
// as resolved side inputs.
func (ec *EvaluationContext) DefaultCoder(sample any) coder.Coder {
	return coder.Default(sample)
}

// Get collects the materialized elements of node. It is the job-result
// accessor for callers and tests; it triggers computation on the engine.
func (ec *EvaluationContext) Get(ctx context.Context, node *graph.Node) ([]any, error) {
	ds, err := ec.DatasetFor(node)
	if err != nil {
		return nil, err
	}
	return ds.Collect(ctx)
}
