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

// Package spark lowers a pipeline graph onto a Spark-like engine's
// collection primitives. Each operator kind has an evaluator that
// translates it to dataset transformations or actions; a registry
// dispatches by exact kind, and an evaluation context carries the
// node-to-dataset bindings of one run.
//
// The walk itself is single-threaded: operators are evaluated one at a
// time in topological order, building lazy dataset chains. All parallel
// execution happens inside the engine when an action runs. Cancellation
// and timeouts are the engine's concern; the runner only threads the
// caller's context through to it.
package spark

import (
	"context"

	"github.com/google/uuid"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/log"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
)

// Option adjusts how Run executes a job.
type Option func(*options)

type options struct {
	registry *Registry
	name     string
}

// WithRegistry runs the job with a custom evaluator registry instead of
// the default set.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithName labels the job in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Run executes the pipeline graph on the engine and returns the evaluation
// context as the job result. The graph is validated and every operator
// kind checked against the registry before any evaluation starts, so an
// unsupported operator fails before work is done. Evaluation stops at the
// first failing operator; its error is returned with the cause chain
// intact.
func Run(ctx context.Context, g *graph.Graph, eng engine.Engine, opts ...Option) (*EvaluationContext, error) {
	opt := options{registry: DefaultRegistry(), name: "job"}
	for _, o := range opts {
		o(&opt)
	}

	ops, err := g.Build()
	if err != nil {
		return nil, errors.Wrap(err, "invalid pipeline")
	}
	if err := opt.registry.Validate(ops); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	ec := newEvaluationContext(eng, jobID, opt.name)
	log.Infof(ctx, "job %v (%v): evaluating %d operators", opt.name, jobID, len(ops))

	for _, op := range ops {
		ev, err := opt.registry.Get(op.Op)
		if err != nil {
			return nil, err
		}
		log.Debugf(ctx, "job %v: evaluating %v", jobID, op)
		if err := ev.Evaluate(ctx, op, ec); err != nil {
			err = errors.Wrapf(err, "evaluating operator %v [%v]", op.Name, op.Op)
			return nil, errors.SetTopLevelMsgf(err, "job %v (%v) failed", opt.name, jobID)
		}
	}

	log.Infof(ctx, "job %v (%v): done", opt.name, jobID)
	return ec, nil
}
