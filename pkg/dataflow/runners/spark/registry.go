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
	"fmt"
	"sort"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
)

// Evaluator translates one operator onto the engine: it reads the already
// computed physical inputs from the evaluation context, performs its
// translation, and registers the physical outputs back for downstream
// operators.
type Evaluator interface {
	Evaluate(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
	return f(ctx, op, ec)
}

// Registry maps operator kinds to evaluators. Dispatch is by exact kind
// with no structural fallback: an unsupported operator fails fast rather
// than silently no-oping. Populate a registry before running jobs with it;
// it is safe for concurrent lookups once registration is done.
type Registry struct {
	evaluators map[graph.Kind]Evaluator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{evaluators: make(map[graph.Kind]Evaluator)}
}

// Register binds kind to ev, replacing any previous binding.
func (r *Registry) Register(kind graph.Kind, ev Evaluator) {
	r.evaluators[kind] = ev
}

// Has reports whether kind has an evaluator.
func (r *Registry) Has(kind graph.Kind) bool {
	_, ok := r.evaluators[kind]
	return ok
}

// Get returns the evaluator for kind, or an ErrUnregisteredOperator error
// naming the kind.
func (r *Registry) Get(kind graph.Kind) (Evaluator, error) {
	ev, ok := r.evaluators[kind]
	if !ok {
		return nil, fmt.Errorf("%w %v", ErrUnregisteredOperator, kind)
	}
	return ev, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []graph.Kind {
	kinds := make([]graph.Kind, 0, len(r.evaluators))
	for kind := range r.evaluators {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Validate checks that every operator's kind has an evaluator, so an
// unsupported operator fails before any work starts.
func (r *Registry) Validate(ops []*graph.Operator) error {
	for _, op := range ops {
		if !r.Has(op.Op) {
			return fmt.Errorf("%w %v (operator %v)", ErrUnregisteredOperator, op.Op, op.Name)
		}
	}
	return nil
}

// DefaultRegistry returns a registry with the full standard evaluator set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(graph.ReadText, EvaluatorFunc(evaluateReadText))
	r.Register(graph.WriteText, EvaluatorFunc(evaluateWriteText))
	r.Register(graph.ReadAvro, EvaluatorFunc(evaluateReadAvro))
	r.Register(graph.WriteAvro, EvaluatorFunc(evaluateWriteAvro))
	r.Register(graph.ParDo, EvaluatorFunc(evaluateParDo))
	r.Register(graph.ParDoMulti, EvaluatorFunc(evaluateParDoMulti))
	r.Register(graph.GroupByKey, EvaluatorFunc(evaluateGroupByKey))
	r.Register(graph.CombineGrouped, EvaluatorFunc(evaluateCombineGrouped))
	r.Register(graph.CombinePerKey, EvaluatorFunc(evaluateCombinePerKey))
	r.Register(graph.Flatten, EvaluatorFunc(evaluateFlatten))
	r.Register(graph.Create, EvaluatorFunc(evaluateCreate))
	r.Register(graph.ViewAsSingleton, EvaluatorFunc(evaluateView))
	r.Register(graph.ViewAsIterable, EvaluatorFunc(evaluateView))
	r.Register(graph.CreateView, EvaluatorFunc(evaluateView))
	return r
}
