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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Has(graph.ParDo) {
		t.Errorf("Has(ParDo) = true on an empty registry")
	}
	if _, err := r.Get(graph.ParDo); !errors.Is(err, ErrUnregisteredOperator) {
		t.Fatalf("Get(ParDo) error = %v, want ErrUnregisteredOperator", err)
	}

	var calls int
	r.Register(graph.ParDo, EvaluatorFunc(func(context.Context, *graph.Operator, *EvaluationContext) error {
		calls++
		return nil
	}))
	ev, err := r.Get(graph.ParDo)
	if err != nil {
		t.Fatalf("Get(ParDo) failed: %v", err)
	}
	if err := ev.Evaluate(context.Background(), nil, nil); err != nil || calls != 1 {
		t.Errorf("Evaluate: err = %v, calls = %d; want nil and 1", err, calls)
	}

	r.Register(graph.Create, EvaluatorFunc(func(context.Context, *graph.Operator, *EvaluationContext) error { return nil }))
	want := []graph.Kind{graph.Create, graph.ParDo}
	if diff := cmp.Diff(want, r.Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryValidate(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "letters", []any{"a"}, nil)
	if _, err := graph.NewParDo(g, "id", identityFn, in, nil, nil); err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}
	ops, err := g.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	r := NewRegistry()
	r.Register(graph.Create, EvaluatorFunc(evaluateCreate))
	if err := r.Validate(ops); !errors.Is(err, ErrUnregisteredOperator) {
		t.Errorf("Validate error = %v, want ErrUnregisteredOperator", err)
	}
	if err := DefaultRegistry().Validate(ops); err != nil {
		t.Errorf("Validate with the default registry failed: %v", err)
	}
}

func TestDefaultRegistryCoversAllKinds(t *testing.T) {
	kinds := []graph.Kind{
		graph.ReadText, graph.WriteText, graph.ReadAvro, graph.WriteAvro,
		graph.ParDo, graph.ParDoMulti, graph.GroupByKey, graph.CombineGrouped,
		graph.CombinePerKey, graph.Flatten, graph.Create,
		graph.ViewAsSingleton, graph.ViewAsIterable, graph.CreateView,
	}
	r := DefaultRegistry()
	for _, kind := range kinds {
		if !r.Has(kind) {
			t.Errorf("no evaluator registered for %v", kind)
		}
	}
	if got := len(r.Kinds()); got != len(kinds) {
		t.Errorf("registered %d kinds, want %d", got, len(kinds))
	}
}
