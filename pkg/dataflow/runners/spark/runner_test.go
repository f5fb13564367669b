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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/textio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine/local"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

var identityFn = graph.DoFunc(func(pc graph.ProcessContext) error {
	pc.Emit(pc.Element())
	return nil
})

// countingSumFn sums ints per key and counts how often each phase runs.
// It also records the keys each phase was invoked with, to pin down that
// the key reaches user combine logic even though the engine's reduce
// primitive never passes it.
type countingSumFn struct {
	creates, adds, merges, extracts atomic.Int64

	mu   sync.Mutex
	keys map[string]bool
}

func (f *countingSumFn) saw(key any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = make(map[string]bool)
	}
	f.keys[fmt.Sprint(key)] = true
}

func (f *countingSumFn) CreateAccumulator(key any) (any, error) {
	f.creates.Add(1)
	f.saw(key)
	return 0, nil
}

func (f *countingSumFn) AddInput(key, accum, input any) (any, error) {
	f.adds.Add(1)
	f.saw(key)
	return accum.(int) + input.(int), nil
}

func (f *countingSumFn) MergeAccumulators(key, a, b any) (any, error) {
	f.merges.Add(1)
	f.saw(key)
	return a.(int) + b.(int), nil
}

func (f *countingSumFn) ExtractOutput(key, accum any) (any, error) {
	f.extracts.Add(1)
	f.saw(key)
	return accum, nil
}

// seenKeys returns the keys any phase ran for, sorted.
func (f *countingSumFn) seenKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.keys))
	for k := range f.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runGraph(t *testing.T, g *graph.Graph, parallelism int, opts ...Option) *EvaluationContext {
	t.Helper()
	ec, err := Run(context.Background(), g, local.New(local.Config{Parallelism: parallelism}), opts...)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return ec
}

func collect(t *testing.T, ec *EvaluationContext, node *graph.Node) []any {
	t.Helper()
	got, err := ec.Get(context.Background(), node)
	if err != nil {
		t.Fatalf("Get(%v) failed: %v", node, err)
	}
	return got
}

func sortAny() cmp.Option {
	return cmpopts.SortSlices(func(a, b any) bool { return fmt.Sprint(a) < fmt.Sprint(b) })
}

func TestRunCreateParDo(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1, 2, 3}, coder.VarInts())
	out, err := graph.NewParDo(g, "double", graph.DoFunc(func(pc graph.ProcessContext) error {
		pc.Emit(pc.Element().(int) * 2)
		return nil
	}), in, nil, coder.VarInts())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	if diff := cmp.Diff([]any{2, 4, 6}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCombinePerKeySum(t *testing.T) {
	pairs := []any{
		values.KVOf("a", 1), values.KVOf("b", 2),
		values.KVOf("a", 2), values.KVOf("b", 3),
	}
	for _, parallelism := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("parallelism=%d", parallelism), func(t *testing.T) {
			g := graph.New()
			in := graph.NewCreate(g, "pairs", pairs, coder.KVOf(coder.Strings(), coder.VarInts()))
			fn := &countingSumFn{}
			out, err := graph.NewCombinePerKey(g, "sum", fn, in, coder.VarInts())
			if err != nil {
				t.Fatalf("NewCombinePerKey failed: %v", err)
			}

			ec := runGraph(t, g, parallelism)
			want := []any{values.KVOf("a", 3), values.KVOf("b", 5)}
			if diff := cmp.Diff(want, collect(t, ec, out), sortAny()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			// The engine's combineByKey never passes keys; the duplicated
			// key in the value channel must still reach every phase.
			if diff := cmp.Diff([]string{"a", "b"}, fn.seenKeys()); diff != "" {
				t.Errorf("combine phase keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCombinePerKeySingleValueKey(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "pair", []any{values.KVOf("solo", 7)}, coder.KVOf(coder.Strings(), coder.VarInts()))
	fn := &countingSumFn{}
	out, err := graph.NewCombinePerKey(g, "sum", fn, in, coder.VarInts())
	if err != nil {
		t.Fatalf("NewCombinePerKey failed: %v", err)
	}

	ec := runGraph(t, g, 1)
	if diff := cmp.Diff([]any{values.KVOf("solo", 7)}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	// A key with one value still runs seed and extraction, never a merge.
	if c, a, m, x := fn.creates.Load(), fn.adds.Load(), fn.merges.Load(), fn.extracts.Load(); c != 1 || a != 1 || m != 0 || x != 1 {
		t.Errorf("phases = create:%d add:%d merge:%d extract:%d, want 1/1/0/1", c, a, m, x)
	}
}

func TestRunGroupByKey(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "pairs", []any{
		values.KVOf("a", 1), values.KVOf("b", 2), values.KVOf("a", 3),
	}, coder.KVOf(coder.Strings(), coder.VarInts()))
	out, err := graph.NewGroupByKey(g, "group", in)
	if err != nil {
		t.Fatalf("NewGroupByKey failed: %v", err)
	}

	ec := runGraph(t, g, 3)
	want := []any{
		values.KVOf("a", []any{1, 3}),
		values.KVOf("b", []any{2}),
	}
	if diff := cmp.Diff(want, collect(t, ec, out), sortAny()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCombineGroupedValues(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "pairs", []any{
		values.KVOf("a", 1), values.KVOf("a", 3), values.KVOf("b", 2),
	}, coder.KVOf(coder.Strings(), coder.VarInts()))
	grouped, err := graph.NewGroupByKey(g, "group", in)
	if err != nil {
		t.Fatalf("NewGroupByKey failed: %v", err)
	}
	out, err := graph.NewCombineGroupedValues(g, "sum", &countingSumFn{}, grouped, coder.VarInts())
	if err != nil {
		t.Fatalf("NewCombineGroupedValues failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	want := []any{values.KVOf("a", 4), values.KVOf("b", 2)}
	if diff := cmp.Diff(want, collect(t, ec, out), sortAny()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFlatten(t *testing.T) {
	g := graph.New()
	a := graph.NewCreate(g, "first", []any{1, 2}, coder.VarInts())
	b := graph.NewCreate(g, "second", []any{3}, coder.VarInts())
	out, err := graph.NewFlatten(g, "both", []*graph.Node{a, b})
	if err != nil {
		t.Fatalf("NewFlatten failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	if diff := cmp.Diff([]any{1, 2, 3}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunParDoMultiSplitsByTag(t *testing.T) {
	var processed atomic.Int64
	parity := graph.DoFunc(func(pc graph.ProcessContext) error {
		processed.Add(1)
		n := pc.Element().(int)
		if n%2 == 0 {
			pc.EmitTagged("even", n)
			return nil
		}
		pc.Emit(n)
		return nil
	})

	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1, 2, 3, 4, 5, 6}, coder.VarInts())
	outs, err := graph.NewParDoMulti(g, "parity", parity, in, nil,
		[]values.Tag{"odd", "even"}, []coder.Coder{coder.VarInts(), coder.VarInts()})
	if err != nil {
		t.Fatalf("NewParDoMulti failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	if diff := cmp.Diff([]any{1, 3, 5}, collect(t, ec, outs[0])); diff != "" {
		t.Errorf("odd output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2, 4, 6}, collect(t, ec, outs[1])); diff != "" {
		t.Errorf("even output mismatch (-want +got):\n%s", diff)
	}
	if got := processed.Load(); got != 6 {
		t.Errorf("fn processed %d elements, want 6; the tagged stream must be computed once", got)
	}
}

func TestRunEmitToUndeclaredTagFails(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1}, coder.VarInts())
	outs, err := graph.NewParDoMulti(g, "stray", graph.DoFunc(func(pc graph.ProcessContext) error {
		pc.EmitTagged("nope", pc.Element())
		return nil
	}), in, nil, []values.Tag{"main"}, nil)
	if err != nil {
		t.Fatalf("NewParDoMulti failed: %v", err)
	}

	ec := runGraph(t, g, 1)
	if _, err := ec.Get(context.Background(), outs[0]); err == nil || !strings.Contains(err.Error(), "undeclared output tag") {
		t.Errorf("Get error = %v, want undeclared output tag failure", err)
	}
}

func TestRunSingletonSideInput(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1, 2, 3}, coder.VarInts())
	offset := graph.NewCreate(g, "offset", []any{10}, coder.VarInts())
	view, err := graph.NewViewAsSingleton(g, "offset view", offset)
	if err != nil {
		t.Fatalf("NewViewAsSingleton failed: %v", err)
	}
	out, err := graph.NewParDo(g, "add", graph.DoFunc(func(pc graph.ProcessContext) error {
		inc, err := pc.SideInput(view)
		if err != nil {
			return err
		}
		pc.Emit(pc.Element().(int) + inc.(int))
		return nil
	}), in, []*graph.View{view}, coder.VarInts())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	eng := local.New(local.Config{Parallelism: 2})
	ec, err := Run(context.Background(), g, eng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if diff := cmp.Diff([]any{11, 12, 13}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if got := eng.BroadcastCount(); got != 1 {
		t.Errorf("BroadcastCount() = %d, want 1", got)
	}
}

func TestRunSingletonSideInputCardinality(t *testing.T) {
	for _, tc := range []struct {
		name  string
		elems []any
	}{
		{"empty", nil},
		{"two elements", []any{10, 20}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New()
			in := graph.NewCreate(g, "nums", []any{1}, coder.VarInts())
			side := graph.NewCreate(g, "side", tc.elems, coder.VarInts())
			view, err := graph.NewViewAsSingleton(g, "side view", side)
			if err != nil {
				t.Fatalf("NewViewAsSingleton failed: %v", err)
			}
			if _, err := graph.NewParDo(g, "use", graph.DoFunc(func(pc graph.ProcessContext) error {
				v, err := pc.SideInput(view)
				if err != nil {
					return err
				}
				pc.Emit(v)
				return nil
			}), in, []*graph.View{view}, coder.VarInts()); err != nil {
				t.Fatalf("NewParDo failed: %v", err)
			}

			_, err = Run(context.Background(), g, local.New(local.Config{Parallelism: 1}))
			if !errors.Is(err, ErrSideInputCardinality) {
				t.Errorf("Run error = %v, want ErrSideInputCardinality", err)
			}
		})
	}
}

func TestRunIterableSideInput(t *testing.T) {
	g := graph.New()
	words := graph.NewCreate(g, "words", []any{"the", "quick", "a", "fox"}, coder.Strings())
	stop := graph.NewCreate(g, "stopwords", []any{"the", "a"}, coder.Strings())
	view, err := graph.NewViewAsIterable(g, "stopword view", stop)
	if err != nil {
		t.Fatalf("NewViewAsIterable failed: %v", err)
	}
	out, err := graph.NewParDo(g, "filter", graph.DoFunc(func(pc graph.ProcessContext) error {
		stops, err := pc.SideInput(view)
		if err != nil {
			return err
		}
		for _, s := range stops.([]any) {
			if s == pc.Element() {
				return nil
			}
		}
		pc.Emit(pc.Element())
		return nil
	}), words, []*graph.View{view}, coder.Strings())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	if diff := cmp.Diff([]any{"quick", "fox"}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunViewBroadcastPerConsumer(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1, 2}, coder.VarInts())
	side := graph.NewCreate(g, "offset", []any{100}, coder.VarInts())
	view, err := graph.NewViewAsSingleton(g, "offset view", side)
	if err != nil {
		t.Fatalf("NewViewAsSingleton failed: %v", err)
	}
	add := func(name string) *graph.Node {
		out, err := graph.NewParDo(g, name, graph.DoFunc(func(pc graph.ProcessContext) error {
			inc, err := pc.SideInput(view)
			if err != nil {
				return err
			}
			pc.Emit(pc.Element().(int) + inc.(int))
			return nil
		}), in, []*graph.View{view}, coder.VarInts())
		if err != nil {
			t.Fatalf("NewParDo(%v) failed: %v", name, err)
		}
		return out
	}
	first := add("first")
	second := add("second")

	eng := local.New(local.Config{Parallelism: 1})
	ec, err := Run(context.Background(), g, eng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []any{101, 102}
	if diff := cmp.Diff(want, collect(t, ec, first)); diff != "" {
		t.Errorf("first output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, collect(t, ec, second)); diff != "" {
		t.Errorf("second output mismatch (-want +got):\n%s", diff)
	}
	if got := eng.BroadcastCount(); got != 2 {
		t.Errorf("BroadcastCount() = %d, want one broadcast per consuming operator", got)
	}
}

func TestRunCreateViewBacksViewBuiltLater(t *testing.T) {
	g := graph.New()
	view := g.NewIterableView()
	in := graph.NewCreate(g, "nums", []any{1, 2}, coder.VarInts())
	out, err := graph.NewParDo(g, "count side", graph.DoFunc(func(pc graph.ProcessContext) error {
		elems, err := pc.SideInput(view)
		if err != nil {
			return err
		}
		pc.Emit(pc.Element().(int) + len(elems.([]any)))
		return nil
	}), in, []*graph.View{view}, coder.VarInts())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}
	backing := graph.NewCreate(g, "letters", []any{"x", "y", "z"}, coder.Strings())
	if _, err := graph.NewCreateView(g, "back view", backing, view); err != nil {
		t.Fatalf("NewCreateView failed: %v", err)
	}

	ec := runGraph(t, g, 1)
	if diff := cmp.Diff([]any{4, 5}, collect(t, ec, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunUnregisteredKindFailsBeforeEvaluation(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1}, coder.VarInts())
	if _, err := graph.NewParDo(g, "id", identityFn, in, nil, coder.VarInts()); err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	var evaluated int
	r := NewRegistry()
	r.Register(graph.Create, EvaluatorFunc(func(ctx context.Context, op *graph.Operator, ec *EvaluationContext) error {
		evaluated++
		return evaluateCreate(ctx, op, ec)
	}))

	_, err := Run(context.Background(), g, local.New(local.DefaultConfig()), WithRegistry(r))
	if !errors.Is(err, ErrUnregisteredOperator) {
		t.Fatalf("Run error = %v, want ErrUnregisteredOperator", err)
	}
	if evaluated != 0 {
		t.Errorf("evaluated %d operators before validation failed, want 0", evaluated)
	}
}

func TestRunDoFnErrorPropagates(t *testing.T) {
	g := graph.New()
	in := graph.NewCreate(g, "nums", []any{1, 2}, coder.VarInts())
	out, err := graph.NewParDo(g, "explode", graph.DoFunc(func(pc graph.ProcessContext) error {
		return errors.New("boom")
	}), in, nil, coder.VarInts())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	ec := runGraph(t, g, 1)
	if _, err := ec.Get(context.Background(), out); err == nil || !strings.Contains(err.Error(), "explode") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Get error = %v, want failure naming the operator and the cause", err)
	}
}

func TestRunInvalidGraph(t *testing.T) {
	g := graph.New()
	orphan := g.NewNode(coder.Strings())
	if _, err := graph.NewParDo(g, "consume", identityFn, orphan, nil, nil); err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}

	_, err := Run(context.Background(), g, local.New(local.DefaultConfig()))
	if err == nil || !strings.Contains(err.Error(), "invalid pipeline") {
		t.Errorf("Run error = %v, want invalid pipeline failure", err)
	}
}

func TestRunTextRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "in"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "in", "one.txt"), []byte("ada\ngrace\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "in", "two.txt"), []byte("alan\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	g := graph.New()
	lines, err := graph.NewReadText(g, "read", filepath.Join(dir, "in", "*.txt"))
	if err != nil {
		t.Fatalf("NewReadText failed: %v", err)
	}
	upper, err := graph.NewParDo(g, "upper", graph.DoFunc(func(pc graph.ProcessContext) error {
		pc.Emit(strings.ToUpper(pc.Element().(string)))
		return nil
	}), lines, nil, coder.Strings())
	if err != nil {
		t.Fatalf("NewParDo failed: %v", err)
	}
	outDir := filepath.Join(dir, "out")
	if _, err := graph.NewWriteText(g, "write", upper, outDir); err != nil {
		t.Fatalf("NewWriteText failed: %v", err)
	}

	ec := runGraph(t, g, 2)
	want := []any{"ADA", "GRACE", "ALAN"}
	if diff := cmp.Diff(want, collect(t, ec, upper), sortAny()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if _, err := os.Stat(filepath.Join(outDir, "_SUCCESS")); err != nil {
		t.Errorf("missing success marker: %v", err)
	}
	files, err := textio.Expand(filepath.Join(outDir, "part-*"))
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	var back []any
	for _, f := range files {
		ls, err := textio.ReadLines(f)
		if err != nil {
			t.Fatalf("ReadLines(%v) failed: %v", f, err)
		}
		for _, l := range ls {
			back = append(back, l)
		}
	}
	if diff := cmp.Diff(want, back, sortAny()); diff != "" {
		t.Errorf("written lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReadTextMissingInput(t *testing.T) {
	g := graph.New()
	lines, err := graph.NewReadText(g, "read", filepath.Join(t.TempDir(), "*.txt"))
	if err != nil {
		t.Fatalf("NewReadText failed: %v", err)
	}

	// Reads are lazy, so the job itself starts fine and the missing input
	// surfaces when the collection is first computed.
	ec := runGraph(t, g, 1)
	if _, err := ec.Get(context.Background(), lines); err == nil || !strings.Contains(err.Error(), "no files match") {
		t.Errorf("Get error = %v, want no files match failure", err)
	}
}

func TestRunSinkSurfacesReadFailure(t *testing.T) {
	dir := t.TempDir()
	g := graph.New()
	lines, err := graph.NewReadText(g, "read", filepath.Join(dir, "in", "*.txt"))
	if err != nil {
		t.Fatalf("NewReadText failed: %v", err)
	}
	if _, err := graph.NewWriteText(g, "write", lines, filepath.Join(dir, "out")); err != nil {
		t.Fatalf("NewWriteText failed: %v", err)
	}

	_, err = Run(context.Background(), g, local.New(local.DefaultConfig()))
	if !errors.Is(err, ErrConnector) || !strings.Contains(err.Error(), "no files match") {
		t.Errorf("Run error = %v, want connector failure over the missing input", err)
	}
}

func TestRunWriteTextConnectorFailure(t *testing.T) {
	dir := t.TempDir()
	occupied := filepath.Join(dir, "out")
	if err := os.WriteFile(occupied, []byte("in the way"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	g := graph.New()
	in := graph.NewCreate(g, "lines", []any{"x"}, coder.Strings())
	if _, err := graph.NewWriteText(g, "write", in, occupied); err != nil {
		t.Fatalf("NewWriteText failed: %v", err)
	}

	_, err := Run(context.Background(), g, local.New(local.DefaultConfig()))
	if !errors.Is(err, ErrConnector) {
		t.Errorf("Run error = %v, want ErrConnector", err)
	}
}

const metricSchema = `{
	"type": "record",
	"name": "metric",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "value", "type": "double"}
	]
}`

func TestRunAvroRoundTrip(t *testing.T) {
	records := []any{
		map[string]any{"name": "latency", "value": 12.5},
		map[string]any{"name": "errors", "value": 3.0},
	}
	prefix := filepath.Join(t.TempDir(), "metrics")

	g := graph.New()
	in := graph.NewCreate(g, "records", records, nil)
	if _, err := graph.NewWriteAvro(g, "write", in, prefix, metricSchema); err != nil {
		t.Fatalf("NewWriteAvro failed: %v", err)
	}
	runGraph(t, g, 2)

	read := graph.New()
	out, err := graph.NewReadAvro(read, "read", prefix+"-*")
	if err != nil {
		t.Fatalf("NewReadAvro failed: %v", err)
	}
	ec := runGraph(t, read, 2)
	if diff := cmp.Diff(records, collect(t, ec, out), sortAny()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReadAvroMissingInput(t *testing.T) {
	g := graph.New()
	if _, err := graph.NewReadAvro(g, "read", filepath.Join(t.TempDir(), "*.avro")); err != nil {
		t.Fatalf("NewReadAvro failed: %v", err)
	}

	_, err := Run(context.Background(), g, local.New(local.DefaultConfig()))
	if !errors.Is(err, ErrConnector) {
		t.Errorf("Run error = %v, want ErrConnector", err)
	}
}
