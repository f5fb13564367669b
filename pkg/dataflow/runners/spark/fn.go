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
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// mainTag is the implicit output tag of single-output operators.
const mainTag = values.Tag("main")

// processContext is the graph.ProcessContext handed to a DoFn for one
// element. Emission errors (unknown tags) are deferred and surfaced after
// ProcessElement returns, since Emit has no error channel.
type processContext struct {
	ctx  context.Context
	elem any
	tags map[values.Tag]bool
	main values.Tag
	side map[values.Tag]*BroadcastHelper
	emit func(tag values.Tag, v any)
	err  error
}

var _ graph.ProcessContext = (*processContext)(nil)

func (pc *processContext) Context() context.Context {
	return pc.ctx
}

func (pc *processContext) Element() any {
	return pc.elem
}

func (pc *processContext) Emit(v any) {
	pc.emit(pc.main, v)
}

func (pc *processContext) EmitTagged(tag values.Tag, v any) {
	if !pc.tags[tag] {
		if pc.err == nil {
			pc.err = errors.Errorf("emitted to undeclared output tag %q", tag)
		}
		return
	}
	pc.emit(tag, v)
}

func (pc *processContext) SideInput(view *graph.View) (any, error) {
	helper, ok := pc.side[view.Tag()]
	if !ok {
		return nil, errors.Errorf("view %v is not a declared side input of this operator", view)
	}
	return helper.Get()
}

// doFnFunction adapts a DoFn with its broadcast side inputs to a partition
// function producing the operator's single output.
func doFnFunction(ctx context.Context, name string, fn graph.DoFn, side map[values.Tag]*BroadcastHelper) engine.PartitionFunc {
	return func(elems []any) ([]any, error) {
		var out []any
		for _, elem := range elems {
			pc := &processContext{
				ctx:  ctx,
				elem: elem,
				main: mainTag,
				tags: map[values.Tag]bool{mainTag: true},
				side: side,
				emit: func(_ values.Tag, v any) { out = append(out, v) },
			}
			if err := fn.ProcessElement(pc); err != nil {
				return nil, errors.Wrapf(err, "%v: processing element %v", name, elem)
			}
			if pc.err != nil {
				return nil, errors.Wrapf(pc.err, "%v: processing element %v", name, elem)
			}
		}
		return out, nil
	}
}

// multiDoFnFunction adapts a DoFn to a partition function producing tagged
// pairs KV{tag, value}, one stream later filtered per declared tag. Emit
// targets tags[0], the main output.
func multiDoFnFunction(ctx context.Context, name string, fn graph.DoFn, tags []values.Tag, side map[values.Tag]*BroadcastHelper) engine.PartitionFunc {
	declared := make(map[values.Tag]bool, len(tags))
	for _, tag := range tags {
		declared[tag] = true
	}
	return func(elems []any) ([]any, error) {
		var out []any
		for _, elem := range elems {
			pc := &processContext{
				ctx:  ctx,
				elem: elem,
				main: tags[0],
				tags: declared,
				side: side,
				emit: func(tag values.Tag, v any) {
					out = append(out, values.KV{Key: tag, Value: v})
				},
			}
			if err := fn.ProcessElement(pc); err != nil {
				return nil, errors.Wrapf(err, "%v: processing element %v", name, elem)
			}
			if pc.err != nil {
				return nil, errors.Wrapf(pc.err, "%v: processing element %v", name, elem)
			}
		}
		return out, nil
	}
}
