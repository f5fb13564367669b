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

package graph

import (
	"fmt"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// Kind identifies a primitive operator. Runners dispatch evaluators by exact
// kind; there is no structural or inheritance-based fallback.
type Kind string

// Valid operator kinds.
const (
	ReadText        Kind = "ReadText"
	WriteText       Kind = "WriteText"
	ReadAvro        Kind = "ReadAvro"
	WriteAvro       Kind = "WriteAvro"
	ParDo           Kind = "ParDo"
	ParDoMulti      Kind = "ParDoMulti"
	GroupByKey      Kind = "GroupByKey"
	CombineGrouped  Kind = "CombineGroupedValues"
	CombinePerKey   Kind = "CombinePerKey"
	Flatten         Kind = "Flatten"
	Create          Kind = "Create"
	ViewAsSingleton Kind = "ViewAsSingleton"
	ViewAsIterable  Kind = "ViewAsIterable"
	CreateView      Kind = "CreateView"
)

// Operator is one primitive transform application in the graph. The
// kind-specific configuration an evaluator needs is part of the public,
// typed contract from construction: payload fields are set by the
// constructor for the operator's kind and nil or zero otherwise.
type Operator struct {
	id int

	// Op is the operator kind.
	Op Kind

	// Name labels this instance in logs and errors. Defaults to the kind.
	Name string

	// Input and Output are the consumed and produced collections.
	// ParDoMulti has one output node per tag, in tag order; sinks and
	// view operators have no output nodes.
	Input  []*Node
	Output []*Node

	// Pattern is the input file pattern for ReadText and ReadAvro.
	Pattern string

	// Prefix is the output location prefix for WriteText and WriteAvro.
	Prefix string

	// Schema is the Avro writer schema (JSON) for WriteAvro.
	Schema string

	// Fn and Side configure ParDo and ParDoMulti.
	Fn   DoFn
	Side []*View

	// Tags lists the declared outputs of ParDoMulti, parallel to Output.
	// Tags[0] is the main output.
	Tags []values.Tag

	// Combine configures CombinePerKey and CombineGroupedValues.
	Combine CombineFn

	// Values holds the literal elements of Create.
	Values []any

	// View is the view produced by ViewAsSingleton, ViewAsIterable and
	// CreateView.
	View *View
}

// ID returns the operator's graph-unique id.
func (o *Operator) ID() int {
	return o.id
}

func (o *Operator) String() string {
	return fmt.Sprintf("%v [%v] %v -> %v", o.Name, o.Op, o.Input, o.Output)
}

// NewReadText creates an operator that reads the files matching pattern as
// lines. Returns the output node, carrying the string coder.
func NewReadText(g *Graph, name, pattern string) (*Node, error) {
	if pattern == "" {
		return nil, errors.New("ReadText: empty file pattern")
	}
	out := g.NewNode(coder.Strings())
	op := g.newOperator(ReadText, name)
	op.Pattern = pattern
	op.Output = []*Node{out}
	return out, nil
}

// NewWriteText creates a sink operator that persists in under the location
// prefix, one line per element. Non-string elements are formatted with their
// default representation.
func NewWriteText(g *Graph, name string, in *Node, prefix string) (*Operator, error) {
	if in == nil {
		return nil, errors.New("WriteText: nil input")
	}
	if prefix == "" {
		return nil, errors.New("WriteText: empty location prefix")
	}
	op := g.newOperator(WriteText, name)
	op.Input = []*Node{in}
	op.Prefix = prefix
	return op, nil
}

// NewReadAvro creates an operator that reads Avro object container files
// matching pattern. Records decode with the embedded writer schema; the
// output node carries the JSON coder since record shapes are dynamic.
func NewReadAvro(g *Graph, name, pattern string) (*Node, error) {
	if pattern == "" {
		return nil, errors.New("ReadAvro: empty file pattern")
	}
	out := g.NewNode(coder.JSON())
	op := g.newOperator(ReadAvro, name)
	op.Pattern = pattern
	op.Output = []*Node{out}
	return out, nil
}

// NewWriteAvro creates a sink operator that persists in as Avro object
// container files under prefix, written with the given writer schema.
func NewWriteAvro(g *Graph, name string, in *Node, prefix, schema string) (*Operator, error) {
	if in == nil {
		return nil, errors.New("WriteAvro: nil input")
	}
	if prefix == "" {
		return nil, errors.New("WriteAvro: empty location prefix")
	}
	if schema == "" {
		return nil, errors.New("WriteAvro: empty writer schema")
	}
	op := g.newOperator(WriteAvro, name)
	op.Input = []*Node{in}
	op.Prefix = prefix
	op.Schema = schema
	return op, nil
}

// NewCreate creates a source operator producing the literal elems. If c is
// nil the coder is inferred from the first element, falling back to JSON.
func NewCreate(g *Graph, name string, elems []any, c coder.Coder) *Node {
	if c == nil {
		if len(elems) > 0 {
			c = coder.Default(elems[0])
		} else {
			c = coder.JSON()
		}
	}
	out := g.NewNode(c)
	op := g.newOperator(Create, name)
	op.Values = elems
	op.Output = []*Node{out}
	return out
}

// NewParDo creates a per-element transform over in with optional side input
// views. out is the output element coder; nil falls back to JSON. Returns
// the single output node.
func NewParDo(g *Graph, name string, fn DoFn, in *Node, side []*View, out coder.Coder) (*Node, error) {
	if fn == nil {
		return nil, errors.New("ParDo: nil DoFn")
	}
	if in == nil {
		return nil, errors.New("ParDo: nil input")
	}
	if out == nil {
		out = coder.JSON()
	}
	node := g.NewNode(out)
	op := g.newOperator(ParDo, name)
	op.Fn = fn
	op.Input = []*Node{in}
	op.Side = side
	op.Output = []*Node{node}
	return node, nil
}

// NewParDoMulti creates a per-element transform with several tagged outputs.
// tags declares the outputs; tags[0] is the main output that Emit targets.
// coders is parallel to tags (nil means JSON for every output). Returns the
// output nodes in tag order.
func NewParDoMulti(g *Graph, name string, fn DoFn, in *Node, side []*View, tags []values.Tag, coders []coder.Coder) ([]*Node, error) {
	if fn == nil {
		return nil, errors.New("ParDoMulti: nil DoFn")
	}
	if in == nil {
		return nil, errors.New("ParDoMulti: nil input")
	}
	if len(tags) == 0 {
		return nil, errors.New("ParDoMulti: no output tags")
	}
	if coders != nil && len(coders) != len(tags) {
		return nil, errors.Errorf("ParDoMulti: %d coders for %d tags", len(coders), len(tags))
	}
	seen := make(map[values.Tag]bool, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			return nil, errors.Errorf("ParDoMulti: duplicate output tag %q", tag)
		}
		seen[tag] = true
	}
	outs := make([]*Node, len(tags))
	for i := range tags {
		var c coder.Coder
		if coders != nil {
			c = coders[i]
		}
		if c == nil {
			c = coder.JSON()
		}
		outs[i] = g.NewNode(c)
	}
	op := g.newOperator(ParDoMulti, name)
	op.Fn = fn
	op.Input = []*Node{in}
	op.Side = side
	op.Tags = append([]values.Tag(nil), tags...)
	op.Output = outs
	return outs, nil
}

// NewGroupByKey creates a grouping operator over a keyed collection. The
// input must carry a KV coder; the output carries KV<K, iterable<V>>.
func NewGroupByKey(g *Graph, name string, in *Node) (*Node, error) {
	if in == nil {
		return nil, errors.New("GroupByKey: nil input")
	}
	kc, ok := in.Coder.(coder.KVCoder)
	if !ok {
		return nil, errors.Errorf("GroupByKey: input %v does not carry a kv coder", in)
	}
	out := g.NewNode(coder.KVOf(kc.KeyCoder(), coder.IterableOf(kc.ValueCoder())))
	op := g.newOperator(GroupByKey, name)
	op.Input = []*Node{in}
	op.Output = []*Node{out}
	return out, nil
}

// NewCombinePerKey creates a shuffle-side combine over a keyed collection.
// The input must carry a KV coder; out is the combined-value coder (nil
// falls back to JSON) and the output carries KV<K, Out>.
func NewCombinePerKey(g *Graph, name string, fn CombineFn, in *Node, out coder.Coder) (*Node, error) {
	if fn == nil {
		return nil, errors.New("CombinePerKey: nil CombineFn")
	}
	if in == nil {
		return nil, errors.New("CombinePerKey: nil input")
	}
	kc, ok := in.Coder.(coder.KVCoder)
	if !ok {
		return nil, errors.Errorf("CombinePerKey: input %v does not carry a kv coder", in)
	}
	if out == nil {
		out = coder.JSON()
	}
	node := g.NewNode(coder.KVOf(kc.KeyCoder(), out))
	op := g.newOperator(CombinePerKey, name)
	op.Combine = fn
	op.Input = []*Node{in}
	op.Output = []*Node{node}
	return node, nil
}

// NewCombineGroupedValues creates a combine over an already grouped
// collection, KV<K, iterable<V>> in, KV<K, Out> out. The key is untouched.
func NewCombineGroupedValues(g *Graph, name string, fn CombineFn, in *Node, out coder.Coder) (*Node, error) {
	if fn == nil {
		return nil, errors.New("CombineGroupedValues: nil CombineFn")
	}
	if in == nil {
		return nil, errors.New("CombineGroupedValues: nil input")
	}
	kc, ok := in.Coder.(coder.KVCoder)
	if !ok {
		return nil, errors.Errorf("CombineGroupedValues: input %v does not carry a kv coder", in)
	}
	if _, ok := kc.ValueCoder().(coder.IterableCoder); !ok {
		return nil, errors.Errorf("CombineGroupedValues: input %v values are not grouped", in)
	}
	if out == nil {
		out = coder.JSON()
	}
	node := g.NewNode(coder.KVOf(kc.KeyCoder(), out))
	op := g.newOperator(CombineGrouped, name)
	op.Combine = fn
	op.Input = []*Node{in}
	op.Output = []*Node{node}
	return node, nil
}

// NewFlatten creates a union of one or more collections. Inputs must share
// an element shape; the first input's coder is used for the output.
func NewFlatten(g *Graph, name string, ins []*Node) (*Node, error) {
	if len(ins) == 0 {
		return nil, errors.New("Flatten: no inputs")
	}
	for i, in := range ins {
		if in == nil {
			return nil, errors.Errorf("Flatten: nil input %d", i)
		}
	}
	out := g.NewNode(ins[0].Coder)
	op := g.newOperator(Flatten, name)
	op.Input = append([]*Node(nil), ins...)
	op.Output = []*Node{out}
	return out, nil
}

// NewViewAsSingleton creates a view over in that resolves to its single
// element. Consuming the view fails if in does not materialize to exactly
// one element.
func NewViewAsSingleton(g *Graph, name string, in *Node) (*View, error) {
	if in == nil {
		return nil, errors.New("ViewAsSingleton: nil input")
	}
	v := g.newView(SingletonView)
	op := g.newOperator(ViewAsSingleton, name)
	op.Input = []*Node{in}
	op.View = v
	return v, nil
}

// NewViewAsIterable creates a view over in that resolves to all its
// elements.
func NewViewAsIterable(g *Graph, name string, in *Node) (*View, error) {
	if in == nil {
		return nil, errors.New("ViewAsIterable: nil input")
	}
	v := g.newView(IterableView)
	op := g.newOperator(ViewAsIterable, name)
	op.Input = []*Node{in}
	op.View = v
	return v, nil
}

// NewCreateView creates an operator that backs a caller-allocated view with
// the elements of in. AsSingleton and AsIterable are shorthands for this
// with a fresh view.
func NewCreateView(g *Graph, name string, in *Node, v *View) (*Operator, error) {
	if in == nil {
		return nil, errors.New("CreateView: nil input")
	}
	if v == nil {
		return nil, errors.New("CreateView: nil view")
	}
	op := g.newOperator(CreateView, name)
	op.Input = []*Node{in}
	op.View = v
	return op, nil
}
