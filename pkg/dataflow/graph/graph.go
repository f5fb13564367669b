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

// Package graph is the logical pipeline model: an immutable directed acyclic
// graph of primitive operators over collection nodes. Operators are created
// through typed constructors that take their full configuration up front, so
// a runner never inspects user transforms structurally; it reads the typed
// payload fields for the operator's kind.
//
// A graph is built single-threaded, then Build validates it and fixes the
// evaluation order. The built form is read-only and safe to share.
package graph

import (
	"fmt"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// Graph accumulates nodes, views and operators during pipeline construction.
type Graph struct {
	nodes []*Node
	views []*View
	ops   []*Operator
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// NewNode allocates a collection node with the given element coder. A nil
// coder falls back to JSON.
func (g *Graph) NewNode(c coder.Coder) *Node {
	if c == nil {
		c = coder.JSON()
	}
	n := &Node{id: len(g.nodes) + 1, Coder: c}
	g.nodes = append(g.nodes, n)
	return n
}

// NewSingletonView allocates an unbacked singleton view for use with
// NewCreateView.
func (g *Graph) NewSingletonView() *View {
	return g.newView(SingletonView)
}

// NewIterableView allocates an unbacked iterable view for use with
// NewCreateView.
func (g *Graph) NewIterableView() *View {
	return g.newView(IterableView)
}

func (g *Graph) newView(kind ViewKind) *View {
	v := &View{tag: values.Tag(fmt.Sprintf("view/%d", len(g.views)+1)), kind: kind}
	g.views = append(g.views, v)
	return v
}

func (g *Graph) newOperator(kind Kind, name string) *Operator {
	if name == "" {
		name = string(kind)
	}
	op := &Operator{id: len(g.ops) + 1, Op: kind, Name: name}
	g.ops = append(g.ops, op)
	return op
}

// Operators returns the operators in construction order.
func (g *Graph) Operators() []*Operator {
	return append([]*Operator(nil), g.ops...)
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph[%d nodes, %d operators]", len(g.nodes), len(g.ops))
}

// Build validates the graph and returns its operators in an evaluation
// order where every operator appears after the producers of all its inputs
// and side-input views. It fails on nodes consumed but never produced,
// nodes or views produced more than once, and cycles.
func (g *Graph) Build() ([]*Operator, error) {
	producers := make(map[*Node]*Operator)
	viewProducers := make(map[*View]*Operator)
	for _, op := range g.ops {
		for _, out := range op.Output {
			if prev, ok := producers[out]; ok {
				return nil, errors.Errorf("node %v produced by both %v and %v", out, prev.Name, op.Name)
			}
			producers[out] = op
		}
		if op.View != nil {
			if prev, ok := viewProducers[op.View]; ok {
				return nil, errors.Errorf("view %v produced by both %v and %v", op.View, prev.Name, op.Name)
			}
			viewProducers[op.View] = op
		}
	}

	deps := make(map[*Operator][]*Operator, len(g.ops))
	for _, op := range g.ops {
		for _, in := range op.Input {
			p, ok := producers[in]
			if !ok {
				return nil, errors.Errorf("operator %v consumes node %v which no operator produces", op.Name, in)
			}
			deps[op] = append(deps[op], p)
		}
		for _, v := range op.Side {
			p, ok := viewProducers[v]
			if !ok {
				return nil, errors.Errorf("operator %v references view %v which no operator produces", op.Name, v)
			}
			deps[op] = append(deps[op], p)
		}
	}

	// Stable topological order: repeatedly take, in construction order,
	// every operator whose dependencies are already placed.
	done := make(map[*Operator]bool, len(g.ops))
	ordered := make([]*Operator, 0, len(g.ops))
	for len(ordered) < len(g.ops) {
		progressed := false
		for _, op := range g.ops {
			if done[op] {
				continue
			}
			ready := true
			for _, d := range deps[op] {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				done[op] = true
				ordered = append(ordered, op)
				progressed = true
			}
		}
		if !progressed {
			var stuck []string
			for _, op := range g.ops {
				if !done[op] {
					stuck = append(stuck, op.Name)
				}
			}
			return nil, errors.Errorf("cycle among operators %v", stuck)
		}
	}
	return ordered, nil
}
