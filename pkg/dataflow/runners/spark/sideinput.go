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
	"sync"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// BroadcastHelper pairs one side input's broadcast handle with the coder
// that serialized it. The value is decoded once, on first access, and the
// decoded form is shared by all readers; both the handle and the decoded
// value are read-only.
type BroadcastHelper struct {
	bc    engineBroadcast
	coder coder.Coder

	once sync.Once
	val  any
	err  error
}

// engineBroadcast is the slice of engine.Broadcast the helper needs; the
// indirection keeps the helper trivially fakeable in tests.
type engineBroadcast interface {
	ID() string
	Value() []byte
}

func newBroadcastHelper(bc engineBroadcast, c coder.Coder) *BroadcastHelper {
	return &BroadcastHelper{bc: bc, coder: c}
}

// Get returns the deserialized side input value. Safe for unsynchronized
// concurrent use by many workers.
func (h *BroadcastHelper) Get() (any, error) {
	h.once.Do(func() {
		h.val, h.err = h.coder.Decode(h.bc.Value())
		if h.err != nil {
			h.err = errors.Wrapf(h.err, "decoding broadcast %v", h.bc.ID())
		}
	})
	return h.val, h.err
}

// broadcastSideInputs resolves and broadcasts every view the operator
// references: the view's materialized elements are shaped per its kind,
// serialized once with a coder picked from the resolved value, and handed
// to the engine. Each consuming operator evaluation broadcasts its views
// anew; broadcasts are not deduplicated across operators.
func broadcastSideInputs(ctx context.Context, views []*graph.View, ec *EvaluationContext) (map[values.Tag]*BroadcastHelper, error) {
	if len(views) == 0 {
		return nil, nil
	}
	side := make(map[values.Tag]*BroadcastHelper, len(views))
	for _, view := range views {
		elems, err := ec.SideInput(view)
		if err != nil {
			return nil, err
		}
		resolved, err := resolveView(view, elems)
		if err != nil {
			return nil, err
		}
		c := ec.DefaultCoder(resolved)
		data, err := c.Encode(resolved)
		if err != nil {
			return nil, errors.Wrapf(err, "serializing side input %v", view)
		}
		bc, err := ec.Engine().Broadcast(ctx, data)
		if err != nil {
			return nil, errors.Wrapf(err, "broadcasting side input %v", view)
		}
		side[view.Tag()] = newBroadcastHelper(bc, c)
	}
	return side, nil
}

// resolveView shapes a view's windowed elements into the value consumers
// see: the lone element for a singleton view, a []any of all elements for
// an iterable view.
func resolveView(view *graph.View, elems []values.WindowedValue) (any, error) {
	switch view.Kind() {
	case graph.SingletonView:
		if len(elems) != 1 {
			return nil, fmt.Errorf("%w: view %v resolved %d elements", ErrSideInputCardinality, view.Tag(), len(elems))
		}
		return elems[0].Value, nil
	case graph.IterableView:
		vals := make([]any, len(elems))
		for i, wv := range elems {
			vals[i] = wv.Value
		}
		return vals, nil
	default:
		return nil, errors.Errorf("view %v has unknown kind %v", view.Tag(), view.Kind())
	}
}
