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

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/textio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
)

// dataset is a lazy partitioned collection. comp describes how to produce
// the partitions; nothing runs until an action materializes the chain.
type dataset struct {
	eng  *Engine
	op   string
	comp func(ctx context.Context) ([][]any, error)

	mu     sync.Mutex
	cached bool
	done   bool
	parts  [][]any
	err    error
}

var _ engine.Dataset = (*dataset)(nil)

func (e *Engine) newDataset(op string, comp func(ctx context.Context) ([][]any, error)) *dataset {
	return &dataset{eng: e, op: op, comp: comp}
}

// materialize computes the partitions, or returns the retained result if
// the dataset is cached and was computed before.
func (d *dataset) materialize(ctx context.Context) ([][]any, error) {
	if !d.cached {
		return d.comp(ctx)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.done {
		d.parts, d.err = d.comp(ctx)
		d.done = true
	}
	return d.parts, d.err
}

func (d *dataset) Cache() engine.Dataset {
	d.mu.Lock()
	d.cached = true
	d.mu.Unlock()
	return d
}

func (d *dataset) Map(fn engine.MapFunc) engine.Dataset {
	return d.eng.newDataset("map", func(ctx context.Context) ([][]any, error) {
		parts, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]any, len(parts))
		err = d.eng.runTasks(ctx, len(parts), func(_ context.Context, i int) error {
			res := make([]any, len(parts[i]))
			for j, e := range parts[i] {
				v, err := fn(e)
				if err != nil {
					return err
				}
				res[j] = v
			}
			out[i] = res
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (d *dataset) MapPartitions(fn engine.PartitionFunc) engine.Dataset {
	return d.eng.newDataset("mapPartitions", func(ctx context.Context) ([][]any, error) {
		parts, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]any, len(parts))
		err = d.eng.runTasks(ctx, len(parts), func(_ context.Context, i int) error {
			res, err := fn(parts[i])
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (d *dataset) Filter(fn engine.FilterFunc) engine.Dataset {
	return d.eng.newDataset("filter", func(ctx context.Context) ([][]any, error) {
		parts, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]any, len(parts))
		err = d.eng.runTasks(ctx, len(parts), func(_ context.Context, i int) error {
			var res []any
			for _, e := range parts[i] {
				keep, err := fn(e)
				if err != nil {
					return err
				}
				if keep {
					res = append(res, e)
				}
			}
			out[i] = res
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (d *dataset) Collect(ctx context.Context) ([]any, error) {
	parts, err := d.materialize(ctx)
	if err != nil {
		return nil, err
	}
	var out []any
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

func (d *dataset) ForeachPartition(ctx context.Context, fn func(part, total int, elems []any) error) error {
	parts, err := d.materialize(ctx)
	if err != nil {
		return err
	}
	return d.eng.runTasks(ctx, len(parts), func(_ context.Context, i int) error {
		return fn(i, len(parts), parts[i])
	})
}

// SaveAsTextFile writes one part file per partition under the prefix
// directory, plus an empty _SUCCESS marker once all parts are written.
// Non-string elements are written with their default formatting.
func (d *dataset) SaveAsTextFile(ctx context.Context, prefix string) error {
	err := d.ForeachPartition(ctx, func(part, total int, elems []any) error {
		lines := make([]string, len(elems))
		for i, e := range elems {
			if s, ok := e.(string); ok {
				lines[i] = s
			} else {
				lines[i] = fmt.Sprint(e)
			}
		}
		return textio.WriteLines(filepath.Join(prefix, fmt.Sprintf("part-%05d", part)), lines)
	})
	if err != nil {
		return errors.Wrapf(err, "saving text to %v", prefix)
	}
	marker, err := os.Create(filepath.Join(prefix, "_SUCCESS"))
	if err != nil {
		return errors.Wrapf(err, "saving text to %v", prefix)
	}
	return marker.Close()
}
