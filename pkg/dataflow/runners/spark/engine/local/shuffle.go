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
	"hash/fnv"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// group buffers all values of one key. The key instance kept is the first
// one encountered; equality is entirely by key bytes.
type group struct {
	key    any
	values []any
}

// GroupByKey buffers the whole input in memory. Use with data that fits a
// single process only.
func (d *dataset) GroupByKey(key engine.KeyFunc) engine.Dataset {
	return d.eng.newDataset("groupByKey", func(ctx context.Context) ([][]any, error) {
		parts, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]*group)
		var order []string
		for _, part := range parts {
			for _, e := range part {
				kv, ok := e.(values.KV)
				if !ok {
					return nil, errors.Errorf("groupByKey: element %T is not a kv pair", e)
				}
				kb, err := key(kv.Key)
				if err != nil {
					return nil, errors.Wrapf(err, "groupByKey: encoding key %v", kv.Key)
				}
				k := string(kb)
				g, ok := m[k]
				if !ok {
					g = &group{key: kv.Key}
					m[k] = g
					order = append(order, k)
				}
				g.values = append(g.values, kv.Value)
			}
		}
		out := make([][]any, d.eng.cfg.Parallelism)
		for _, k := range order {
			g := m[k]
			i := bucket(k, len(out))
			out[i] = append(out[i], values.KV{Key: g.key, Value: g.values})
		}
		return out, nil
	})
}

// accum is one key's accumulator during combineByKey, with the first-seen
// key instance it will be emitted under.
type accum struct {
	key any
	val any
}

// localAgg is the partition-local result of the create/merge-value phase,
// with deterministic first-seen key order.
type localAgg struct {
	m     map[string]*accum
	order []string
}

// CombineByKey runs the host-style three-phase combine: CreateCombiner on
// the first value of a key within a partition, MergeValue for the rest of
// that partition, then MergeCombiners pairwise across partitions in
// partition order. The user functions never see keys.
func (d *dataset) CombineByKey(key engine.KeyFunc, spec engine.CombineSpec) engine.Dataset {
	return d.eng.newDataset("combineByKey", func(ctx context.Context) ([][]any, error) {
		parts, err := d.materialize(ctx)
		if err != nil {
			return nil, err
		}

		locals := make([]localAgg, len(parts))
		err = d.eng.runTasks(ctx, len(parts), func(_ context.Context, i int) error {
			agg := localAgg{m: make(map[string]*accum)}
			for _, e := range parts[i] {
				kv, ok := e.(values.KV)
				if !ok {
					return errors.Errorf("combineByKey: element %T is not a kv pair", e)
				}
				kb, err := key(kv.Key)
				if err != nil {
					return errors.Wrapf(err, "combineByKey: encoding key %v", kv.Key)
				}
				k := string(kb)
				a, ok := agg.m[k]
				if !ok {
					c, err := spec.CreateCombiner(kv.Value)
					if err != nil {
						return err
					}
					agg.m[k] = &accum{key: kv.Key, val: c}
					agg.order = append(agg.order, k)
					continue
				}
				a.val, err = spec.MergeValue(a.val, kv.Value)
				if err != nil {
					return err
				}
			}
			locals[i] = agg
			return nil
		})
		if err != nil {
			return nil, err
		}

		merged := make(map[string]*accum)
		var order []string
		for _, agg := range locals {
			for _, k := range agg.order {
				a := agg.m[k]
				prev, ok := merged[k]
				if !ok {
					merged[k] = a
					order = append(order, k)
					continue
				}
				prev.val, err = spec.MergeCombiners(prev.val, a.val)
				if err != nil {
					return nil, err
				}
			}
		}

		out := make([][]any, d.eng.cfg.Parallelism)
		for _, k := range order {
			a := merged[k]
			i := bucket(k, len(out))
			out[i] = append(out[i], values.KV{Key: a.key, Value: a.val})
		}
		return out, nil
	})
}

// bucket assigns a key to an output partition by byte hash.
func bucket(key string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
