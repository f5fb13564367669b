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

// Package engine is the contract between the translation layer and the host
// distributed engine. It mirrors the narrow slice of an RDD-style surface
// the evaluators need: lazy transformations that describe physical
// computations, and synchronous actions that run them.
//
// Transformations (Map, Filter, GroupByKey, CombineByKey, Cache, Union,
// Parallelize, TextFile) only build the computation; connector and user
// errors surface when an action (Collect, ForeachPartition, SaveAsTextFile)
// runs. Parallel execution across partitions is owned entirely by the
// engine; callers see it only through the synchronous action results.
package engine

import "context"

// MapFunc transforms one element.
type MapFunc func(elem any) (any, error)

// PartitionFunc transforms all elements of one partition at once.
type PartitionFunc func(elems []any) ([]any, error)

// FilterFunc reports whether an element is kept.
type FilterFunc func(elem any) (bool, error)

// KeyFunc serializes a grouping key to the bytes the engine compares and
// hashes. Equal keys must map to equal bytes.
type KeyFunc func(key any) ([]byte, error)

// CombineSpec is the three-phase per-key combine contract, matching the
// host engine's combineByKey. All three functions receive values and
// accumulators only; the engine never passes the key. Translations that
// need the key inside a phase must carry it in the value channel.
type CombineSpec struct {
	// CreateCombiner seeds an accumulator from the first value the engine
	// sees for a key within a partition.
	CreateCombiner func(value any) (any, error)

	// MergeValue folds a further value into a partition-local accumulator.
	MergeValue func(accum, value any) (any, error)

	// MergeCombiners combines two accumulators from different partitions.
	MergeCombiners func(a, b any) (any, error)
}

// Engine creates datasets and broadcast variables.
type Engine interface {
	// Parallelize distributes the elements over engine partitions.
	Parallelize(elems []any) Dataset

	// TextFile reads the files matching pattern, one element per line.
	// Missing or unreadable inputs surface when an action runs.
	TextFile(pattern string) Dataset

	// Union concatenates the datasets. At least one is required and all
	// must belong to this engine.
	Union(datasets []Dataset) (Dataset, error)

	// Broadcast eagerly distributes an immutable blob to every worker.
	Broadcast(ctx context.Context, data []byte) (Broadcast, error)
}

// Dataset is an immutable, partitioned, lazily evaluated collection.
// Elements of keyed datasets (GroupByKey, CombineByKey inputs) must be
// values.KV pairs; the engine destructures them but never interprets the
// key beyond the KeyFunc bytes.
type Dataset interface {
	// Map derives a dataset by transforming each element.
	Map(fn MapFunc) Dataset

	// MapPartitions derives a dataset by transforming whole partitions.
	// The result may have a different number of elements.
	MapPartitions(fn PartitionFunc) Dataset

	// Filter derives a dataset keeping the elements fn accepts.
	Filter(fn FilterFunc) Dataset

	// GroupByKey shuffles values.KV elements into one KV per distinct
	// key: KV{key, []any of values}. The key instance of the output pair
	// is the first one encountered; equality is by key bytes.
	GroupByKey(key KeyFunc) Dataset

	// CombineByKey shuffles values.KV elements into one KV per distinct
	// key: KV{key, accumulator}, built with the three-phase spec.
	CombineByKey(key KeyFunc, spec CombineSpec) Dataset

	// Cache marks the dataset so its first computation is retained and
	// reused by later actions and derivations.
	Cache() Dataset

	// Collect runs the computation and returns all elements.
	Collect(ctx context.Context) ([]any, error)

	// ForeachPartition runs the computation, invoking fn once per
	// partition with the partition index and total partition count.
	// Used by sinks.
	ForeachPartition(ctx context.Context, fn func(part, total int, elems []any) error) error

	// SaveAsTextFile runs the computation and writes one part file per
	// partition under the prefix, one line per element.
	SaveAsTextFile(ctx context.Context, prefix string) error
}

// Broadcast is an immutable blob distributed to all workers, safe for
// unsynchronized concurrent reads.
type Broadcast interface {
	// ID identifies the broadcast for logs.
	ID() string

	// Value returns the distributed bytes. Callers must not mutate them.
	Value() []byte
}
