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

// Package local is an in-memory engine implementing the engine contract:
// partitioned, lazily evaluated datasets with parallel task execution.
// It holds every partition in memory, so it is meant for tests, examples
// and small jobs, not for data that exceeds a single process.
package local

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	retry "gopkg.in/retry.v1"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/textio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/log"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine"
)

// Config tunes an Engine.
type Config struct {
	// Parallelism bounds concurrent partition tasks and sets the partition
	// count of parallelized and shuffled datasets. Zero or negative means 1.
	Parallelism int

	// MaxTaskRetries re-runs a failed partition task up to this many extra
	// times. Zero disables retry, so failures surface deterministically.
	MaxTaskRetries int
}

// DefaultConfig returns the configuration used when none is given:
// four-way parallelism, no task retries.
func DefaultConfig() Config {
	return Config{Parallelism: 4}
}

// Engine is an in-memory implementation of engine.Engine.
type Engine struct {
	cfg        Config
	strategy   retry.Strategy
	broadcasts atomic.Int64
}

var _ engine.Engine = (*Engine)(nil)

// New returns an engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	if cfg.MaxTaskRetries < 0 {
		cfg.MaxTaskRetries = 0
	}
	attempts := cfg.MaxTaskRetries + 1
	return &Engine{
		cfg: cfg,
		strategy: retry.LimitCount(attempts, retry.Regular{
			Min:   attempts,
			Delay: 10 * time.Millisecond,
		}),
	}
}

// Parallelize distributes elems over up to Parallelism contiguous
// partitions, preserving element order across them.
func (e *Engine) Parallelize(elems []any) engine.Dataset {
	elems = append([]any(nil), elems...)
	return e.newDataset("parallelize", func(context.Context) ([][]any, error) {
		n := e.cfg.Parallelism
		if n > len(elems) {
			n = len(elems)
		}
		if n < 1 {
			n = 1
		}
		parts := make([][]any, n)
		quo, rem := len(elems)/n, len(elems)%n
		next := 0
		for i := range parts {
			size := quo
			if i < rem {
				size++
			}
			parts[i] = elems[next : next+size]
			next += size
		}
		return parts, nil
	})
}

// TextFile reads the files matching pattern lazily, one partition per file
// and one element per line.
func (e *Engine) TextFile(pattern string) engine.Dataset {
	return e.newDataset("textFile", func(ctx context.Context) ([][]any, error) {
		files, err := textio.Expand(pattern)
		if err != nil {
			return nil, err
		}
		parts := make([][]any, len(files))
		err = e.runTasks(ctx, len(files), func(_ context.Context, i int) error {
			lines, err := textio.ReadLines(files[i])
			if err != nil {
				return err
			}
			part := make([]any, len(lines))
			for j, line := range lines {
				part[j] = line
			}
			parts[i] = part
			return nil
		})
		if err != nil {
			return nil, err
		}
		return parts, nil
	})
}

// Union concatenates the datasets' partitions in order.
func (e *Engine) Union(datasets []engine.Dataset) (engine.Dataset, error) {
	if len(datasets) == 0 {
		return nil, errors.New("union of no datasets")
	}
	ins := make([]*dataset, len(datasets))
	for i, ds := range datasets {
		d, ok := ds.(*dataset)
		if !ok || d.eng != e {
			return nil, errors.Errorf("union input %d belongs to another engine", i)
		}
		ins[i] = d
	}
	return e.newDataset("union", func(ctx context.Context) ([][]any, error) {
		var parts [][]any
		for _, d := range ins {
			ps, err := d.materialize(ctx)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ps...)
		}
		return parts, nil
	}), nil
}

// Broadcast registers an immutable copy of data for worker-side reads.
func (e *Engine) Broadcast(ctx context.Context, data []byte) (engine.Broadcast, error) {
	b := &broadcast{id: uuid.NewString(), data: append([]byte(nil), data...)}
	e.broadcasts.Add(1)
	log.Debugf(ctx, "broadcast %v: %d bytes", b.id, len(b.data))
	return b, nil
}

// BroadcastCount reports how many broadcasts the engine has distributed.
func (e *Engine) BroadcastCount() int64 {
	return e.broadcasts.Load()
}

type broadcast struct {
	id   string
	data []byte
}

func (b *broadcast) ID() string {
	return b.id
}

func (b *broadcast) Value() []byte {
	return b.data
}

// runTasks executes one task per partition with bounded parallelism,
// re-running failed tasks per the retry strategy. The first error that
// survives its retries aborts the remaining tasks.
func (e *Engine) runTasks(ctx context.Context, n int, task func(ctx context.Context, part int) error) error {
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.cfg.Parallelism)
	for i := 0; i < n; i++ {
		i := i
		grp.Go(func() error {
			return e.attempt(gctx, i, task)
		})
	}
	return grp.Wait()
}

func (e *Engine) attempt(ctx context.Context, part int, task func(ctx context.Context, part int) error) error {
	var err error
	for a := retry.Start(e.strategy, nil); a.Next(); {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = task(ctx, part); err == nil {
			return nil
		}
		if a.More() {
			log.Warnf(ctx, "task for partition %d failed, retrying: %v", part, err)
		}
	}
	return errors.Wrapf(err, "task for partition %d", part)
}
