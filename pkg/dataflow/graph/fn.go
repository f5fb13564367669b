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
	"context"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// DoFn is user logic applied once per input element. Implementations must be
// safe for concurrent invocation across partitions and must not retain the
// ProcessContext beyond the call.
type DoFn interface {
	// ProcessElement handles one element, emitting zero or more outputs
	// through the context. Returning an error aborts the job.
	ProcessElement(pc ProcessContext) error
}

// DoFunc adapts a plain function to DoFn.
type DoFunc func(pc ProcessContext) error

// ProcessElement calls f.
func (f DoFunc) ProcessElement(pc ProcessContext) error {
	return f(pc)
}

// ProcessContext is the per-element view a DoFn gets of its surroundings.
type ProcessContext interface {
	// Context returns the job's context, for cancellation and logging.
	Context() context.Context

	// Element returns the input element being processed.
	Element() any

	// Emit sends a value to the operator's main output.
	Emit(v any)

	// EmitTagged sends a value to the tagged output of a multi-output
	// operator. Emitting to a tag the operator did not declare fails the
	// element.
	EmitTagged(tag values.Tag, v any)

	// SideInput resolves a view the operator declared as a side input:
	// the single element for a singleton view, a []any for an iterable
	// view. Resolving an undeclared view is an error.
	SideInput(view *View) (any, error)
}

// CombineFn reduces a collection of values to one output per key via an
// intermediate accumulator. Every phase receives the key it is combining
// for, even though the engine's own reduce primitives do not pass it; the
// runner arranges for the key to reach each call. MergeAccumulators must
// be associative and commutative: the runner combines partial accumulators
// in an unspecified order and pairing. Accumulators are owned by the
// runner between calls; implementations may mutate and return their
// receiver accumulator. ExtractOutput must be side-effect-free.
type CombineFn interface {
	// CreateAccumulator returns a fresh accumulator for key.
	CreateAccumulator(key any) (any, error)

	// AddInput folds one input value for key into the accumulator and
	// returns the updated accumulator.
	AddInput(key, accum, input any) (any, error)

	// MergeAccumulators combines exactly two of key's accumulators.
	MergeAccumulators(key, a, b any) (any, error)

	// ExtractOutput converts key's final accumulator into the output value.
	ExtractOutput(key, accum any) (any, error)
}
