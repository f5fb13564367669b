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
	"fmt"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
)

// Classification sentinels for runner failures. Callers test with
// errors.Is; the underlying cause stays reachable through the chain and is
// never swallowed or retried at this layer.
var (
	// ErrUnregisteredOperator reports dispatch on an operator kind no
	// evaluator was registered for.
	ErrUnregisteredOperator = errors.New("no evaluator registered for operator kind")

	// ErrCombineFunction reports a user combine function failing in any
	// of its phases.
	ErrCombineFunction = errors.New("combine function failed")

	// ErrConnector reports a read or write connector failure: missing
	// input, permissions, malformed records.
	ErrConnector = errors.New("connector failure")

	// ErrSideInputCardinality reports a singleton side input whose
	// backing collection did not materialize to exactly one element.
	ErrSideInputCardinality = errors.New("singleton side input requires exactly one element")
)

func combineErr(cause error, phase string) error {
	return fmt.Errorf("%w: %v: %w", ErrCombineFunction, phase, cause)
}

func connectorErr(cause error, what string) error {
	return fmt.Errorf("%w: %v: %w", ErrConnector, what, cause)
}
