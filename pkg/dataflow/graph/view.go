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

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// ViewKind determines how a materialized view's elements are shaped when a
// consuming operator reads the view as a side input.
type ViewKind string

const (
	// SingletonView resolves to the view's single element. Resolving a
	// singleton view over zero or several elements is an error raised when
	// the consuming operator is evaluated.
	SingletonView ViewKind = "Singleton"

	// IterableView resolves to a slice of all elements, in materialization
	// order.
	IterableView ViewKind = "Iterable"
)

// View identifies a materialized side input. A view is produced by one of
// the view operators and referenced by tag from consuming operators; the
// backing elements live in the evaluation context, not on the view itself.
type View struct {
	tag  values.Tag
	kind ViewKind
}

// Tag returns the view's graph-unique tag.
func (v *View) Tag() values.Tag {
	return v.tag
}

// Kind returns how the view resolves for consumers.
func (v *View) Kind() ViewKind {
	return v.kind
}

func (v *View) String() string {
	return fmt.Sprintf("view[%v]%v", v.tag, v.kind)
}
