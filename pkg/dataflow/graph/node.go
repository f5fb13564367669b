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
)

// Node is a logical collection in the pipeline graph. Each node is produced
// by exactly one operator and may be consumed by any number of downstream
// operators. Nodes are immutable once created.
type Node struct {
	id int

	// Coder encodes the node's elements wherever they cross an engine
	// boundary (shuffles, broadcasts, materialization). Never nil.
	Coder coder.Coder
}

// ID returns the node's graph-unique id.
func (n *Node) ID() int {
	return n.id
}

func (n *Node) String() string {
	return fmt.Sprintf("n%d<%v>", n.id, n.Coder)
}
