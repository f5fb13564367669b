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

package coder

import (
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// EncodeSlice encodes every element of elems with c. Collections cross into
// the engine as byte arrays; this is the batch half of that boundary.
func EncodeSlice(c Coder, elems []any) ([][]byte, error) {
	out := make([][]byte, len(elems))
	for i, e := range elems {
		b, err := c.Encode(e)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding element %d of %d", i, len(elems))
		}
		out[i] = b
	}
	return out, nil
}

// DecodeSlice decodes every byte array of data with c.
func DecodeSlice(c Coder, data [][]byte) ([]any, error) {
	out := make([]any, len(data))
	for i, b := range data {
		e, err := c.Decode(b)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding element %d of %d", i, len(data))
		}
		out[i] = e
	}
	return out, nil
}

// Default picks a coder from a sample value's dynamic type. It mirrors a
// registry lookup keyed by element class: primitives get their exact coders,
// pairs and slices recurse on their components, and everything else falls
// back to JSON.
func Default(sample any) Coder {
	switch s := sample.(type) {
	case string:
		return Strings()
	case []byte:
		return Bytes()
	case int, int32, int64:
		return VarInts()
	case float64:
		return Doubles()
	case values.KV:
		return KVOf(Default(s.Key), Default(s.Value))
	case []any:
		if len(s) > 0 {
			return IterableOf(Default(s[0]))
		}
		return IterableOf(JSON())
	default:
		return JSON()
	}
}
