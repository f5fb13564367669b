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
	"encoding/binary"
	"fmt"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

// KVCoder is a coder for values.KV elements that exposes its components.
// Keyed stages use the key component alone to produce shuffle keys.
type KVCoder interface {
	Coder
	KeyCoder() Coder
	ValueCoder() Coder
}

// KVOf returns the coder for values.KV pairs with the given component coders.
// The key is length-prefixed; the value occupies the remaining bytes.
func KVOf(key, value Coder) KVCoder {
	return kvCoder{key: key, value: value}
}

type kvCoder struct {
	key   Coder
	value Coder
}

func (c kvCoder) Encode(v any) ([]byte, error) {
	kv, ok := v.(values.KV)
	if !ok {
		return nil, errors.Errorf("kv coder: cannot encode %T", v)
	}
	kb, err := c.key.Encode(kv.Key)
	if err != nil {
		return nil, errors.Wrap(err, "kv coder: key")
	}
	vb, err := c.value.Encode(kv.Value)
	if err != nil {
		return nil, errors.Wrap(err, "kv coder: value")
	}
	out := binary.AppendUvarint(nil, uint64(len(kb)))
	out = append(out, kb...)
	out = append(out, vb...)
	return out, nil
}

func (c kvCoder) Decode(data []byte) (any, error) {
	n, read := binary.Uvarint(data)
	if read <= 0 || uint64(len(data)-read) < n {
		return nil, errors.Errorf("kv coder: malformed input of %d bytes", len(data))
	}
	key, err := c.key.Decode(data[read : read+int(n)])
	if err != nil {
		return nil, errors.Wrap(err, "kv coder: key")
	}
	value, err := c.value.Decode(data[read+int(n):])
	if err != nil {
		return nil, errors.Wrap(err, "kv coder: value")
	}
	return values.KV{Key: key, Value: value}, nil
}

func (c kvCoder) KeyCoder() Coder {
	return c.key
}

func (c kvCoder) ValueCoder() Coder {
	return c.value
}

func (c kvCoder) String() string {
	return fmt.Sprintf("kv<%v,%v>", c.key, c.value)
}

// IterableCoder is a coder for []any elements that exposes its element coder.
type IterableCoder interface {
	Coder
	ElemCoder() Coder
}

// IterableOf returns the coder for []any slices whose elements all use elem.
// The encoding is an element count followed by length-prefixed elements.
func IterableOf(elem Coder) IterableCoder {
	return iterableCoder{elem: elem}
}

type iterableCoder struct {
	elem Coder
}

func (c iterableCoder) Encode(v any) ([]byte, error) {
	vs, ok := v.([]any)
	if !ok {
		return nil, errors.Errorf("iterable coder: cannot encode %T", v)
	}
	out := binary.AppendUvarint(nil, uint64(len(vs)))
	for i, e := range vs {
		eb, err := c.elem.Encode(e)
		if err != nil {
			return nil, errors.Wrapf(err, "iterable coder: element %d", i)
		}
		out = binary.AppendUvarint(out, uint64(len(eb)))
		out = append(out, eb...)
	}
	return out, nil
}

func (c iterableCoder) Decode(data []byte) (any, error) {
	count, read := binary.Uvarint(data)
	if read <= 0 {
		return nil, errors.Errorf("iterable coder: malformed input of %d bytes", len(data))
	}
	rest := data[read:]
	out := make([]any, 0, count)
	for i := uint64(0); i < count; i++ {
		n, read := binary.Uvarint(rest)
		if read <= 0 || uint64(len(rest)-read) < n {
			return nil, errors.Errorf("iterable coder: truncated element %d", i)
		}
		e, err := c.elem.Decode(rest[read : read+int(n)])
		if err != nil {
			return nil, errors.Wrapf(err, "iterable coder: element %d", i)
		}
		out = append(out, e)
		rest = rest[read+int(n):]
	}
	if len(rest) != 0 {
		return nil, errors.Errorf("iterable coder: %d trailing bytes", len(rest))
	}
	return out, nil
}

func (c iterableCoder) ElemCoder() Coder {
	return c.elem
}

func (c iterableCoder) String() string {
	return fmt.Sprintf("iterable<%v>", c.elem)
}
