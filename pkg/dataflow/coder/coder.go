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

// Package coder defines how pipeline elements are turned into bytes and back.
// Coders sit on every boundary the engine cannot cross with live Go values:
// shuffles group by encoded key bytes, broadcasts ship encoded blobs, and
// engine-materialized collections round-trip through byte arrays.
//
// Encoded forms are self-contained: a coder must decode exactly the bytes its
// Encode produced, with no out-of-band length or type information. Composite
// coders rely on this to length-prefix their components.
package coder

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
)

// Coder encodes and decodes single elements. Implementations must be
// deterministic when used for keys: equal values must encode to equal bytes.
type Coder interface {
	// Encode serializes v. It fails if v is not of the coder's type.
	Encode(v any) ([]byte, error)
	// Decode deserializes data produced by Encode on the same coder.
	Decode(data []byte) (any, error)
	// String names the coder for diagnostics.
	String() string
}

// Bytes returns the coder for []byte elements. Encoding is the identity.
func Bytes() Coder {
	return bytesCoder{}
}

type bytesCoder struct{}

func (bytesCoder) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, errors.Errorf("bytes coder: cannot encode %T", v)
	}
	return b, nil
}

func (bytesCoder) Decode(data []byte) (any, error) {
	return data, nil
}

func (bytesCoder) String() string {
	return "bytes"
}

// Strings returns the coder for string elements, encoded as raw UTF-8 bytes.
func Strings() Coder {
	return stringCoder{}
}

type stringCoder struct{}

func (stringCoder) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("string coder: cannot encode %T", v)
	}
	return []byte(s), nil
}

func (stringCoder) Decode(data []byte) (any, error) {
	return string(data), nil
}

func (stringCoder) String() string {
	return "string"
}

// VarInts returns the coder for int elements, encoded as zig-zag varints.
// It accepts int, int32 and int64 values and always decodes to int.
func VarInts() Coder {
	return varIntCoder{}
}

type varIntCoder struct{}

func (varIntCoder) Encode(v any) ([]byte, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	default:
		return nil, errors.Errorf("varint coder: cannot encode %T", v)
	}
	buf := make([]byte, binary.MaxVarintLen64)
	return buf[:binary.PutVarint(buf, n)], nil
}

func (varIntCoder) Decode(data []byte) (any, error) {
	n, read := binary.Varint(data)
	if read <= 0 || read != len(data) {
		return nil, errors.Errorf("varint coder: malformed input of %d bytes", len(data))
	}
	return int(n), nil
}

func (varIntCoder) String() string {
	return "varint"
}

// Doubles returns the coder for float64 elements, encoded as big-endian
// IEEE 754 bits.
func Doubles() Coder {
	return doubleCoder{}
}

type doubleCoder struct{}

func (doubleCoder) Encode(v any) ([]byte, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, errors.Errorf("double coder: cannot encode %T", v)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(f))
	return buf, nil
}

func (doubleCoder) Decode(data []byte) (any, error) {
	if len(data) != 8 {
		return nil, errors.Errorf("double coder: malformed input of %d bytes", len(data))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
}

func (doubleCoder) String() string {
	return "double"
}

// JSON returns the fallback coder for arbitrary values. Values round-trip
// through encoding/json, so numbers decode as float64 and structs as
// map[string]any. Prefer a typed coder when the element type is known.
func JSON() Coder {
	return jsonCoder{}
}

type jsonCoder struct{}

func (jsonCoder) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrapf(err, "json coder: cannot encode %T", v)
	}
	// Encoder.Encode appends a newline; strip it so encodings are canonical.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (jsonCoder) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "json coder: malformed input")
	}
	return v, nil
}

func (jsonCoder) String() string {
	return "json"
}
