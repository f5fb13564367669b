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

// Package values holds the element types that flow through pipelines: keyed
// records, output tags and windowed envelopes. It has no dependencies so
// coders, the graph model and runners can all share it.
package values

import "fmt"

// KV is an immutable key/value pair. Keys are opaque to the pair itself;
// equality and hashing are defined by the coder of the collection the pair
// travels in.
type KV struct {
	Key   any
	Value any
}

// KVOf returns the pair (key, value).
func KVOf(key, value any) KV {
	return KV{Key: key, Value: value}
}

func (kv KV) String() string {
	return fmt.Sprintf("KV{%v, %v}", kv.Key, kv.Value)
}

// Tag identifies one of several logical outputs of a multi-output operator.
// Tags are plain comparable strings; an operator's tag set is fixed at
// construction time and disjoint per operator instance.
type Tag string

func (t Tag) String() string {
	return string(t)
}

// Window places a value in event time. Only the single global window is
// supported; the type exists so windowed envelopes stay explicit at the
// side-input boundary.
type Window interface {
	window()
	fmt.Stringer
}

// GlobalWindow is the single window covering all of event time.
type GlobalWindow struct{}

func (GlobalWindow) window() {}

func (GlobalWindow) String() string {
	return "GlobalWindow"
}

// WindowedValue is the envelope a materialized view element travels in.
type WindowedValue struct {
	Value  any
	Window Window
}

// InGlobalWindow wraps a value in the global window.
func InGlobalWindow(v any) WindowedValue {
	return WindowedValue{Value: v, Window: GlobalWindow{}}
}

func (wv WindowedValue) String() string {
	return fmt.Sprintf("%v@%v", wv.Value, wv.Window)
}
