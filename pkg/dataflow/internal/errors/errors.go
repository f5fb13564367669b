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

// Package errors provides error construction and wrapping with layered
// context, so that a job failure reports the chain of translation steps it
// passed through without losing the original cause.
package errors

import (
	"fmt"
	"io"
	"strings"
)

// New returns an error with the given message.
func New(message string) error {
	return fmt.Errorf("%s", message)
}

// Errorf returns an error with a message formatted according to the format
// specifier.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Wrap returns a new error annotating err with a new message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause: err,
		msg:   message,
		top:   topOf(err),
	}
}

// Wrapf returns a new error annotating err with a new message according to
// the format specifier.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause: err,
		msg:   fmt.Sprintf(format, args...),
		top:   topOf(err),
	}
}

// WithContext returns a new error adding additional context to err.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause:   err,
		context: context,
		top:     topOf(err),
	}
}

// WithContextf returns a new error adding additional context to err according
// to the format specifier.
func WithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause:   err,
		context: fmt.Sprintf(format, args...),
		top:     topOf(err),
	}
}

// SetTopLevelMsg returns a new error with the given top-level message. The
// top-level message is printed first when Error() is called on the returned
// error or on any error wrapping it.
func SetTopLevelMsg(err error, top string) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause: err,
		top:   top,
	}
}

// SetTopLevelMsgf returns a new error with a top-level message according to
// the format specifier. The top-level message is printed first when Error()
// is called on the returned error or on any error wrapping it.
func SetTopLevelMsgf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &jobError{
		cause: err,
		top:   fmt.Sprintf(format, args...),
	}
}

func topOf(e error) string {
	if je, ok := e.(*jobError); ok {
		return je.top
	}
	return ""
}

// jobError is one link in a chain of error details. Links nest in the order
// the additional context was wrapped around the original cause.
//
//   - A nil cause marks the original error; msg is then expected to be set.
//   - If both msg and context are present, context describes this error
//     rather than its cause.
//   - top always carries forward from the cause; empty means no link in the
//     chain ever set one.
type jobError struct {
	cause   error  // wrapped error; nil for the origin of the chain
	context string // context for this error and everything below it
	msg     string // message describing this error
	top     string // first message shown to the user; carried upward
}

// Error renders the chain. The top-level message comes first, followed by
// each link's context and message in wrapping order, ending at the original
// cause.
func (e *jobError) Error() string {
	var sb strings.Builder

	if e.top != "" {
		fmt.Fprintf(&sb, "%s\nFull error:\n", e.top)
	}

	e.writeChain(&sb)

	return sb.String()
}

// writeChain writes the contexts and messages of the chain rooted at e.
func (e *jobError) writeChain(sb *strings.Builder) {
	wraps := e.cause != nil

	if e.context != "" {
		// Keep multi-line contexts indented under their link.
		fmt.Fprintf(sb, "\t%s\n", strings.ReplaceAll(e.context, "\n", "\n\t"))
	}
	if e.msg != "" {
		sb.WriteString(e.msg)
		if wraps {
			sb.WriteString("\n\tcaused by:\n")
		}
	}

	if wraps {
		if je, ok := e.cause.(*jobError); ok {
			je.writeChain(sb)
		} else {
			sb.WriteString(e.cause.Error())
		}
	}
}

// Format implements fmt.Formatter.
func (e *jobError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Unwrap returns the cause of this error, if any.
func (e *jobError) Unwrap() error {
	return e.cause
}
