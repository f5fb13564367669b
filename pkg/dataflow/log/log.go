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

// Package log contains a re-targetable context-aware logging facade. The
// runner routes its own messages and user DoFn logging through it, so a
// host process can swap the backend without touching evaluator code.
package log

import (
	"context"
	"fmt"
	"os"
)

// Severity is the severity of the log message.
type Severity int

// Severities, from least to most severe.
const (
	SevUnspecified Severity = iota
	SevDebug
	SevInfo
	SevWarn
	SevError
	SevFatal
)

// Logger is a context-aware logging backend. Must be safe for concurrent
// use: evaluators and engine workers log from multiple goroutines.
type Logger interface {
	// Log logs the message in some implementation-dependent way. Log should
	// always return regardless of the severity.
	Log(ctx context.Context, sev Severity, msg string)
}

var logger Logger = defaultLogger()

// SetLogger sets the global Logger. Intended to be called during process
// initialization only.
func SetLogger(l Logger) {
	if l == nil {
		panic("Logger cannot be nil")
	}
	logger = l
}

// Output logs the given message to the global logger.
func Output(ctx context.Context, sev Severity, msg string) {
	logger.Log(ctx, sev, msg)
}

// Debug writes the fmt.Sprint-formatted arguments to the global logger with
// debug severity.
func Debug(ctx context.Context, v ...any) {
	Output(ctx, SevDebug, fmt.Sprint(v...))
}

// Debugf writes the fmt.Sprintf-formatted arguments to the global logger with
// debug severity.
func Debugf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevDebug, fmt.Sprintf(format, v...))
}

// Info writes the fmt.Sprint-formatted arguments to the global logger with
// info severity.
func Info(ctx context.Context, v ...any) {
	Output(ctx, SevInfo, fmt.Sprint(v...))
}

// Infof writes the fmt.Sprintf-formatted arguments to the global logger with
// info severity.
func Infof(ctx context.Context, format string, v ...any) {
	Output(ctx, SevInfo, fmt.Sprintf(format, v...))
}

// Warn writes the fmt.Sprint-formatted arguments to the global logger with
// warn severity.
func Warn(ctx context.Context, v ...any) {
	Output(ctx, SevWarn, fmt.Sprint(v...))
}

// Warnf writes the fmt.Sprintf-formatted arguments to the global logger with
// warn severity.
func Warnf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevWarn, fmt.Sprintf(format, v...))
}

// Error writes the fmt.Sprint-formatted arguments to the global logger with
// error severity.
func Error(ctx context.Context, v ...any) {
	Output(ctx, SevError, fmt.Sprint(v...))
}

// Errorf writes the fmt.Sprintf-formatted arguments to the global logger with
// error severity.
func Errorf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevError, fmt.Sprintf(format, v...))
}

// Fatal writes the fmt.Sprint-formatted arguments to the global logger with
// fatal severity. It then panics.
func Fatal(ctx context.Context, v ...any) {
	msg := fmt.Sprint(v...)
	Output(ctx, SevFatal, msg)
	panic(msg)
}

// Fatalf writes the fmt.Sprintf-formatted arguments to the global logger with
// fatal severity. It then panics.
func Fatalf(ctx context.Context, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	Output(ctx, SevFatal, msg)
	panic(msg)
}

// Exit writes the fmt.Sprint-formatted arguments to the global logger with
// fatal severity. It then exits.
func Exit(ctx context.Context, v ...any) {
	Output(ctx, SevFatal, fmt.Sprint(v...))
	os.Exit(1)
}

// Exitf writes the fmt.Sprintf-formatted arguments to the global logger with
// fatal severity. It then exits.
func Exitf(ctx context.Context, format string, v ...any) {
	Output(ctx, SevFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}
