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

package log

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Structural routes facade messages to a zerolog logger. It is the default
// backend.
type Structural struct {
	logger zerolog.Logger
}

// NewStructural returns a backend writing through the given zerolog logger.
func NewStructural(l zerolog.Logger) *Structural {
	return &Structural{logger: l}
}

func defaultLogger() Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	return NewStructural(zl)
}

var levels = map[Severity]zerolog.Level{
	SevUnspecified: zerolog.InfoLevel,
	SevDebug:       zerolog.DebugLevel,
	SevInfo:        zerolog.InfoLevel,
	SevWarn:        zerolog.WarnLevel,
	SevError:       zerolog.ErrorLevel,
	SevFatal:       zerolog.FatalLevel,
}

// Log writes the message at the mapped zerolog level. Fatal severity is
// logged without exiting; the facade owns the panic.
func (s *Structural) Log(_ context.Context, sev Severity, msg string) {
	s.logger.WithLevel(levels[sev]).Msg(msg)
}
