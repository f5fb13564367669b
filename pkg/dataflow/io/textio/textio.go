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

// Package textio reads and writes line-oriented files on the local
// filesystem. It is the connector behind the engine's text sources and
// sinks; failures are returned to the caller unchanged, never masked.
package textio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
)

// Expand returns the files matching the glob pattern, sorted. A pattern
// matching no files is an error: a missing input should surface rather
// than silently produce an empty collection.
func Expand(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file pattern %v", pattern)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no files match pattern %v", pattern)
	}
	sort.Strings(files)
	return files, nil
}

// ReadLines returns the lines of the named file, without line terminators.
// A final line without a trailing newline is included.
func ReadLines(filename string) ([]string, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var lines []string
	rd := bufio.NewReader(fd)
	for {
		line, err := rd.ReadString('\n')
		if err == io.EOF {
			if line != "" {
				lines = append(lines, line)
			}
			return lines, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %v", filename)
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
}

// WriteLines writes the lines to the named file, one per line, creating
// parent directories as needed. An existing file is truncated.
func WriteLines(filename string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	fd, err := os.Create(filename)
	if err != nil {
		return err
	}
	buf := bufio.NewWriterSize(fd, 1<<20) // use 1MB buffer
	for _, line := range lines {
		if _, err := buf.WriteString(line); err != nil {
			fd.Close()
			return errors.Wrapf(err, "writing %v", filename)
		}
		if _, err := buf.WriteString("\n"); err != nil {
			fd.Close()
			return errors.Wrapf(err, "writing %v", filename)
		}
	}
	if err := buf.Flush(); err != nil {
		fd.Close()
		return errors.Wrapf(err, "flushing %v", filename)
	}
	return fd.Close()
}
