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

// Package avroio reads and writes Avro object container files on the local
// filesystem. Records travel in goavro's native Go form: records as
// map[string]any, unions as single-entry maps keyed by branch name.
package avroio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linkedin/goavro/v2"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/internal/errors"
)

// ReadFile returns all records of one object container file. The writer
// schema embedded in the file drives decoding.
func ReadFile(filename string) ([]any, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	ar, err := goavro.NewOCFReader(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "opening avro container %v", filename)
	}
	var records []any
	for ar.Scan() {
		rec, err := ar.Read()
		if err != nil {
			return nil, errors.Wrapf(err, "reading avro record from %v", filename)
		}
		records = append(records, rec)
	}
	if err := ar.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %v", filename)
	}
	return records, nil
}

// WriteFile writes records as one object container file with the given
// writer schema, creating parent directories as needed. Records must be in
// the native form the schema's codec accepts.
func WriteFile(filename, schema string, records []any) error {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return errors.Wrap(err, "invalid avro schema")
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	fd, err := os.Create(filename)
	if err != nil {
		return err
	}
	ocfw, err := goavro.NewOCFWriter(goavro.OCFConfig{
		Codec:           codec,
		CompressionName: goavro.CompressionSnappyLabel,
		Schema:          schema,
		W:               fd,
	})
	if err != nil {
		fd.Close()
		return errors.Wrapf(err, "creating avro container %v", filename)
	}
	if err := ocfw.Append(records); err != nil {
		fd.Close()
		return errors.Wrapf(err, "writing avro records to %v", filename)
	}
	return fd.Close()
}

// ShardName names one shard of a sharded write: prefix-SSSSS-of-NNNNN.avro.
func ShardName(prefix string, shard, total int) string {
	return fmt.Sprintf("%s-%05d-of-%05d.avro", prefix, shard, total)
}
