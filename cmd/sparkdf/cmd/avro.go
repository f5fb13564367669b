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

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/avroio"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/io/textio"
)

var (
	avroCmd = &cobra.Command{
		Use:   "avro",
		Short: "Avro file commands",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump pattern...",
		Short: "Print the records of Avro container files as JSON lines",
		RunE:  dumpFn,
		Args:  cobra.MinimumNArgs(1),
	}
)

func init() {
	avroCmd.AddCommand(dumpCmd)
}

func dumpFn(cmd *cobra.Command, args []string) error {
	for _, pattern := range args {
		files, err := textio.Expand(pattern)
		if err != nil {
			return err
		}
		for _, name := range files {
			records, err := avroio.ReadFile(name)
			if err != nil {
				return err
			}
			for _, r := range records {
				data, err := json.Marshal(r)
				if err != nil {
					return err
				}
				cmd.Println(string(data))
			}
		}
	}
	return nil
}
