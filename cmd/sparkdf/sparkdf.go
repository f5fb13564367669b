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

// sparkdf is a command line tool for running pipelines on the in-process
// engine and inspecting their inputs and outputs.
package main

import (
	"context"
	"os"

	"github.com/sysalexis/spark-dataflow/cmd/sparkdf/cmd"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/log"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}
