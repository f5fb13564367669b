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
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/coder"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/graph"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/values"
)

var (
	wordcountInput  string
	wordcountOutput string

	wordcountCmd = &cobra.Command{
		Use:   "wordcount",
		Short: "Count words in text files and write the counts as text",
		RunE:  wordcountFn,
		Args:  cobra.NoArgs,
	}
)

func init() {
	wordcountCmd.Flags().StringVar(&wordcountInput, "input", "", "Input file pattern")
	wordcountCmd.Flags().StringVar(&wordcountOutput, "output", "", "Output location prefix")
	cobra.CheckErr(wordcountCmd.MarkFlagRequired("input"))
	cobra.CheckErr(wordcountCmd.MarkFlagRequired("output"))
}

var wordRE = regexp.MustCompile(`[a-zA-Z']+`)

func wordcountFn(cmd *cobra.Command, _ []string) error {
	g := graph.New()
	lines, err := graph.NewReadText(g, "read", wordcountInput)
	if err != nil {
		return err
	}
	words, err := graph.NewParDo(g, "split", graph.DoFunc(func(pc graph.ProcessContext) error {
		for _, w := range wordRE.FindAllString(pc.Element().(string), -1) {
			pc.Emit(values.KVOf(strings.ToLower(w), 1))
		}
		return nil
	}), lines, nil, coder.KVOf(coder.Strings(), coder.VarInts()))
	if err != nil {
		return err
	}
	counts, err := graph.NewCombinePerKey(g, "count", sumFn{}, words, coder.VarInts())
	if err != nil {
		return err
	}
	formatted, err := graph.NewParDo(g, "format", graph.DoFunc(func(pc graph.ProcessContext) error {
		kv := pc.Element().(values.KV)
		pc.Emit(fmt.Sprintf("%v: %v", kv.Key, kv.Value))
		return nil
	}), counts, nil, coder.Strings())
	if err != nil {
		return err
	}
	if _, err := graph.NewWriteText(g, "write", formatted, wordcountOutput); err != nil {
		return err
	}

	_, err = spark.Run(cmd.Context(), g, newEngine(), spark.WithName("wordcount"))
	return err
}

// sumFn counts word occurrences by summing the per-word ones.
type sumFn struct{}

func (sumFn) CreateAccumulator(any) (any, error) {
	return 0, nil
}

func (sumFn) AddInput(_, accum, input any) (any, error) {
	return accum.(int) + input.(int), nil
}

func (sumFn) MergeAccumulators(_, a, b any) (any, error) {
	return a.(int) + b.(int), nil
}

func (sumFn) ExtractOutput(_, accum any) (any, error) {
	return accum, nil
}
