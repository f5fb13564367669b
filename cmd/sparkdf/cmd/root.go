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

// Package cmd contains the sparkdf subcommands. Settings resolve from
// flags first, then SPARKDF_ environment variables, then defaults.
package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sysalexis/spark-dataflow/pkg/dataflow/log"
	"github.com/sysalexis/spark-dataflow/pkg/dataflow/runners/spark/engine/local"
)

var (
	Root = &cobra.Command{
		Use:               "sparkdf",
		Short:             "sparkdf runs dataflow pipelines on the in-process engine",
		PersistentPreRunE: setupLogging,
	}

	cfg = viper.New()
)

func init() {
	Root.PersistentFlags().Int("parallelism", local.DefaultConfig().Parallelism, "Partition task parallelism")
	Root.PersistentFlags().Int("task-retries", 0, "Extra attempts for failed partition tasks")
	Root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cfg.SetEnvPrefix("sparkdf")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	cobra.CheckErr(cfg.BindPFlags(Root.PersistentFlags()))

	Root.AddCommand(wordcountCmd, avroCmd)
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cfg.GetString("log-level"))
	if err != nil {
		return err
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
	log.SetLogger(log.NewStructural(zl))
	return nil
}

// newEngine builds a local engine from the resolved configuration.
func newEngine() *local.Engine {
	return local.New(local.Config{
		Parallelism:    cfg.GetInt("parallelism"),
		MaxTaskRetries: cfg.GetInt("task-retries"),
	})
}
