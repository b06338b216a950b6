// Command schedlab analyzes concurrent transaction schedules for the
// classical serializability and recoverability properties, renders them for
// worksheets, and searches randomly generated schedules for requested
// property combinations.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/txnlab/schedlab/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "schedlab:", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedlab",
		Short:         "Transaction schedule serializability toolbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "minimum log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log output format (json or console)")
	root.PersistentFlags().String("config", "", "optional YAML config file")

	root.AddCommand(
		newAnalyzeCommand(),
		newGenerateCommand(),
		newServeCommand(),
		newShellCommand(),
	)
	return root
}

// newViper builds the per-invocation settings source: flag values, overlaid
// by SCHEDLAB_* environment variables, overlaid by an optional config file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SCHEDLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, err
	}
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	return v, nil
}

// newLogger builds the zap logger from the resolved settings.
func newLogger(v *viper.Viper) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
	})
}
