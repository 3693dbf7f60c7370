// moxiutil drives moxi's string and stdin helpers from the command line.
//
// Usage:
//
//	moxiutil dup   [--policy=abort|propagate] [--limit=SIZE] STRING...
//	moxiutil list  [--policy=abort|propagate] [--limit=SIZE] STRING...
//	moxiutil split [--delims=SET] [--parallel=N] [-f FILE]... [STRING]...
//	moxiutil watch
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchbase/moxi-sub001/internal/config"
	"github.com/couchbase/moxi-sub001/internal/logging"
	"github.com/couchbase/moxi-sub001/internal/report"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	markdown   bool
}

// cfg is the effective configuration, set before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "moxiutil",
	Short: "Exercise moxi's owned-string, tokenizer and stdin-watch helpers",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to config file (YAML/JSON)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&rootFlags.markdown, "markdown", false, "Render tables as Markdown")

	rootCmd.AddCommand(dupCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config file, applies flag overrides, configures logging and
// arms the stdin watcher when the config asks for it.
func setup(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	if rootFlags.configPath != "" {
		loaded, err := config.LoadFromPath(rootFlags.configPath)
		if err != nil {
			return err
		}
		c = loaded
	}
	if rootFlags.logLevel != "" {
		c.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		c.Log.Format = rootFlags.logFormat
	}
	if err := c.Validate(); err != nil {
		return err
	}

	level, _ := logging.ParseLevel(c.Log.Level)
	logging.Init(level, c.Log.Format, cmd.ErrOrStderr())
	cfg = c

	if c.WatchStdin {
		return armStdinWatcher(cmd)
	}
	return nil
}

func tableMode() report.Mode {
	if rootFlags.markdown {
		return report.Markdown
	}
	return report.ASCII
}
