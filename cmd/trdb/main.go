package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imenihs/TRDB-Searcher/internal/config"
)

var (
	VERSION = "0.0.0-dev.0"
)

var rootCmd = &cobra.Command{
	Use:               "trdb",
	Version:           VERSION,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	Short:             "Search the periodical catalogue and serve scanned issues",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(rootArgs.logLevel, rootArgs.logEncoding)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

type rootFlags struct {
	envFile     string
	dataPath    string
	timeout     time.Duration
	logLevel    string
	logEncoding string
}

const timeout = time.Minute

var (
	rootArgs = rootFlags{
		timeout:     timeout,
		logLevel:    "info",
		logEncoding: "json",
	}
	logger = logr.Discard()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootArgs.envFile, "env-file", "",
		"Path to a .env file. Defaults to the nearest .env in the working directory or its parents.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.dataPath, "data", "",
		"Path to the catalogue file, overriding TR_DATA_PATH.")
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", rootArgs.timeout,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.logLevel, "log-level", rootArgs.logLevel,
		"Log verbosity: debug, info or error.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.logEncoding, "log-encoding", rootArgs.logEncoding,
		"Log format: json or console.")
	rootCmd.SetOut(os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("✗ %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration, applying command line overrides.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(rootArgs.envFile)
	if err != nil {
		return nil, err
	}
	if rootArgs.dataPath != "" {
		path, err := filepath.Abs(rootArgs.dataPath)
		if err != nil {
			return nil, err
		}
		conf.DataPath = path
	}
	return conf, nil
}

// newLogger builds a zap-backed logr.Logger writing to stderr.
func newLogger(level, encoding string) (logr.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Discard(), fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	if encoding != "json" && encoding != "console" {
		return logr.Discard(), fmt.Errorf("invalid log encoding '%s', must be json or console", encoding)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = encoding
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}
