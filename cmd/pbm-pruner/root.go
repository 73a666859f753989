package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raoulx24/pbm-pruner/internal/config"
	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/pbm"
)

const defaultConfigFile = "config.yaml"

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pbm-pruner",
	Short: "Retention pruning for Percona Backup for MongoDB",
	Long: `pbm-pruner keeps a tiered set of PBM snapshots (one per day, week, month
and year, newest first) and deletes the rest through the pbm command line tool.

Incremental backups are kept together with every backup they build on, and
point-in-time-recovery chunks older than the oldest kept snapshot can be
pruned as well.

Configuration comes from a YAML file, then PBM_* environment variables, then
flags.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path (optional unless set explicitly)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (text, json)")
}

// loadConfig reads the config file. The default file may be absent; a file
// named with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOptional(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	log, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func newClient(cfg *config.Config, log logging.Logger) (*pbm.Client, error) {
	return pbm.New(pbm.Config{Bin: cfg.PBM.Bin, MongoURI: cfg.PBM.MongoURI}, log)
}

// setup is the common start of every command that talks to pbm.
func setup(cmd *cobra.Command) (*config.Config, logging.Logger, *pbm.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := newClient(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, client, nil
}
