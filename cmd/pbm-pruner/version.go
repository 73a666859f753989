package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/pbm"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information of pbm-pruner and, when it can be found, of the pbm tool.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "pbm-pruner %s\n", Version)
		fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
		fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(w, "pbm: %s\n", pbmVersion(cmd))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func pbmVersion(cmd *cobra.Command) string {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	client, err := pbm.New(pbm.Config{Bin: cfg.PBM.Bin}, logging.Nop())
	if err != nil {
		return "not found"
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	v, err := client.Version(ctx)
	if err != nil {
		return "unavailable (" + err.Error() + ")"
	}
	return v.Version
}
