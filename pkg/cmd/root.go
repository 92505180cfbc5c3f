package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/config"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/formatter"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/logging"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/version"
)

const (
	UseDescription   = "gis [flags] PATH..."
	ShortDescription = "Go imports sorter - rewrite Go import blocks into sorted groups"
	LongDescription  = `gis rewrites the import section of Go files in place.

Imports are split into groups, each sorted by import path:
1. Standard library (paths without both a dot and a slash)
2. Third-party packages
3. One group per --package prefix, in the order given

An import matching several prefixes goes to the longest one, so
"github.com/org" and "github.com/org/special" can be separate groups.

Each PATH is a Go file or a directory searched recursively for Go files
(vendor, testdata and hidden directories are skipped).

Settings may also come from GIS_* environment variables, .env files or a
.gis.yaml config file in the working or home directory.`
)

func newRootCmd() *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   UseDescription,
		Short: ShortDescription,
		Long:  LongDescription,
		Args: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, we don't need file arguments
			if showVersion {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return err
			}
			return run(cmd, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringSliceP(config.KeyPackage, "p", []string{}, "Comma-separated list of import path prefixes, each sorted into its own group (e.g., github.com/myorg,github.com/acme-corp)")
	flags.Bool(config.KeyModule, false, "Add the module path of the nearest go.mod as the last group")
	flags.StringSlice(config.KeyExclude, []string{}, "Glob patterns (doublestar syntax) of files or directories to skip, relative to each directory PATH")
	flags.IntP(config.KeyWorkers, "j", runtime.NumCPU(), "Number of files processed concurrently")
	flags.BoolP(config.KeyList, "l", false, "List files whose imports would change instead of rewriting them")
	flags.BoolP(config.KeyDiff, "d", false, "Print a unified diff instead of rewriting files")
	flags.BoolP(config.KeyVerbose, "v", false, "Enable debug logging")
	flags.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.String(config.KeyConfig, "", "Config file (default .gis.yaml in the working or home directory)")
	flags.BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.MarkFlagsMutuallyExclusive(config.KeyList, config.KeyDiff)

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.DefaultLoader(cmd.Flags()).Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.ConfigFile != "" {
		logger.Debug("using config file", zap.String("path", cfg.ConfigFile))
	}

	mode := formatter.ModeWrite
	switch {
	case cfg.List:
		mode = formatter.ModeList
	case cfg.Diff:
		mode = formatter.ModeDiff
	}

	g, err := formatter.New(formatter.FormatterConfig{
		Prefixes:     cfg.Packages,
		DetectModule: cfg.Module,
		Exclude:      cfg.Exclude,
		Workers:      cfg.Workers,
		Mode:         mode,
		Output:       cmd.OutOrStdout(),
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := g.ProcessPaths(ctx, args)
	logger.Info(errors.InfoMsgSummary,
		zap.Int("files", stats.Files),
		zap.Int("changed", stats.Changed),
		zap.Int("failed", stats.Failed),
	)
	if stats.Failed > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToProcess, stats.Failed)
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
