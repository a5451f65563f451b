// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package cmd provides the root command for the schemaconv CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/defenseunicorns/schemaconv"
	"github.com/defenseunicorns/schemaconv/config"
	configv0 "github.com/defenseunicorns/schemaconv/config/v0"
)

// NewRootCmd creates the root command for the schemaconv CLI.
func NewRootCmd() *cobra.Command {
	var (
		level          string
		ver            bool
		list           bool
		explain        bool
		dry            bool
		dir            string
		configPath     string
		timeout        time.Duration
		toolPath       string
		minToolVersion string
		inputDir       string
		outputDir      string
		inputFormat    = schemaconv.DefaultInputFormat // VarP does not allow you to set a default value
		outputFormat   = schemaconv.DefaultOutputFormat
		packageName    string
		direct         bool
		filter         string
		concurrency    int
		tempDir        string
	)

	var cfg *configv0.Config // cfg is not set via CLI flag

	// closure initializer
	loadConfig := func(cmd *cobra.Command) error {
		open := func(p string) error {
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()
			cfg, err = configv0.LoadConfig(f)
			if err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
			return nil
		}

		switch p, ok := config.PathFromEnv(); {
		case cmd.Flags().Changed("config"):
			if err := open(configPath); err != nil {
				return err
			}
		case ok:
			if err := open(p); err != nil {
				return err
			}
		default:
			var err error
			cfg, err = configv0.LoadDefaultConfig(afero.NewOsFs())
			if err != nil {
				return err
			}
		}

		// default < cfg < flags
		flags := cmd.Flags()
		if !flags.Changed("tool") {
			toolPath = cfg.ToolPath
		}
		if !flags.Changed("min-tool-version") {
			minToolVersion = cfg.MinToolVersion
		}
		if !flags.Changed("input-dir") {
			inputDir = cfg.InputDir
		}
		if !flags.Changed("output-dir") {
			outputDir = cfg.OutputDir
		}
		if !flags.Changed("input-format") {
			inputFormat = cfg.InputFormat
		}
		if !flags.Changed("output-format") {
			outputFormat = cfg.OutputFormat
		}
		if !flags.Changed("package") {
			packageName = cfg.PackageName
		}
		if !flags.Changed("direct") {
			direct = cfg.Direct
		}
		if !flags.Changed("filter") {
			filter = cfg.Filter
		}
		if !flags.Changed("concurrency") {
			concurrency = cfg.Concurrency
		}
		if !flags.Changed("temp-dir") {
			tempDir = cfg.TempDir
		}

		return nil
	}

	root := &cobra.Command{
		Use:   "schemaconv",
		Short: "Convert schema directories with avrotize",
		Long: `Convert every schema in a directory from one format to another using avrotize.

Conversions without a direct avrotize subcommand are chained through
intermediate Avro schemas, e.g. JSON Schema to Java runs j2a then a2java.`,
		Example: `
schemaconv

schemaconv --input-format json --output-format proto -o build/generated/proto

schemaconv --explain --output-format java --package com.example
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dir != "" {
				if err := os.Chdir(dir); err != nil {
					return err
				}
			}

			return loadConfig(cmd)
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger := log.FromContext(cmd.Context())
			logger.SetLevel(l)

			return nil
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			if ver {
				bi, ok := debug.ReadBuildInfo()
				if !ok {
					return fmt.Errorf("version information not available")
				}
				fmt.Fprintln(os.Stdout, bi.Main.Version)
				return nil
			}

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
				cmd.SetContext(ctx)
			}

			// avrotize sees absolute paths, whatever directory it runs in
			for _, p := range []*string{&inputDir, &outputDir, &tempDir} {
				if *p == "" {
					continue
				}
				abs, err := filepath.Abs(*p)
				if err != nil {
					return err
				}
				*p = abs
			}

			if tempDir == "" {
				var err error
				tempDir, err = os.MkdirTemp("", "schemaconv-*")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tempDir)
			}

			planner := schemaconv.NewPlanner(schemaconv.PlannerConfig{
				ToolPath: toolPath,
				TempDir:  tempDir,
				Graph:    schemaconv.DefaultGraph(direct),
				Stage:    true,
			})

			opts := schemaconv.ConversionOptions{
				PackageName: packageName,
			}

			if list {
				for _, e := range planner.Graph().Edges() {
					fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", e.Source, e.Target, e.Subcommand)
				}
				return nil
			}

			if explain {
				md, err := schemaconv.Explain(planner, inputFormat, outputFormat, opts)
				if err != nil {
					return err
				}
				out, err := schemaconv.RenderMarkdown(md)
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, out)
				return nil
			}

			f, err := schemaconv.NewFilter(filter)
			if err != nil {
				return err
			}

			runner := &schemaconv.ExecRunner{
				Stdout: os.Stdout,
				Stderr: os.Stderr,
			}

			// fail fast on an unsupported pair before any process runs
			if _, err := planner.Resolve(inputFormat, outputFormat); err != nil {
				return err
			}

			if !dry {
				version, err := schemaconv.Probe(ctx, &schemaconv.ExecRunner{}, toolPath, minToolVersion)
				if err != nil {
					return err
				}
				logger.Debug("found", "tool", toolPath, "version", version)
			}

			task := schemaconv.Task{
				InputDir:    inputDir,
				OutputDir:   outputDir,
				Source:      inputFormat,
				Target:      outputFormat,
				Options:     opts,
				Filter:      f,
				Concurrency: concurrency,
				Dry:         dry,
			}

			result, err := task.Run(ctx, afero.NewOsFs(), planner, runner)
			if result != nil && !dry {
				logger.Info("done", "converted", len(result.Converted), "failed", len(result.Failed), "output", outputDir)
			}
			return err
		},
	}

	root.Flags().StringVarP(&level, "log-level", "l", "info", "Set log level")
	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{log.DebugLevel.String(), log.InfoLevel.String(), log.WarnLevel.String(), log.ErrorLevel.String(), log.FatalLevel.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().BoolVarP(&ver, "version", "V", false, "Print version number and exit")
	root.Flags().BoolVar(&list, "list", false, "Print available conversions and exit")
	root.Flags().BoolVar(&explain, "explain", false, "Print how the input format is converted to the output format and exit")
	root.Flags().BoolVar(&dry, "dry-run", false, "Don't actually run anything; just print")
	root.Flags().DurationVarP(&timeout, "timeout", "t", time.Hour, "Maximum time allowed for execution")
	root.PersistentFlags().StringVarP(&dir, "directory", "C", "", "Change to directory before doing anything")
	_ = root.MarkPersistentFlagDirname("directory")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "Path to schemaconv config file")
	_ = root.MarkPersistentFlagFilename("config", "yaml", "yml")

	root.Flags().StringVar(&toolPath, "tool", schemaconv.DefaultToolPath, "Path to the avrotize executable")
	root.Flags().StringVar(&minToolVersion, "min-tool-version", "", "Minimum avrotize version required")
	root.Flags().StringVarP(&inputDir, "input-dir", "i", schemaconv.DefaultInputDir, "Directory containing input schemas")
	_ = root.MarkFlagDirname("input-dir")
	root.Flags().StringVarP(&outputDir, "output-dir", "o", schemaconv.DefaultOutputDir, "Directory receiving generated artifacts")
	_ = root.MarkFlagDirname("output-dir")
	root.Flags().Var(&inputFormat, "input-format", fmt.Sprintf(`Input format ("%s")`, strings.Join(schemaconv.AvailableFormats(), `", "`)))
	root.Flags().Var(&outputFormat, "output-format", fmt.Sprintf(`Output format ("%s")`, strings.Join(schemaconv.AvailableFormats(), `", "`)))
	for _, name := range []string{"input-format", "output-format"} {
		_ = root.RegisterFlagCompletionFunc(name, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return schemaconv.AvailableFormats(), cobra.ShellCompDirectiveNoFileComp
		})
	}
	root.Flags().StringVar(&packageName, "package", "", "Package name for generated code")
	root.Flags().BoolVar(&direct, "direct", false, "Use single invocation JSON Schema conversions (s2java, s2p)")
	root.Flags().StringVar(&filter, "filter", "", `Expression selecting input files (e.g. 'ext == ".json"')`)
	root.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Number of files converted at once")
	root.Flags().StringVar(&tempDir, "temp-dir", "", "Directory for intermediate artifacts (default: a fresh temporary directory)")
	_ = root.MarkFlagDirname("temp-dir")

	return root
}

// Main executes the root command for the schemaconv CLI.
//
// It returns 0 on success, 1 on failure and logs any errors.
func Main() int {
	cli := NewRootCmd()

	ctx := context.Background()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	logger.SetStyles(DefaultStyles())

	ctx = log.WithContext(ctx, logger)
	cmd, err := cli.ExecuteContextC(ctx)
	if err != nil {
		logger.Print("")

		if errors.Is(cmd.Context().Err(), context.DeadlineExceeded) {
			logger.Error("conversion timed out")
		}

		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				printError(logger, e)
			}
		} else {
			printError(logger, err)
		}
	}
	return ParseExitCode(err)
}

func printError(logger *log.Logger, err error) {
	var tErr *schemaconv.TraceError
	if errors.As(err, &tErr) && len(tErr.Trace) > 0 {
		trace := slices.Clone(tErr.Trace)
		slices.Reverse(trace)
		if len(trace) == 1 {
			logger.Error(tErr)
			logger.Error(trace[0])
		} else {
			logger.Error(tErr, "traceback (most recent call first)", strings.Join(trace, "\n"))
		}
		return
	}
	logger.Error(err)
}

// ParseExitCode calculates the exit code from a given error
//
// 0 - the error was nil
// 1 - there was some error
// n - the exit code of a failed avrotize step, or the underlying error from an exec.Command
func ParseExitCode(err error) int {
	if err == nil {
		return 0
	}

	var sErr *schemaconv.StepExecutionError
	if errors.As(err, &sErr) && sErr.ExitCode > 0 {
		return sErr.ExitCode
	}

	var eErr *exec.ExitError
	if errors.As(err, &eErr) {
		if status, ok := eErr.Sys().(syscall.WaitStatus); ok {
			if status.Exited() {
				return status.ExitStatus()
			}
			if status.Signaled() {
				if status.Signal() == syscall.SIGINT {
					return 130
				}
			}
		}
	}
	return 1
}
