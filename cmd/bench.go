package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/textbookrsa/internal/benchmark"
	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/output"
	"github.com/user/textbookrsa/pkg/sysinfo"
)

func newBenchCommand(opts *globalOptions) *cobra.Command {
	var (
		limits       []int
		iterations   int
		parallel     int
		outputFormat string
		outputFile   string
		showProgress bool
		timeout      int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated key generation",
		Long: `Generate keys repeatedly and report timing statistics, attempts per key,
validation retries and resource usage for each dataset limit.`,
		Example: `  # Ten keys per worker on four workers, as CSV
  textbookrsa bench -i 10 -p 4 -f csv

  # Compare dataset limits
  textbookrsa bench --limits 100,1000,25000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := opts.logBackend(cmd)
			if err != nil {
				return err
			}
			logger := backend.GetLogger("bench")

			formatter, err := output.NewFormatter(outputFormat)
			if err != nil {
				return fmt.Errorf("invalid output format: %w", err)
			}

			sysInfo, err := sysinfo.Collect(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to collect system info: %w", err)
			}
			if opts.verbose {
				logger.Noticef("host: %s", sysInfo.Summary())
			}

			src, err := opts.source()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("limits") {
				limits = []int{opts.limit}
			}
			config := benchmark.Config{
				Limits:       limits,
				Iterations:   iterations,
				Parallel:     parallel,
				MaxAttempts:  opts.maxAttempts,
				Seed:         opts.seed,
				Seeded:       cmd.Flags().Changed("seed"),
				ShowProgress: showProgress,
				Timeout:      timeout,
				Verbose:      opts.verbose,
			}

			keygenLog := backend.GetLogger("keygen")
			runner := benchmark.NewRunner(config, src,
				benchmark.WithLogger(logger),
				benchmark.WithProgressWriter(cmd.ErrOrStderr()),
				benchmark.WithGeneratorFactory(func(worker, limit int) benchmark.KeyGenerator {
					return keygen.New(src,
						keygen.WithRand(opts.rand(cmd, worker)),
						keygen.WithDatasetLimit(limit),
						keygen.WithMaxAttempts(opts.maxAttempts),
						keygen.WithLogger(keygenLog),
					)
				}),
			)
			results, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("benchmark failed: %w", err)
			}

			var writer io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				writer = f
			}

			data := output.Data{
				SystemInfo: sysInfo,
				Results:    results,
				Config:     runner.Config(),
			}
			if err := formatter.Format(writer, data); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&limits, "limits", nil, "Dataset limits to compare (default: --limit)")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 10, "Keys per worker")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Number of parallel workers")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, csv)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&showProgress, "progress", true, "Show progress bar")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 300, "Timeout in seconds per dataset limit")

	return cmd
}
