package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/charmbracelet/fang"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/log"
	"github.com/user/textbookrsa/internal/primes"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	primesPath  string
	scan        bool
	limit       int
	maxAttempts int
	seed        uint64
	logLevel    string
	verbose     bool
}

func (o *globalOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.primesPath, "primes", "", "Prime dataset file, whitespace-separated (default: embedded table)")
	flags.BoolVar(&o.scan, "scan", false, "Rescan the dataset file on every lookup instead of loading it")
	flags.IntVarP(&o.limit, "limit", "l", primes.DefaultLimit, "Dataset limit: p is drawn from the first 2*limit primes, q from the first limit")
	flags.IntVar(&o.maxAttempts, "max-attempts", keygen.DefaultMaxAttempts, "Generation attempts before giving up")
	flags.Uint64Var(&o.seed, "seed", 0, "Seed for reproducible key selection (default: random)")
	flags.StringVar(&o.logLevel, "log-level", log.DefaultLevel, "Log level (ERROR, WARNING, NOTICE, INFO, DEBUG)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
}

func (o *globalOptions) logBackend(cmd *cobra.Command) (*log.Backend, error) {
	level := o.logLevel
	if o.verbose && !cmd.Flags().Changed("log-level") {
		level = "INFO"
	}
	return log.New(cmd.ErrOrStderr(), level, false)
}

func (o *globalOptions) source() (primes.Source, error) {
	if o.primesPath != "" && o.scan {
		if _, err := os.Stat(o.primesPath); err != nil {
			return nil, errors.Wrap(err, "prime dataset")
		}
		return primes.NewFileSource(o.primesPath), nil
	}

	var (
		table *primes.Table
		err   error
	)
	if o.primesPath == "" {
		table, err = primes.Default()
	} else {
		table, err = primes.LoadFile(o.primesPath)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// rand returns the randomness for one generator. Seeded generators offset
// the seed by worker so parallel workers draw different keys.
func (o *globalOptions) rand(cmd *cobra.Command, worker int) keygen.Rand {
	if cmd.Flags().Changed("seed") {
		return keygen.SeededRand(o.seed + uint64(worker))
	}
	return keygen.NewRand()
}

func executeWithFang(cmd *cobra.Command) {
	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(versioninfo.Short()),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(1)
	}
}

func errorHandler(w io.Writer, styles fang.Styles, err error) {
	_, _ = fmt.Fprintln(w, styles.ErrorHeader.String())
	_, _ = fmt.Fprintln(w, styles.ErrorText.Render(err.Error()+"."))
	_, _ = fmt.Fprintln(w)
}
