package main

import (
	"github.com/spf13/cobra"

	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/output"
	"github.com/user/textbookrsa/internal/primes"
	"github.com/user/textbookrsa/internal/session"
)

func main() {
	executeWithFang(newRootCommand())
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	var (
		message string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "textbookrsa",
		Short: "Toy RSA key generation and per-byte encryption",
		Long: `textbookrsa draws two primes from a precomputed prime table, derives an
RSA key pair from them, validates it, and uses it to encrypt and decrypt a
short message one byte at a time.

The arithmetic is native 64-bit and there is no padding. This is a teaching
tool, not a cryptosystem.`,
		Example: `  # Interactive session with the embedded prime table
  textbookrsa

  # Reproducible session without a prompt
  textbookrsa --seed 7 --message HELLO

  # Machine-readable report
  textbookrsa --message HELLO --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := opts.logBackend(cmd)
			if err != nil {
				return err
			}

			src, err := opts.source()
			if err != nil {
				return err
			}
			if err := primes.CheckCapacity(src, opts.limit); err != nil {
				return err
			}

			printer, err := output.NewSessionPrinter(format)
			if err != nil {
				return err
			}

			gen := keygen.New(src,
				keygen.WithRand(opts.rand(cmd, 0)),
				keygen.WithDatasetLimit(opts.limit),
				keygen.WithMaxAttempts(opts.maxAttempts),
				keygen.WithLogger(backend.GetLogger("keygen")),
			)

			sessionOpts := []session.Option{session.WithLogger(backend.GetLogger("session"))}
			if cmd.Flags().Changed("message") {
				sessionOpts = append(sessionOpts, session.WithMessage(message))
			}
			if format != "text" {
				sessionOpts = append(sessionOpts, session.WithPromptWriter(cmd.ErrOrStderr()))
			}

			s := session.New(gen, printer, cmd.InOrStdin(), cmd.OutOrStdout(), sessionOpts...)
			_, err = s.Run(cmd.Context())
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to encrypt instead of reading one line from stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	cmd.AddCommand(newBenchCommand(opts))
	cmd.AddCommand(newCheckCommand())

	return cmd
}
