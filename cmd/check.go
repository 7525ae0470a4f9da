package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/user/textbookrsa/internal/cipher"
	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/output"
	"github.com/user/textbookrsa/internal/session"
)

// errRoundTrip is returned when some byte does not survive encryption.
var errRoundTrip = errors.New("round trip failed")

func newCheckCommand() *cobra.Command {
	var (
		p, q, e uint64
		message string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Derive and validate a key from given primes and exponent",
		Long: `Derive d from p, q and e, print the key material, and encrypt and
decrypt every byte value below min(n, 256).

The primes are not tested for primality.`,
		Example: `  textbookrsa check --p 61 --q 53 --e 17 --message HELLO`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keygen.Derive(p, q, e)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "p = %d\nq = %d\nn = %d\n", key.P, key.Q, key.N)
			fmt.Fprintf(w, "Euler function f is %d\n", key.Phi)
			fmt.Fprintf(w, "e = %d\nd = %d\n", key.E, key.D)
			fmt.Fprintf(w, "GCD(e, f) = %d\n", key.GCD())
			fmt.Fprintf(w, "(e*d) mod euler_function = %d\n", key.Residue())
			fmt.Fprintf(w, "binary n = %s\nbinary d = %s\n", output.Binary(key.N), output.Binary(key.D))

			bound := min(key.N, 256)
			failed := 0
			for m := uint64(0); m < bound; m++ {
				c := cipher.EncryptUnit(m, key.E, key.N)
				if got := cipher.DecryptUnit(c, key.D, key.N); got != m {
					fmt.Fprintf(w, "✗ %d -> %d -> %d\n", m, c, got)
					failed++
				}
			}
			if failed > 0 {
				return errors.Wrapf(errRoundTrip, "%d of %d byte values", failed, bound)
			}
			fmt.Fprintf(w, "✓ all %d byte values survive a round trip\n", bound)

			if !cmd.Flags().Changed("message") {
				return nil
			}

			report := &session.Report{Key: key, Message: []byte(message)}
			if report.Ciphertext, err = cipher.Encrypt(key.Public(), report.Message); err != nil {
				return err
			}
			if report.Decrypted, err = cipher.Decrypt(key.Private(), report.Ciphertext); err != nil {
				return err
			}
			return (&output.TextPrinter{}).PrintMessage(w, report)
		},
	}

	cmd.Flags().Uint64Var(&p, "p", 0, "First prime")
	cmd.Flags().Uint64Var(&q, "q", 0, "Second prime")
	cmd.Flags().Uint64Var(&e, "e", 0, "Public exponent")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to encrypt with the derived key")
	_ = cmd.MarkFlagRequired("p")
	_ = cmd.MarkFlagRequired("q")
	_ = cmd.MarkFlagRequired("e")

	return cmd
}
