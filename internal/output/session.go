package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/user/textbookrsa/internal/cipher"
	"github.com/user/textbookrsa/internal/session"
)

// Binary renders v as a 32-bit field, or a 64-bit one when it does not fit.
func Binary(v uint64) string {
	if v <= math.MaxUint32 {
		return fmt.Sprintf("%032b", v)
	}
	return fmt.Sprintf("%064b", v)
}

// TextPrinter writes the human-readable session transcript.
type TextPrinter struct{}

func (p *TextPrinter) PrintKey(w io.Writer, r *session.Report) error {
	k := r.Key
	_, err := fmt.Fprintf(w,
		"Total duration of RSA private & public key distribution is %.6f sec\n"+
			"n = %d\ne = %d\nd = %d\n"+
			"Euler function f is %d\n"+
			"GCD(e, f) = %d\n"+
			"(e*d) mod euler_function = %d\n"+
			"binary n = %s\nbinary d = %s\n",
		r.Elapsed.Seconds(),
		k.N, k.E, k.D,
		k.Phi,
		k.GCD(),
		k.Residue(),
		Binary(k.N), Binary(k.D),
	)
	return err
}

func (p *TextPrinter) PrintMessage(w io.Writer, r *session.Report) error {
	_, err := fmt.Fprintf(w,
		"Message is : %s\nEncrypted message is : %s\nDecrypted message is : %s\n",
		r.Message, cipher.FormatUnits(r.Ciphertext), r.Decrypted)
	return err
}

// JSONPrinter writes the whole report as one object once the message has
// been processed.
type JSONPrinter struct{}

type sessionJSON struct {
	ID             string   `json:"id"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Attempts       int      `json:"attempts"`
	P              uint64   `json:"p"`
	Q              uint64   `json:"q"`
	N              uint64   `json:"n"`
	E              uint64   `json:"e"`
	D              uint64   `json:"d"`
	Phi            uint64   `json:"phi"`
	GCD            uint64   `json:"gcd"`
	Residue        uint64   `json:"residue"`
	BinaryN        string   `json:"binary_n"`
	BinaryD        string   `json:"binary_d"`
	Message        string   `json:"message"`
	Ciphertext     []uint64 `json:"ciphertext"`
	Decrypted      string   `json:"decrypted"`
}

func (p *JSONPrinter) PrintKey(io.Writer, *session.Report) error {
	return nil
}

func (p *JSONPrinter) PrintMessage(w io.Writer, r *session.Report) error {
	k := r.Key
	out := sessionJSON{
		ID:             k.ID,
		ElapsedSeconds: r.Elapsed.Seconds(),
		Attempts:       k.Attempts,
		P:              k.P,
		Q:              k.Q,
		N:              k.N,
		E:              k.E,
		D:              k.D,
		Phi:            k.Phi,
		GCD:            k.GCD(),
		Residue:        k.Residue(),
		BinaryN:        Binary(k.N),
		BinaryD:        Binary(k.D),
		Message:        string(r.Message),
		Ciphertext:     r.Ciphertext,
		Decrypted:      string(r.Decrypted),
	}
	if out.Ciphertext == nil {
		out.Ciphertext = []uint64{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
