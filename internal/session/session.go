// Package session runs one interactive demo: generate a key pair, report it,
// read a message, then encrypt and decrypt it byte by byte.
package session

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/op/go-logging.v1"

	"github.com/user/textbookrsa/internal/cipher"
	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/log"
)

// Prompt is written before the message is read from input.
const Prompt = "Insert message to encrypt:"

// Report is everything a session produced.
type Report struct {
	Elapsed    time.Duration `json:"elapsed"`
	Key        *keygen.Key   `json:"key"`
	Message    []byte        `json:"-"`
	Ciphertext []uint64      `json:"ciphertext"`
	Decrypted  []byte        `json:"-"`
}

// Printer renders a report in two phases: the key material before the
// message is read, and the message results after.
type Printer interface {
	PrintKey(w io.Writer, r *Report) error
	PrintMessage(w io.Writer, r *Report) error
}

// Generator produces key material.
type Generator interface {
	Generate(ctx context.Context) (*keygen.Key, error)
}

// Session wires a generator to console input and output.
type Session struct {
	gen     Generator
	printer Printer
	in      io.Reader
	out     io.Writer
	prompt  io.Writer
	message *string
	log     *logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithMessage supplies the plaintext instead of reading it from input.
func WithMessage(msg string) Option {
	return func(s *Session) { s.message = &msg }
}

// WithPromptWriter redirects the prompt, e.g. to stderr when stdout carries
// machine-readable output.
func WithPromptWriter(w io.Writer) Option {
	return func(s *Session) { s.prompt = w }
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a session reading from in and writing to out.
func New(gen Generator, printer Printer, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		gen:     gen,
		printer: printer,
		in:      in,
		out:     out,
		prompt:  out,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.Discard("session")
	}
	return s
}

// Run executes the session and returns its report.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	key, err := s.gen.Generate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "generate key pair")
	}

	report := &Report{
		Elapsed: time.Since(start),
		Key:     key,
	}
	s.log.Infof("key %s generated in %s after %d attempt(s)", key.ID, report.Elapsed, key.Attempts)

	if err := s.printer.PrintKey(s.out, report); err != nil {
		return nil, errors.Wrap(err, "print key")
	}

	msg, err := s.readMessage()
	if err != nil {
		return nil, err
	}
	report.Message = msg

	report.Ciphertext, err = cipher.Encrypt(key.Public(), msg)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt")
	}
	report.Decrypted, err = cipher.Decrypt(key.Private(), report.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt")
	}
	if string(report.Decrypted) != string(msg) {
		// Unreachable for validated keys and in-range bytes.
		s.log.Errorf("decrypted message differs from plaintext")
	}

	if err := s.printer.PrintMessage(s.out, report); err != nil {
		return nil, errors.Wrap(err, "print message")
	}
	return report, nil
}

func (s *Session) readMessage() ([]byte, error) {
	if s.message != nil {
		return []byte(*s.message), nil
	}

	if _, err := io.WriteString(s.prompt, Prompt+"\n"); err != nil {
		return nil, errors.Wrap(err, "write prompt")
	}

	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "read message")
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
