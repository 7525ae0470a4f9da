// Package keygen generates and validates toy RSA key material from a prime
// table.
package keygen

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/op/go-logging.v1"

	"github.com/user/textbookrsa/internal/log"
	"github.com/user/textbookrsa/internal/modmath"
	"github.com/user/textbookrsa/internal/primes"
)

// DefaultMaxAttempts bounds the validate-and-restart loop.
const DefaultMaxAttempts = 10

// ErrRetryLimitExceeded is returned when no attempt produced valid key
// material within the configured bound.
var ErrRetryLimitExceeded = errors.New("key generation retry limit exceeded")

// Rand is the randomness the generator draws indices and exponents from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// Uint64N returns a uniform value in [0, n).
	Uint64N(n uint64) uint64
}

// RetryError reports exhaustion of the attempt budget together with the
// failure of the final attempt.
type RetryError struct {
	Attempts int
	Last     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrRetryLimitExceeded, e.Attempts, e.Last)
}

func (e *RetryError) Is(target error) bool {
	return target == ErrRetryLimitExceeded
}

func (e *RetryError) Unwrap() error {
	return e.Last
}

// Generator produces validated key material. It is not safe for concurrent
// use; give each goroutine its own.
type Generator struct {
	source      primes.Source
	rand        Rand
	limit       int
	maxAttempts int
	probe       uint64
	inverse     func(e, phi uint64) (uint64, error)
	log         *logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rand = r }
}

// WithDatasetLimit sets the selection bound: p is drawn from the first
// 2*limit primes and q from the first limit.
func WithDatasetLimit(limit int) Option {
	return func(g *Generator) { g.limit = limit }
}

// WithMaxAttempts sets how many full attempts are made before giving up.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) { g.maxAttempts = n }
}

// WithProbe sets the plaintext used by the round-trip self check.
func WithProbe(m uint64) Option {
	return func(g *Generator) { g.probe = m }
}

// WithInverse replaces the modular inverse used to derive d.
func WithInverse(f func(e, phi uint64) (uint64, error)) Option {
	return func(g *Generator) { g.inverse = f }
}

// WithLogger sets the logger attempt failures are reported to.
func WithLogger(l *logging.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a generator drawing primes from src.
func New(src primes.Source, opts ...Option) *Generator {
	g := &Generator{
		source:      src,
		limit:       primes.DefaultLimit,
		maxAttempts: DefaultMaxAttempts,
		probe:       DefaultProbe,
		inverse:     modmath.ModInverse,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.rand == nil {
		g.rand = NewRand()
	}
	if g.log == nil {
		g.log = log.Discard("keygen")
	}
	if g.limit < 1 {
		g.limit = primes.DefaultLimit
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}
	return g
}

// NewRand returns a ChaCha8 generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("keygen: failed to seed random source: %v", err))
	}
	return rand.New(rand.NewChaCha8(seed))
}

// SeededRand returns a deterministic generator for reproducible runs.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate runs attempts until one yields key material that passes its
// self check. Prime source failures abort immediately; validation failures
// restart from prime selection.
func (g *Generator) Generate(ctx context.Context) (*Key, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, err := g.attempt()
		if err == nil {
			key.Attempts = attempt
			key.ID = uuid.New().String()
			g.log.Debugf("key %s accepted after %d attempt(s): n=%d e=%d", key.ID, attempt, key.N, key.E)
			return key, nil
		}

		if errors.Is(err, primes.ErrPrimeNotFound) {
			return nil, err
		}

		lastErr = err
		g.log.Warningf("attempt %d/%d discarded: %v", attempt, g.maxAttempts, err)
	}

	return nil, &RetryError{Attempts: g.maxAttempts, Last: lastErr}
}

func (g *Generator) attempt() (*Key, error) {
	// p and q are drawn from different index ranges.
	i := int(g.rand.Uint64N(uint64(2 * g.limit)))
	j := int(g.rand.Uint64N(uint64(g.limit)))

	p, err := g.source.PrimeAt(i)
	if err != nil {
		return nil, errors.Wrapf(err, "select p at index %d", i)
	}
	q, err := g.source.PrimeAt(j)
	if err != nil {
		return nil, errors.Wrapf(err, "select q at index %d", j)
	}

	n, phi, err := modulus(p, q)
	if err != nil {
		return nil, err
	}

	e := g.chooseExponent(phi)

	d, err := g.inverse(e, phi)
	if err != nil {
		return nil, errors.Wrapf(ErrKeyValidationFailed, "invert e = %d modulo phi = %d: %v", e, phi, err)
	}

	key := &Key{P: p, Q: q, N: n, E: e, D: d, Phi: phi}
	if err := key.Validate(g.probe); err != nil {
		return nil, err
	}
	return key, nil
}

// chooseExponent draws e uniformly from [1, phi) until gcd(e, phi) = 1.
func (g *Generator) chooseExponent(phi uint64) uint64 {
	for {
		e := 1 + g.rand.Uint64N(phi-1)
		if modmath.GCD(e, phi) == 1 {
			return e
		}
	}
}
