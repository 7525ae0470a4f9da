package keygen

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/user/textbookrsa/internal/cipher"
	"github.com/user/textbookrsa/internal/modmath"
)

// DefaultProbe is the plaintext used by the round-trip self check.
const DefaultProbe = 5

var (
	// ErrKeyValidationFailed is returned when key material fails its
	// algebraic or round-trip self check.
	ErrKeyValidationFailed = errors.New("key validation failed")

	// ErrDegeneratePair is returned when the selected primes cannot form a
	// usable modulus: they are equal, or their product overflows.
	ErrDegeneratePair = errors.New("degenerate prime pair")
)

// Key is the material produced by one successful generation.
type Key struct {
	ID  string `json:"id,omitempty"`
	P   uint64 `json:"p"`
	Q   uint64 `json:"q"`
	N   uint64 `json:"n"`
	E   uint64 `json:"e"`
	D   uint64 `json:"d"`
	Phi uint64 `json:"phi"`

	// Attempts is the number of generation attempts, including the
	// successful one.
	Attempts int `json:"attempts,omitempty"`
}

// Public returns the (n, e) half of the key.
func (k *Key) Public() cipher.PublicKey {
	return cipher.PublicKey{N: k.N, E: k.E}
}

// Private returns the (n, d) half of the key.
func (k *Key) Private() cipher.PrivateKey {
	return cipher.PrivateKey{N: k.N, D: k.D}
}

// GCD returns gcd(e, phi), which is 1 for valid keys.
func (k *Key) GCD() uint64 {
	return modmath.GCD(k.E, k.Phi)
}

// Residue returns (e*d) mod phi, which is 1 for valid keys.
func (k *Key) Residue() uint64 {
	return modmath.MulMod(k.E, k.D, k.Phi)
}

// Validate checks that e and phi are coprime, that d inverts e modulo phi
// and that probe survives an encrypt/decrypt round trip.
func (k *Key) Validate(probe uint64) error {
	if k.N == 0 || k.Phi == 0 {
		return errors.Wrap(ErrKeyValidationFailed, "empty modulus")
	}
	if g := k.GCD(); g != 1 {
		return errors.Wrapf(ErrKeyValidationFailed, "gcd(e, phi) = %d", g)
	}
	if r := k.Residue(); r != 1 {
		return errors.Wrapf(ErrKeyValidationFailed, "(e*d) mod phi = %d", r)
	}

	m := probe % k.N
	c := cipher.EncryptUnit(m, k.E, k.N)
	if got := cipher.DecryptUnit(c, k.D, k.N); got != m {
		return errors.Wrapf(ErrKeyValidationFailed, "round trip of %d returned %d", m, got)
	}
	return nil
}

// modulus returns n = p*q and phi = n - p - q + 1 for two distinct primes.
// The product must fit int64 so extended Euclid coefficients cannot
// overflow.
func modulus(p, q uint64) (n, phi uint64, err error) {
	if p == q {
		return 0, 0, errors.Wrapf(ErrDegeneratePair, "p = q = %d", p)
	}
	hi, lo := bits.Mul64(p, q)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, 0, errors.Wrapf(ErrDegeneratePair, "modulus %d*%d overflows", p, q)
	}

	n = lo
	phi = n - p - q + 1
	if phi < 2 {
		return 0, 0, errors.Wrapf(ErrDegeneratePair, "totient %d too small", phi)
	}
	return n, phi, nil
}

// Derive builds and validates key material from caller-chosen primes and
// public exponent.
func Derive(p, q, e uint64) (*Key, error) {
	n, phi, err := modulus(p, q)
	if err != nil {
		return nil, err
	}

	d, err := modmath.ModInverse(e, phi)
	if err != nil {
		return nil, errors.Wrapf(err, "invert e = %d modulo phi = %d", e, phi)
	}

	key := &Key{P: p, Q: q, N: n, E: e, D: d, Phi: phi}
	if err := key.Validate(DefaultProbe); err != nil {
		return nil, err
	}
	return key, nil
}
