// Package cipher applies textbook RSA to a message one byte at a time.
//
// Each byte is encrypted independently with no padding or chaining. A
// ciphertext unit keeps the full width of m^e mod n instead of being
// narrowed back to a byte, so the ciphertext of an n-bit key is a sequence
// of integers below n. Decryption only recovers bytes smaller than n.
package cipher

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/user/textbookrsa/internal/modmath"
)

// MaxMessageLen is the longest message Encrypt accepts.
const MaxMessageLen = 1024

var (
	// ErrMessageTooLong is returned for messages over MaxMessageLen bytes.
	ErrMessageTooLong = errors.New("message too long")

	// ErrUnitOutOfRange is returned when a plaintext byte is not below the
	// modulus, or a decrypted unit does not fit in a byte.
	ErrUnitOutOfRange = errors.New("message unit out of range")
)

// PublicKey is the encryption half of a key pair.
type PublicKey struct {
	N uint64
	E uint64
}

// PrivateKey is the decryption half of a key pair.
type PrivateKey struct {
	N uint64
	D uint64
}

// EncryptUnit returns m^e mod n.
func EncryptUnit(m, e, n uint64) uint64 {
	return modmath.ModPow(m, e, n)
}

// DecryptUnit returns c^d mod n.
func DecryptUnit(c, d, n uint64) uint64 {
	return modmath.ModPow(c, d, n)
}

// Encrypt encrypts every byte of msg independently.
func Encrypt(pub PublicKey, msg []byte) ([]uint64, error) {
	if len(msg) > MaxMessageLen {
		return nil, errors.Wrapf(ErrMessageTooLong, "%d bytes, limit %d", len(msg), MaxMessageLen)
	}
	if pub.N == 0 {
		return nil, errors.Wrap(ErrUnitOutOfRange, "zero modulus")
	}

	units := make([]uint64, len(msg))
	for i, b := range msg {
		m := uint64(b)
		if m >= pub.N {
			// m^e mod n cannot be inverted back to m once m >= n.
			return nil, errors.Wrapf(ErrUnitOutOfRange, "byte %d at offset %d is not below modulus %d", b, i, pub.N)
		}
		units[i] = EncryptUnit(m, pub.E, pub.N)
	}
	return units, nil
}

// Decrypt reverses Encrypt.
func Decrypt(priv PrivateKey, units []uint64) ([]byte, error) {
	if priv.N == 0 {
		return nil, errors.Wrap(ErrUnitOutOfRange, "zero modulus")
	}

	msg := make([]byte, len(units))
	for i, c := range units {
		m := DecryptUnit(c, priv.D, priv.N)
		if m > 0xff {
			return nil, errors.Wrapf(ErrUnitOutOfRange, "unit %d at offset %d decrypts to %d", c, i, m)
		}
		msg[i] = byte(m)
	}
	return msg, nil
}

// FormatUnits renders ciphertext units as space-separated decimals.
func FormatUnits(units []uint64) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = strconv.FormatUint(u, 10)
	}
	return strings.Join(parts, " ")
}

// ParseUnits reverses FormatUnits.
func ParseUnits(s string) ([]uint64, error) {
	fields := strings.Fields(s)
	units := make([]uint64, len(fields))
	for i, f := range fields {
		u, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "unit %d", i)
		}
		units[i] = u
	}
	return units, nil
}
