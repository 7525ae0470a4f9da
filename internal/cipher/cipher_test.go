package cipher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// p = 61, q = 53, e = 17, d = 2753
var (
	textbookPub  = PublicKey{N: 3233, E: 17}
	textbookPriv = PrivateKey{N: 3233, D: 2753}
)

func TestUnitRoundTripTextbook(t *testing.T) {
	for m := uint64(0); m < textbookPub.N; m++ {
		c := EncryptUnit(m, textbookPub.E, textbookPub.N)
		require.Less(t, c, textbookPub.N)
		require.Equal(t, m, DecryptUnit(c, textbookPriv.D, textbookPriv.N), "m=%d", m)
	}

	assert.Equal(t, uint64(2790), EncryptUnit(65, 17, 3233))
	assert.Equal(t, uint64(65), DecryptUnit(2790, 2753, 3233))
}

func TestEncryptDecryptMessage(t *testing.T) {
	tests := []string{"HELLO", "", "a", "The quick brown fox", string([]byte{0, 1, 127, 128, 255})}

	for _, msg := range tests {
		units, err := Encrypt(textbookPub, []byte(msg))
		require.NoError(t, err)
		require.Len(t, units, len(msg))

		got, err := Decrypt(textbookPriv, units)
		require.NoError(t, err)
		assert.Equal(t, []byte(msg), got)
	}
}

func TestEncryptKeepsFullWidth(t *testing.T) {
	units, err := Encrypt(textbookPub, []byte("A"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{2790}, units)
	assert.Greater(t, units[0], uint64(0xff))
}

func TestEncryptRejectsUnitsAboveModulus(t *testing.T) {
	small := PublicKey{N: 35, E: 5}

	_, err := Encrypt(small, []byte("HI"))
	require.ErrorIs(t, err, ErrUnitOutOfRange)

	units, err := Encrypt(small, []byte{3, 34})
	require.NoError(t, err)
	assert.Len(t, units, 2)

	_, err = Encrypt(PublicKey{}, []byte("x"))
	require.ErrorIs(t, err, ErrUnitOutOfRange)
}

func TestEncryptRejectsLongMessage(t *testing.T) {
	_, err := Encrypt(textbookPub, []byte(strings.Repeat("x", MaxMessageLen+1)))
	require.ErrorIs(t, err, ErrMessageTooLong)

	units, err := Encrypt(textbookPub, []byte(strings.Repeat("x", MaxMessageLen)))
	require.NoError(t, err)
	assert.Len(t, units, MaxMessageLen)
}

func TestDecryptRejectsWideUnits(t *testing.T) {
	// 3000 is its own image under the identity exponent.
	_, err := Decrypt(PrivateKey{N: 3233, D: 1}, []uint64{3000})
	require.ErrorIs(t, err, ErrUnitOutOfRange)

	_, err = Decrypt(PrivateKey{}, []uint64{1})
	require.ErrorIs(t, err, ErrUnitOutOfRange)
}

func TestFormatParseUnits(t *testing.T) {
	units := []uint64{2790, 0, 3232, 1}
	s := FormatUnits(units)
	assert.Equal(t, "2790 0 3232 1", s)

	parsed, err := ParseUnits(s)
	require.NoError(t, err)
	assert.Equal(t, units, parsed)

	assert.Equal(t, "", FormatUnits(nil))

	_, err = ParseUnits("12 x")
	assert.Error(t, err)
}
