package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/session"
)

func textbookReport(t *testing.T) *session.Report {
	t.Helper()
	key, err := keygen.Derive(61, 53, 17)
	require.NoError(t, err)
	key.ID = "key-1"
	key.Attempts = 1

	return &session.Report{
		Elapsed:    1500 * time.Microsecond,
		Key:        key,
		Message:    []byte("A"),
		Ciphertext: []uint64{2790},
		Decrypted:  []byte("A"),
	}
}

func TestBinary(t *testing.T) {
	assert.Equal(t, "00000000000000000000110010100001", Binary(3233))
	assert.Len(t, Binary(0), 32)
	assert.Len(t, Binary(1<<32-1), 32)
	assert.Len(t, Binary(1<<32), 64)
}

func TestNewSessionPrinter(t *testing.T) {
	p, err := NewSessionPrinter("text")
	require.NoError(t, err)
	assert.IsType(t, &TextPrinter{}, p)

	p, err = NewSessionPrinter("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONPrinter{}, p)

	_, err = NewSessionPrinter("table")
	assert.Error(t, err)
}

func TestTextPrinter(t *testing.T) {
	r := textbookReport(t)
	p := &TextPrinter{}

	buf := &bytes.Buffer{}
	require.NoError(t, p.PrintKey(buf, r))
	require.NoError(t, p.PrintMessage(buf, r))

	expected := []string{
		"Total duration of RSA private & public key distribution is 0.001500 sec",
		"n = 3233",
		"e = 17",
		"d = 2753",
		"Euler function f is 3120",
		"GCD(e, f) = 1",
		"(e*d) mod euler_function = 1",
		"binary n = 00000000000000000000110010100001",
		"binary d = 00000000000000000000101011000001",
		"Message is : A",
		"Encrypted message is : 2790",
		"Decrypted message is : A",
	}
	assert.Equal(t, expected, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"))
}

func TestJSONPrinter(t *testing.T) {
	r := textbookReport(t)
	p := &JSONPrinter{}

	buf := &bytes.Buffer{}
	require.NoError(t, p.PrintKey(buf, r))
	assert.Zero(t, buf.Len())
	require.NoError(t, p.PrintMessage(buf, r))

	var out sessionJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "key-1", out.ID)
	assert.Equal(t, uint64(3233), out.N)
	assert.Equal(t, uint64(2753), out.D)
	assert.Equal(t, uint64(3120), out.Phi)
	assert.Equal(t, uint64(1), out.GCD)
	assert.Equal(t, uint64(1), out.Residue)
	assert.Equal(t, []uint64{2790}, out.Ciphertext)
	assert.Equal(t, "A", out.Decrypted)

	r.Message, r.Ciphertext, r.Decrypted = nil, nil, nil
	buf.Reset()
	require.NoError(t, p.PrintMessage(buf, r))
	assert.Contains(t, buf.String(), `"ciphertext": []`)
}
