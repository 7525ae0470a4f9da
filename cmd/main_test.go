package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/primes"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSessionText(t *testing.T) {
	stdout, _, err := execute(t, "HELLO\n", "--seed", "7")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "Total duration of RSA private & public key distribution is "))
	assert.True(t, strings.HasPrefix(lines[1], "n = "))
	assert.Equal(t, "GCD(e, f) = 1", lines[5])
	assert.Equal(t, "(e*d) mod euler_function = 1", lines[6])
	assert.Equal(t, "Insert message to encrypt:", lines[9])
	assert.Equal(t, "Message is : HELLO", lines[10])
	assert.Equal(t, "Decrypted message is : HELLO", lines[12])
}

func TestSessionJSONIsDeterministicWithSeed(t *testing.T) {
	run := func() map[string]any {
		stdout, stderr, err := execute(t, "", "--seed", "11", "--message", "hi", "--format", "json", "--limit", "100")
		require.NoError(t, err)
		assert.NotContains(t, stderr, "Insert message")

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		return out
	}

	a, b := run(), run()
	assert.Equal(t, a["n"], b["n"])
	assert.Equal(t, a["d"], b["d"])
	assert.Equal(t, a["ciphertext"], b["ciphertext"])
	assert.Equal(t, "hi", a["decrypted"])
	assert.NotEqual(t, a["id"], b["id"])
}

func TestSessionWithDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primes.txt")
	require.NoError(t, os.WriteFile(path, []byte("101 103 107 109\n113 127 131 137\n"), 0o600))

	for _, scan := range []string{"false", "true"} {
		stdout, _, err := execute(t, "", "--primes", path, "--scan="+scan, "--limit", "4", "--message", "ok")
		require.NoError(t, err, "scan=%s", scan)
		assert.Contains(t, stdout, "Decrypted message is : ok")
	}

	_, _, err := execute(t, "", "--primes", path, "--limit", "5", "--message", "ok")
	require.ErrorIs(t, err, primes.ErrPrimeNotFound)

	_, _, err = execute(t, "", "--primes", filepath.Join(t.TempDir(), "missing"), "--scan", "--message", "ok")
	require.Error(t, err)
}

func TestSessionErrors(t *testing.T) {
	_, _, err := execute(t, "", "--message", strings.Repeat("x", 1025))
	require.Error(t, err)

	_, _, err = execute(t, "", "--format", "yaml", "--message", "x")
	require.Error(t, err)

	_, _, err = execute(t, "", "--log-level", "LOUD", "--message", "x")
	require.Error(t, err)

	_, _, err = execute(t, "", "extra")
	require.Error(t, err)
}

func TestVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "", "--seed", "1", "--message", "x", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "session:")
	assert.NotContains(t, stdout, "session:")
}

func TestCheck(t *testing.T) {
	stdout, _, err := execute(t, "", "check", "--p", "61", "--q", "53", "--e", "17", "--message", "A")
	require.NoError(t, err)

	assert.Contains(t, stdout, "n = 3233\n")
	assert.Contains(t, stdout, "d = 2753\n")
	assert.Contains(t, stdout, "Euler function f is 3120\n")
	assert.Contains(t, stdout, "✓ all 256 byte values survive a round trip")
	assert.Contains(t, stdout, "Encrypted message is : 2790\n")
	assert.Contains(t, stdout, "Decrypted message is : A\n")
}

func TestCheckErrors(t *testing.T) {
	_, _, err := execute(t, "", "check", "--p", "61", "--q", "61", "--e", "17")
	require.ErrorIs(t, err, keygen.ErrDegeneratePair)

	_, _, err = execute(t, "", "check", "--p", "61", "--q", "53", "--e", "3")
	require.Error(t, err)

	_, _, err = execute(t, "", "check", "--p", "61")
	require.Error(t, err)
}

func TestBench(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bench.json")
	_, _, err := execute(t, "", "bench", "-i", "3", "-p", "2", "--limits", "10,20", "--progress=false", "-f", "json", "-o", out, "--seed", "5")
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var report struct {
		Results []struct {
			Limit int `json:"limit"`
			Keys  int `json:"keys"`
		} `json:"results"`
		Summary struct {
			TotalKeys int `json:"total_keys"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Len(t, report.Results, 2)
	assert.Equal(t, 10, report.Results[0].Limit)
	assert.Equal(t, 20, report.Results[1].Limit)
	assert.Equal(t, 12, report.Summary.TotalKeys)
}

func TestBenchTable(t *testing.T) {
	stdout, _, err := execute(t, "", "bench", "-i", "2", "--limit", "50", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Key Generation Benchmark")
	assert.Contains(t, stdout, "Total keys generated: 2")

	_, _, err = execute(t, "", "bench", "-f", "xml")
	require.Error(t, err)
}
