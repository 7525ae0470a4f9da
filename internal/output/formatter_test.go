package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/textbookrsa/internal/benchmark"
	"github.com/user/textbookrsa/pkg/sysinfo"
)

func sampleData() Data {
	return Data{
		SystemInfo: &sysinfo.SystemInfo{
			OS:           "linux",
			Architecture: "amd64",
			CPUModel:     "Test CPU",
			CPUCores:     8,
			TotalMemory:  16000000000,
		},
		Results: []benchmark.Result{
			{
				RunID:         "run-1",
				Limit:         25000,
				Iterations:    10,
				Parallel:      2,
				TotalTime:     5 * time.Second,
				AverageTime:   500 * time.Millisecond,
				MinTime:       400 * time.Millisecond,
				MaxTime:       600 * time.Millisecond,
				KeysPerSecond: 4.0,
				Keys:          20,
				MeanAttempts:  1.25,
				Retries:       5,
				MaxModulus:    123456789,
				CPUUsage:      50.5,
				MemoryUsed:    1048576,
				CompletedAt:   time.Now(),
			},
		},
		Config: benchmark.Config{
			Limits:     []int{25000},
			Iterations: 10,
			Parallel:   2,
		},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"table", false},
		{"json", false},
		{"csv", false},
		{"xml", true},
		{"text", true},
	}

	for _, test := range tests {
		_, err := NewFormatter(test.format)
		if test.expectErr {
			assert.Error(t, err, test.format)
		} else {
			assert.NoError(t, err, test.format)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&JSONFormatter{}).Format(buf, sampleData()))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	assert.Contains(t, result, "system_info")
	assert.Contains(t, result, "results")
	assert.Contains(t, result, "config")

	summary, ok := result["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 20.0, summary["total_keys"])
	assert.Equal(t, 4.0, summary["throughput_keys_per_sec"])

	results := result["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "run-1", first["run_id"])
	assert.Equal(t, 1.25, first["mean_attempts"])
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&CSVFormatter{}).Format(buf, sampleData()))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header, row := records[0], records[1]
	require.Len(t, row, len(header))
	assert.Equal(t, "RunID", header[1])
	assert.Equal(t, "run-1", row[1])
	assert.Equal(t, "25000", row[2])
	assert.Equal(t, "5000.00", row[5])
	assert.Equal(t, "Test CPU", row[len(row)-2])
}

func TestCSVFormatterWithoutSystemInfo(t *testing.T) {
	data := sampleData()
	data.SystemInfo = nil

	buf := &bytes.Buffer{}
	require.NoError(t, (&CSVFormatter{}).Format(buf, data))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records[1], len(records[0]))
}

func TestTableFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&TableFormatter{}).Format(buf, sampleData()))

	output := buf.String()
	assert.Contains(t, output, "Key Generation Benchmark")
	assert.Contains(t, output, "Test CPU")
	assert.Contains(t, output, "25000")
	assert.Contains(t, output, "123456789")
	assert.Contains(t, output, "Summary")
	assert.Contains(t, output, "Total keys generated: 20")
	assert.True(t, strings.Contains(output, "Overall throughput: 4.00 keys/sec"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0.50µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{150 * time.Second, "2.50m"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, formatDuration(test.duration))
	}
}
