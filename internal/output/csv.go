package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

type CSVFormatter struct{}

func (c *CSVFormatter) Format(w io.Writer, data Data) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Timestamp",
		"RunID",
		"Limit",
		"Iterations",
		"Parallel",
		"TotalTime(ms)",
		"AverageTime(ms)",
		"MinTime(ms)",
		"MaxTime(ms)",
		"StdDev(ms)",
		"KeysPerSecond",
		"Keys",
		"MeanAttempts",
		"Retries",
		"MaxModulus",
		"CPUUsage(%)",
		"MemoryUsed(MB)",
		"Errors",
		"OS",
		"Architecture",
		"CPUModel",
		"CPUCores",
	}

	if err := writer.Write(header); err != nil {
		return err
	}

	var host hostColumns
	if data.SystemInfo != nil {
		host = hostColumns{
			data.SystemInfo.OS,
			data.SystemInfo.Architecture,
			data.SystemInfo.CPUModel,
			fmt.Sprintf("%d", data.SystemInfo.CPUCores),
		}
	}

	for _, result := range data.Results {
		row := []string{
			result.CompletedAt.Format(time.RFC3339),
			result.RunID,
			fmt.Sprintf("%d", result.Limit),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Parallel),
			millis(result.TotalTime),
			millis(result.AverageTime),
			millis(result.MinTime),
			millis(result.MaxTime),
			millis(result.StdDev),
			fmt.Sprintf("%.2f", result.KeysPerSecond),
			fmt.Sprintf("%d", result.Keys),
			fmt.Sprintf("%.2f", result.MeanAttempts),
			fmt.Sprintf("%d", result.Retries),
			fmt.Sprintf("%d", result.MaxModulus),
			fmt.Sprintf("%.2f", result.CPUUsage),
			fmt.Sprintf("%.2f", float64(result.MemoryUsed)/(1024*1024)),
			fmt.Sprintf("%d", result.Errors),
		}

		if err := writer.Write(append(row, host[:]...)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type hostColumns [4]string

func millis(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}
