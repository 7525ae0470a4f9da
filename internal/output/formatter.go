// Package output renders benchmark results and session reports.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/user/textbookrsa/internal/benchmark"
	"github.com/user/textbookrsa/internal/session"
	"github.com/user/textbookrsa/pkg/sysinfo"
)

type Data struct {
	SystemInfo *sysinfo.SystemInfo
	Results    []benchmark.Result
	Config     benchmark.Config
}

type Formatter interface {
	Format(w io.Writer, data Data) error
}

func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "table":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// NewSessionPrinter returns the printer for a console session report.
func NewSessionPrinter(format string) (session.Printer, error) {
	switch format {
	case "text":
		return &TextPrinter{}, nil
	case "json":
		return &JSONPrinter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// summary totals the keys and time across results.
func summary(results []benchmark.Result) (keys int, total time.Duration) {
	for _, result := range results {
		keys += result.Keys
		total += result.TotalTime
	}
	return keys, total
}
