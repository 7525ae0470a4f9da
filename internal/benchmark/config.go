package benchmark

import (
	"context"
	"time"

	"github.com/user/textbookrsa/internal/keygen"
)

type Config struct {
	Limits       []int  `json:"limits"`
	Iterations   int    `json:"iterations"`
	Parallel     int    `json:"parallel"`
	MaxAttempts  int    `json:"max_attempts"`
	Seed         uint64 `json:"seed,omitempty"`
	Seeded       bool   `json:"seeded"`
	ShowProgress bool   `json:"show_progress"`
	Timeout      int    `json:"timeout"`
	Verbose      bool   `json:"verbose"`
}

type Result struct {
	RunID         string        `json:"run_id"`
	Limit         int           `json:"limit"`
	Iterations    int           `json:"iterations"`
	Parallel      int           `json:"parallel"`
	TotalTime     time.Duration `json:"total_time"`
	AverageTime   time.Duration `json:"average_time"`
	MinTime       time.Duration `json:"min_time"`
	MaxTime       time.Duration `json:"max_time"`
	StdDev        time.Duration `json:"std_dev"`
	KeysPerSecond float64       `json:"keys_per_second"`
	Keys          int           `json:"keys"`
	MeanAttempts  float64       `json:"mean_attempts"`
	Retries       int           `json:"retries"`
	MaxModulus    uint64        `json:"max_modulus"`
	CPUUsage      float64       `json:"cpu_usage"`
	MemoryUsed    uint64        `json:"memory_used"`
	Errors        int           `json:"errors"`
	CompletedAt   time.Time     `json:"completed_at"`
}

// KeyGenerator is the part of keygen.Generator the runner drives.
type KeyGenerator interface {
	Generate(ctx context.Context) (*keygen.Key, error)
}
