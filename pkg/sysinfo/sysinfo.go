// Package sysinfo describes the host a benchmark ran on.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemInfo struct {
	OS            string  `json:"os"`
	Architecture  string  `json:"architecture"`
	CPUModel      string  `json:"cpu_model"`
	CPUCores      int     `json:"cpu_cores"`
	CPUThreads    int     `json:"cpu_threads"`
	TotalMemory   uint64  `json:"total_memory"`
	GoVersion     string  `json:"go_version"`
	Hostname      string  `json:"hostname"`
	Platform      string  `json:"platform"`
	KernelVersion string  `json:"kernel_version,omitempty"`
	LoadAverage   float64 `json:"load_average"`
}

// Collect gathers what gopsutil can report. Probes that fail leave their
// fields zero; only the runtime fields are guaranteed.
func Collect(ctx context.Context) (*SystemInfo, error) {
	info := &SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		GoVersion:    runtime.Version(),
		CPUCores:     runtime.NumCPU(),
	}

	if cpuInfo, err := cpu.InfoWithContext(ctx); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = strings.TrimSpace(cpuInfo[0].ModelName)
	}

	if threads, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUThreads = threads
	}

	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalMemory = memInfo.Total
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hostInfo.Hostname
		info.Platform = hostInfo.Platform
		info.KernelVersion = hostInfo.KernelVersion
	}

	if loadAvg, err := load.AvgWithContext(ctx); err == nil {
		info.LoadAverage = loadAvg.Load1
	}

	return info, ctx.Err()
}

// Summary is a one-line description for log output.
func (s *SystemInfo) Summary() string {
	model := s.CPUModel
	if model == "" {
		model = "unknown cpu"
	}
	return fmt.Sprintf("%s/%s %s, %d cores, %.1f GB, %s",
		s.OS, s.Architecture, model, s.CPUCores,
		float64(s.TotalMemory)/(1024*1024*1024), s.GoVersion)
}
