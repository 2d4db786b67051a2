// Package server reports host telemetry for the health endpoint.
// It uses gopsutil for cross-platform system information.
package server

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostStatus is a point-in-time snapshot of the machine serving the deck.
// Fields that cannot be read on the current platform stay zero.
type HostStatus struct {
	Hostname       string  `json:"hostname"`
	OS             string  `json:"os"`
	UptimeSeconds  uint64  `json:"uptime_seconds"`
	CPUCount       int     `json:"cpu_count"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	Goroutines     int     `json:"goroutines"`
}

func collectHost() HostStatus {
	st := HostStatus{
		OS:         runtime.GOOS,
		Goroutines: runtime.NumGoroutine(),
	}

	if h, err := os.Hostname(); err == nil {
		st.Hostname = h
	}

	if info, err := host.Info(); err == nil {
		st.UptimeSeconds = info.Uptime
		if info.Platform != "" {
			st.OS = info.Platform + " " + info.PlatformVersion
		}
	}

	if n, err := cpu.Counts(true); err == nil {
		st.CPUCount = n
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		st.MemUsedPercent = vm.UsedPercent
	}
	return st
}
