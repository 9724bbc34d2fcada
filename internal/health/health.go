// Package health pings the backing databases and samples host load.
package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const pingTimeout = 2 * time.Second

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type named struct {
	name string
	p    Pinger
}

type HealthChecker struct {
	deps []named
}

type HealthStatus struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyHealth `json:"dependencies"`
	Host         *HostStats                  `json:"host,omitempty"`
}

type DependencyHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// Add registers a dependency. A nil Pinger is skipped so optional
// dependencies can be passed unconditionally.
func (h *HealthChecker) Add(name string, p Pinger) *HealthChecker {
	if p != nil {
		h.deps = append(h.deps, named{name: name, p: p})
	}
	return h
}

// CheckBasic pings every dependency, or only those listed in only.
func (h *HealthChecker) CheckBasic(ctx context.Context, only ...string) HealthStatus {
	status := HealthStatus{Status: "healthy", Dependencies: make(map[string]DependencyHealth)}
	for _, d := range h.deps {
		if len(only) > 0 && !contains(only, d.name) {
			continue
		}
		dh := check(ctx, d.p)
		if dh.Status != "healthy" {
			status.Status = "unhealthy"
		}
		status.Dependencies[d.name] = dh
	}
	return status
}

// CheckDetailed is CheckBasic plus host CPU, memory and root disk usage.
func (h *HealthChecker) CheckDetailed(ctx context.Context) HealthStatus {
	status := h.CheckBasic(ctx)
	status.Host = hostStats(ctx)
	return status
}

func check(ctx context.Context, p Pinger) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	dh := DependencyHealth{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		dh.Status = "unhealthy"
		dh.Error = err.Error()
	}
	return dh
}

func hostStats(ctx context.Context) *HostStats {
	var s HostStats
	if pct, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		s.DiskPercent = du.UsedPercent
	}
	return &s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
