package health

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
)

// MemoryWarningKey is set on an Up detail once usage crosses the warning
// threshold. The status stays Up so that a Down sibling still yields 503.
const MemoryWarningKey = "warning"

// MemoryIndicatorConfig configures the memory health indicator.
type MemoryIndicatorConfig struct {
	// WarningThreshold is the fraction of MaxAlloc that adds MemoryWarningKey.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the fraction of MaxAlloc that triggers StatusDown.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the maximum expected allocation in bytes.
	// Default: 0 (use the memory obtained from the OS)
	MaxAlloc uint64
}

// MemoryIndicator checks heap usage of the current process.
type MemoryIndicator struct {
	config MemoryIndicatorConfig
}

// NewMemoryIndicator creates a new memory health indicator.
func NewMemoryIndicator(config MemoryIndicatorConfig) *MemoryIndicator {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold + 0.1
		if config.CriticalThreshold > 1 {
			config.CriticalThreshold = 0.99
		}
	}

	return &MemoryIndicator{config: config}
}

// Name returns "memory".
func (m *MemoryIndicator) Name() string {
	return "memory"
}

// Config returns the effective configuration.
func (m *MemoryIndicator) Config() MemoryIndicatorConfig {
	return m.config
}

// Check reads runtime memory statistics.
func (m *MemoryIndicator) Check(ctx context.Context) Detail {
	if ctx.Err() != nil {
		return Down().WithDetail("error", ctx.Err().Error())
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}

	details := map[string]string{
		"alloc_bytes": strconv.FormatUint(stats.Alloc, 10),
		"heap_in_use": strconv.FormatUint(stats.HeapInuse, 10),
		"sys_bytes":   strconv.FormatUint(stats.Sys, 10),
		"num_gc":      strconv.FormatUint(uint64(stats.NumGC), 10),
		"goroutines":  strconv.Itoa(runtime.NumGoroutine()),
	}
	if maxAlloc == 0 {
		return Detail{Status: StatusUp, Details: details}
	}

	usage := float64(stats.Alloc) / float64(maxAlloc)
	details["max_alloc"] = strconv.FormatUint(maxAlloc, 10)
	details["usage_percent"] = fmt.Sprintf("%.1f", usage*100)

	switch {
	case usage >= m.config.CriticalThreshold:
		return Detail{Status: StatusDown, Details: details}
	case usage >= m.config.WarningThreshold:
		details[MemoryWarningKey] = "usage above " + strconv.FormatFloat(m.config.WarningThreshold*100, 'f', 1, 64) + "%"
	}
	return Detail{Status: StatusUp, Details: details}
}
