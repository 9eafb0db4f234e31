// Package sysmon provides system-wide CPU and memory usage sampling for the
// dashboard's metrics panel.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Goroutines int
}

// Sample collects a single snapshot. CPU uses interval=0 (delta since the
// previous call), so the first reading of a process is 0. Sampling errors
// leave the corresponding field at zero; a dashboard tick is not worth
// failing over.
func Sample() Stats {
	s := Stats{Goroutines: runtime.NumGoroutine()}
	if cpuPcts, err := cpu.Percent(0, false); err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}
