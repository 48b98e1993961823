package sysutil

import (
	"runtime"

	"github.com/prometheus/procfs"
)

// MemoryStats reports process memory in bytes.
type MemoryStats struct {
	RSS       uint64 `json:"rss" example:"41234432"`
	HeapUsed  uint64 `json:"heapUsed" example:"5120000"`
	HeapTotal uint64 `json:"heapTotal" example:"8388608"`
}

// Stats is a snapshot of process and host resource usage.
type Stats struct {
	Memory      MemoryStats
	CPUCount    int
	Platform    string
	LoadAverage [3]float64
}

// procFS is swapped in tests.
var procFS = procfs.NewDefaultFS

// ReadStats samples memory, CPU count and load average. On hosts without
// /proc, RSS falls back to the memory obtained from the OS by the Go runtime
// and the load average is all zeros.
func ReadStats() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	st := Stats{
		Memory: MemoryStats{
			RSS:       ms.Sys,
			HeapUsed:  ms.HeapAlloc,
			HeapTotal: ms.HeapSys,
		},
		CPUCount: runtime.NumCPU(),
		Platform: runtime.GOOS,
	}

	fs, err := procFS()
	if err != nil {
		return st
	}
	if self, err := fs.Self(); err == nil {
		if ps, err := self.Stat(); err == nil && ps.ResidentMemory() > 0 {
			st.Memory.RSS = uint64(ps.ResidentMemory())
		}
	}
	if la, err := fs.LoadAvg(); err == nil {
		st.LoadAverage = [3]float64{la.Load1, la.Load5, la.Load15}
	}
	return st
}
