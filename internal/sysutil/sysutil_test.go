package sysutil

import (
	"errors"
	"runtime"
	"testing"

	"github.com/prometheus/procfs"
	"github.com/rs/zerolog"
)

func TestSetLogLevel_AllVariants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel}, // case + trim
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel}, // empty -> info
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel}, // alias
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel}, // default
	}

	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	// no args -> ""
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q; want \"\"", got)
	}
	// only empties -> ""
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(empties) = %q; want \"\"", got)
	}
	// picks first non-empty (preserves original spacing)
	if got := FirstNonEmpty("   ", "  hello  ", "world"); got != "  hello  " {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "  hello  ")
	}
	// first already non-empty
	if got := FirstNonEmpty("alpha", "beta"); got != "alpha" {
		t.Fatalf("FirstNonEmpty(...) = %q; want %q", got, "alpha")
	}
}

func TestReadStats_Basics(t *testing.T) {
	st := ReadStats()
	if st.CPUCount < 1 {
		t.Fatalf("CPUCount = %d; want >= 1", st.CPUCount)
	}
	if st.Platform != runtime.GOOS {
		t.Fatalf("Platform = %q; want %q", st.Platform, runtime.GOOS)
	}
	if st.Memory.RSS == 0 || st.Memory.HeapTotal == 0 {
		t.Fatalf("memory stats must be populated: %+v", st.Memory)
	}
	if st.Memory.HeapUsed > st.Memory.HeapTotal {
		t.Fatalf("heap used %d exceeds heap total %d", st.Memory.HeapUsed, st.Memory.HeapTotal)
	}
}

func TestReadStats_NoProcFallsBack(t *testing.T) {
	orig := procFS
	t.Cleanup(func() { procFS = orig })
	procFS = func() (procfs.FS, error) { return procfs.FS{}, errors.New("no /proc") }

	st := ReadStats()
	if st.LoadAverage != [3]float64{} {
		t.Fatalf("load average must be zero without /proc, got %v", st.LoadAverage)
	}
	if st.Memory.RSS == 0 {
		t.Fatalf("RSS must fall back to runtime memory, got 0")
	}
}
