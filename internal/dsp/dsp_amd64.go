//go:build amd64 && !nosimd

package dsp

import (
	"log/slog"

	"golang.org/x/sys/cpu"
)

func init() {
	// Runs after dsp.go's init() due to alphabetical source ordering, so
	// the scalar baseline is already registered and stays in place when the
	// capability probe fails.
	if !cpu.X86.HasSSE41 {
		return
	}
	registerLaneKernels()
	slog.Debug("dsp: lane kernels registered", "arch", "amd64", "feature", "sse4.1")
}
