//go:build arm64 && !nosimd

package dsp

import "log/slog"

func init() {
	// Runs after dsp.go's init() due to alphabetical source ordering.
	// NEON is baseline on arm64, so no runtime probe is needed.
	registerLaneKernels()
	slog.Debug("dsp: lane kernels registered", "arch", "arm64", "feature", "neon")
}
