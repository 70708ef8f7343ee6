// Package gav1 provides the pixel-domain post-processing kernels of an AV1
// decoder backend in pure Go: distance-weighted blending of two inter
// predictors and film grain synthesis.
//
// The kernels are runtime-dispatched: a scalar reference implementation is
// registered at startup and overridden by wider lane implementations where
// the CPU supports them. Every registered implementation produces output
// identical to the scalar reference bit for bit, as the codec requires.
//
// All functions operate on caller-owned buffers described by a base slice
// and a row stride in samples. They allocate nothing, keep no state between
// calls, and are safe to invoke concurrently from multiple workers as long
// as destination regions do not overlap and sources are not mutated during
// the call. Tiling and scheduling are the caller's responsibility.
//
// Two bit depths are supported, selected by function suffix: 8-bit samples
// in []uint8 with int8 grain, and 10-bit samples in []uint16 with int16
// grain. The autoregressive model that generates the grain noise itself,
// and the decoder stages that produce the predictor buffers, are external
// to this module.
package gav1
