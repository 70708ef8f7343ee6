package dsp

import "fmt"

// Plane2D is a strided two-dimensional view over a sample buffer: a base
// slice, a row stride in samples, and a width/height extent. Geometry is
// validated once at construction; row access inside the kernels is not
// re-checked beyond the usual slice bounds.
type Plane2D[T any] struct {
	data   []T
	stride int
	width  int
	height int
}

// NewPlane2D wraps data as a width x height view with the given row stride
// (in samples). The buffer must cover the final row.
func NewPlane2D[T any](data []T, width, height, stride int) (Plane2D[T], error) {
	if width <= 0 || height <= 0 || stride < width {
		return Plane2D[T]{}, fmt.Errorf("dsp: bad plane geometry %dx%d with stride %d", width, height, stride)
	}
	if need := (height-1)*stride + width; len(data) < need {
		return Plane2D[T]{}, fmt.Errorf("dsp: plane buffer too small: have %d samples, need %d", len(data), need)
	}
	return Plane2D[T]{data: data, stride: stride, width: width, height: height}, nil
}

// Row returns the samples of row y, limited to the plane width.
func (p *Plane2D[T]) Row(y int) []T {
	off := y * p.stride
	return p.data[off : off+p.width]
}

// Width returns the number of valid samples per row.
func (p *Plane2D[T]) Width() int { return p.width }

// Height returns the number of rows.
func (p *Plane2D[T]) Height() int { return p.height }

// Stride returns the row stride in samples.
func (p *Plane2D[T]) Stride() int { return p.stride }
