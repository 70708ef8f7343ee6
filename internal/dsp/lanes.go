package dsp

// Lane helpers shared by the width-specialized kernels.
//
// A lane is a fixed group of 8 samples widened to int16, mirroring the
// 128-bit registers the upstream vector kernels operate on. Expressing the
// hot loops over fixed-size arrays keeps them free of per-sample bounds
// checks and lets the compiler unroll and vectorize them.

// laneWidth is the natural vector width of the lane kernels, in samples.
const laneWidth = 8

// lane holds 8 samples at intermediate (int16) precision.
type lane [laneWidth]int16

// laneSample is any sample type a lane can be loaded from.
type laneSample interface {
	Pixel | Grain
}

// loadLane widens 8 consecutive samples to intermediate precision.
func loadLane[T laneSample](src []T) (v lane) {
	_ = src[laneWidth-1]
	for i := range v {
		v[i] = int16(src[i])
	}
	return v
}

// storeLane clips the first n lane values to [low, high] and narrows them
// into dst. Only the first n outputs are written so a padded edge lane never
// stores past the valid portion of a row.
func storeLane[P Pixel](dst []P, v lane, low, high int16, n int) {
	_ = dst[n-1]
	for i := 0; i < n; i++ {
		x := v[i]
		if x < low {
			x = low
		}
		if x > high {
			x = high
		}
		dst[i] = P(x)
	}
}

func addLane(a, b lane) (r lane) {
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

func subLane(a, b lane) (r lane) {
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

// mulhrs is the rounding Q15 multiply the vector kernels are built on:
// per lane, (a*b + 2^14) >> 15 computed at 32-bit precision and narrowed.
func mulhrs(a, b lane) (r lane) {
	for i := range r {
		r[i] = int16((int32(a[i])*int32(b[i]) + (1 << 14)) >> 15)
	}
	return r
}

// padLane implements the shared right-edge strategy: the remaining valid
// samples of a row are copied into buf, the last valid sample is replicated
// into the following slot (so pairwise averages and LUT+1 reads stay
// defined), and the rest of buf is zeroed. The caller computes a full lane
// from buf and stores only the valid outputs.
func padLane[T laneSample](buf, tail []T, last T) {
	for i := range buf {
		buf[i] = 0
	}
	n := copy(buf, tail)
	if n < len(buf) {
		buf[n] = last
	}
}
