// Package dsp provides the pixel-domain post-processing kernels of the AV1
// decoder backend: distance-weighted blending of two inter predictors and
// film grain synthesis (noise blending into luma and chroma planes).
//
// Kernels are pure functions over caller-owned buffers. They are reached
// through per-bit-depth dispatch tables (Funcs8, Funcs10) that are populated
// with the scalar baseline during package initialization and then overridden
// by more capable lane implementations where the CPU supports them. The
// tables follow an init-once-then-read-only lifecycle: all writes happen in
// init functions, which the runtime serializes, so the read path needs no
// locking.
package dsp

// Plane indices within a YUV frame.
const (
	PlaneY = iota
	PlaneU
	PlaneV
	MaxPlanes
)

// Chroma scaling modes, used to index Funcs.BlendNoiseChroma.
const (
	// ChromaModeMultiplier scales noise by a LUT indexed with a per-plane
	// linear combination of luma and chroma samples.
	ChromaModeMultiplier = iota
	// ChromaModeCFL scales noise by the luma LUT indexed with the
	// co-located (averaged) luma samples.
	ChromaModeCFL
)

// Pixel is a final pixel sample: 8 bits per sample, or 10 bits stored in
// uint16.
type Pixel interface {
	~uint8 | ~uint16
}

// Grain is a generated film grain sample, signed, 8- or 16-bit to match the
// pixel width of the frame it is blended into.
type Grain interface {
	~int8 | ~int16
}

// BlendFunc blends two intermediate prediction planes into dest using a
// weight pair summing to 16. Predictions are signed pre-rounding samples;
// strides are in samples. width and height are drawn from the codec block
// size set (powers of two in [4, 128]).
type BlendFunc[P Pixel] func(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []P, destStride int,
)

// BlendNoiseLumaFunc adds scaled grain noise to the luma plane. The scaling
// factor for each sample is looked up (and interpolated above 8 bits) from
// scalingLUT, which must hold ScalingLUTSize+1 values. startHeight selects
// the first noise image row for this tile.
type BlendNoiseLumaFunc[P Pixel, G Grain] func(
	noise *Plane2D[G],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []P, sourceStride int,
	dest []P, destStride int,
)

// BlendNoiseChromaFunc adds scaled grain noise to one chroma plane. The
// luma plane is consulted to derive the scaling index; width and height are
// the luma dimensions, with the chroma extent derived from the subsampling
// factors. startHeight is in luma rows and must be even.
type BlendNoiseChromaFunc[P Pixel, G Grain] func(
	plane int,
	params *FilmGrainParams,
	noise *Plane2D[G],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	sourceY []P, sourceStrideY int,
	sourceUV []P, sourceStrideUV int,
	dest []P, destStride int,
)

// Funcs is the kernel table for one bit depth. Slots are written only during
// package init; later registrations win.
type Funcs[P Pixel, G Grain] struct {
	DistanceWeightedBlend BlendFunc[P]
	BlendNoiseLuma        BlendNoiseLumaFunc[P, G]
	// BlendNoiseChroma is indexed by chroma scaling mode:
	// ChromaModeMultiplier or ChromaModeCFL.
	BlendNoiseChroma [2]BlendNoiseChromaFunc[P, G]
}

// Kernel tables, one per supported bit depth.
var (
	Funcs8  Funcs[uint8, int8]
	Funcs10 Funcs[uint16, int16]
)

// Init registers the scalar baseline for every operation at both bit
// depths. It is called from this package's init(); the architecture files
// override individual slots from their own init() functions, which run
// afterwards because of source-file init ordering within the package.
func Init() {
	Funcs8 = Funcs[uint8, int8]{
		DistanceWeightedBlend: distanceWeightedBlend8,
		BlendNoiseLuma:        blendNoiseLuma8,
		BlendNoiseChroma: [2]BlendNoiseChromaFunc[uint8, int8]{
			ChromaModeMultiplier: blendNoiseChroma8,
			ChromaModeCFL:        blendNoiseChromaCFL8,
		},
	}
	Funcs10 = Funcs[uint16, int16]{
		DistanceWeightedBlend: distanceWeightedBlend10,
		BlendNoiseLuma:        blendNoiseLuma10,
		BlendNoiseChroma: [2]BlendNoiseChromaFunc[uint16, int16]{
			ChromaModeMultiplier: blendNoiseChroma10,
			ChromaModeCFL:        blendNoiseChromaCFL10,
		},
	}
}

// registerLaneKernels overrides every slot with the lane implementations.
// Called by the architecture init files; the kernels themselves are portable
// so conformance tests can exercise the lane tier on any platform.
func registerLaneKernels() {
	Funcs8.DistanceWeightedBlend = distanceWeightedBlendLanes8
	Funcs8.BlendNoiseLuma = blendNoiseLumaLanes8
	Funcs8.BlendNoiseChroma[ChromaModeMultiplier] = blendNoiseChromaLanes8
	Funcs8.BlendNoiseChroma[ChromaModeCFL] = blendNoiseChromaCFLLanes8

	Funcs10.DistanceWeightedBlend = distanceWeightedBlendLanes10
	Funcs10.BlendNoiseLuma = blendNoiseLumaLanes10
	Funcs10.BlendNoiseChroma[ChromaModeMultiplier] = blendNoiseChromaLanes10
	Funcs10.BlendNoiseChroma[ChromaModeCFL] = blendNoiseChromaCFLLanes10
}

func init() {
	Init()
}

// rightShiftWithRounding shifts v right by bits after adding half of the
// shifted-out range. On negative values this rounds half toward positive
// infinity, which is what the rounding-shift and rounding-multiply vector
// instructions modeled by the lane kernels do; the scalar reference uses the
// same rule so all tiers stay bit-identical.
func rightShiftWithRounding(v, bits int) int {
	return (v + (1<<bits)>>1) >> bits
}

// clip3 clamps v to [low, high].
func clip3(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
