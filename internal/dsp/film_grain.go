package dsp

// Film grain synthesis, scalar tier.
//
// Grain is blended in after reconstruction: each output sample is the source
// sample plus a noise sample scaled by a luminance-dependent factor. The
// factor comes from a per-frame scaling lookup table indexed by the source
// intensity (luma), by the co-located average luma (chroma-from-luma mode),
// or by a per-plane linear combination of luma and chroma (multiplier mode).

// ScalingLUTSize is the number of addressable entries in a scaling lookup
// table. Slices passed to the kernels hold one extra trailing entry, a
// replica of the last value, so the interpolated path above 8 bits can read
// lut[index+1] without branching.
const ScalingLUTSize = 256

// FilmGrainParams is the per-frame grain configuration consumed by the blend
// kernels. Field names follow the AV1 film grain syntax elements.
type FilmGrainParams struct {
	// ChromaScaling is the scaling shift applied to every scaled noise
	// sample, in [8, 11]. Despite the syntax element's name it applies to
	// luma as well.
	ChromaScaling int
	// ChromaScalingFromLuma selects the chroma-from-luma mode: U and V
	// reuse the luma LUT, indexed by co-located luma, and the per-plane
	// offset/multiplier fields below are unused.
	ChromaScalingFromLuma bool

	// Multiplier-mode parameters, one triple per chroma plane. Offsets are
	// in [-256, 255], multipliers in [-128, 127].
	UOffset, VOffset                 int
	ULumaMultiplier, VLumaMultiplier int
	UMultiplier, VMultiplier         int
}

// planeParams returns the multiplier-mode triple for a chroma plane.
func (p *FilmGrainParams) planeParams(plane int) (offset, lumaMultiplier, multiplier int) {
	if plane == PlaneU {
		return p.UOffset, p.ULumaMultiplier, p.UMultiplier
	}
	return p.VOffset, p.VLumaMultiplier, p.VMultiplier
}

// scalingFromLUT resolves a sample intensity to its noise scaling factor.
// At 8 bits the table is indexed directly. Above 8 bits the table holds
// every 4th sample point, so the value is split into a coarse index and a
// 2-bit remainder and the factor is linearly interpolated between adjacent
// entries with correct rounding. This matches the lane formulation
// mulhrs(end-start, remainder<<13) bit for bit.
func scalingFromLUT(bitdepth int, lut []uint8, index int) int {
	if bitdepth == 8 {
		return int(lut[index])
	}
	q := index >> 2
	start := int(lut[q])
	end := int(lut[q+1])
	return start + rightShiftWithRounding((end-start)*(index&3), 2)
}

// averageLuma returns the luma intensity co-located with a chroma sample:
// the rounded average of the two neighbors when horizontally subsampled,
// otherwise the single co-located sample. At the right edge of an odd-width
// plane the missing neighbor is the replicated last sample, matching the
// padded lane path.
func averageLuma[P Pixel](lumaRow []P, lumaX, width, subsamplingX int) int {
	if subsamplingX == 0 {
		return int(lumaRow[lumaX])
	}
	right := lumaX + 1
	if right > width-1 {
		right = width - 1
	}
	return (int(lumaRow[lumaX]) + int(lumaRow[right]) + 1) >> 1
}

// blendNoiseLuma is the scalar reference for the luma blend.
func blendNoiseLuma[P Pixel, G Grain](
	bitdepth int,
	noise *Plane2D[G],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []P, sourceStride int,
	dest []P, destStride int,
) {
	for y := 0; y < height; y++ {
		src := source[y*sourceStride : y*sourceStride+width]
		dst := dest[y*destStride : y*destStride+width]
		noiseRow := noise.Row(y + startHeight)
		for x := 0; x < width; x++ {
			orig := int(src[x])
			scaling := scalingFromLUT(bitdepth, scalingLUT, orig)
			n := rightShiftWithRounding(scaling*int(noiseRow[x]), scalingShift)
			dst[x] = P(clip3(orig+n, minValue, maxValue))
		}
	}
}

// blendNoiseChromaCFL is the scalar reference for the chroma-from-luma mode:
// the luma LUT is indexed by the co-located average luma, not by the chroma
// sample itself.
func blendNoiseChromaCFL[P Pixel, G Grain](
	bitdepth int,
	noise *Plane2D[G],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingShift int,
	scalingLUT []uint8,
	sourceY []P, sourceStrideY int,
	sourceUV []P, sourceStrideUV int,
	dest []P, destStride int,
) {
	chromaWidth := (width + subsamplingX) >> subsamplingX
	chromaHeight := (height + subsamplingY) >> subsamplingY
	startHeight >>= subsamplingY
	for y := 0; y < chromaHeight; y++ {
		lumaRow := sourceY[(y<<subsamplingY)*sourceStrideY:]
		src := sourceUV[y*sourceStrideUV : y*sourceStrideUV+chromaWidth]
		dst := dest[y*destStride : y*destStride+chromaWidth]
		noiseRow := noise.Row(y + startHeight)
		for x := 0; x < chromaWidth; x++ {
			avg := averageLuma(lumaRow, x<<subsamplingX, width, subsamplingX)
			orig := int(src[x])
			scaling := scalingFromLUT(bitdepth, scalingLUT, avg)
			n := rightShiftWithRounding(scaling*int(noiseRow[x]), scalingShift)
			dst[x] = P(clip3(orig+n, minValue, maxValue))
		}
	}
}

// blendNoiseChroma is the scalar reference for the multiplier mode: the LUT
// index is a per-plane linear combination of the average luma and the chroma
// sample, clipped to the intermediate pixel range.
func blendNoiseChroma[P Pixel, G Grain](
	bitdepth int,
	noise *Plane2D[G],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingShift int,
	chromaOffset, lumaMultiplier, chromaMultiplier int,
	scalingLUT []uint8,
	sourceY []P, sourceStrideY int,
	sourceUV []P, sourceStrideUV int,
	dest []P, destStride int,
) {
	chromaWidth := (width + subsamplingX) >> subsamplingX
	chromaHeight := (height + subsamplingY) >> subsamplingY
	maxPixel := 1<<bitdepth - 1
	offset := chromaOffset << (bitdepth - 8)
	startHeight >>= subsamplingY
	for y := 0; y < chromaHeight; y++ {
		lumaRow := sourceY[(y<<subsamplingY)*sourceStrideY:]
		src := sourceUV[y*sourceStrideUV : y*sourceStrideUV+chromaWidth]
		dst := dest[y*destStride : y*destStride+chromaWidth]
		noiseRow := noise.Row(y + startHeight)
		for x := 0; x < chromaWidth; x++ {
			avg := averageLuma(lumaRow, x<<subsamplingX, width, subsamplingX)
			orig := int(src[x])
			combined := avg*lumaMultiplier + orig*chromaMultiplier
			merged := clip3((combined>>6)+offset, 0, maxPixel)
			scaling := scalingFromLUT(bitdepth, scalingLUT, merged)
			n := rightShiftWithRounding(scaling*int(noiseRow[x]), scalingShift)
			dst[x] = P(clip3(orig+n, minValue, maxValue))
		}
	}
}

// --- dispatch-table instantiations ---

func blendNoiseLuma8(
	noise *Plane2D[int8],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []uint8, sourceStride int,
	dest []uint8, destStride int,
) {
	blendNoiseLuma(8, noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
}

func blendNoiseLuma10(
	noise *Plane2D[int16],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []uint16, sourceStride int,
	dest []uint16, destStride int,
) {
	blendNoiseLuma(10, noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
}

func blendNoiseChromaCFL8(
	plane int,
	params *FilmGrainParams,
	noise *Plane2D[int8],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	sourceY []uint8, sourceStrideY int,
	sourceUV []uint8, sourceStrideUV int,
	dest []uint8, destStride int,
) {
	_ = plane
	blendNoiseChromaCFL(8, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChromaCFL10(
	plane int,
	params *FilmGrainParams,
	noise *Plane2D[int16],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	sourceY []uint16, sourceStrideY int,
	sourceUV []uint16, sourceStrideUV int,
	dest []uint16, destStride int,
) {
	_ = plane
	blendNoiseChromaCFL(10, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChroma8(
	plane int,
	params *FilmGrainParams,
	noise *Plane2D[int8],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	sourceY []uint8, sourceStrideY int,
	sourceUV []uint8, sourceStrideUV int,
	dest []uint8, destStride int,
) {
	offset, lumaMult, mult := params.planeParams(plane)
	blendNoiseChroma(8, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, offset, lumaMult, mult,
		scalingLUT, sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChroma10(
	plane int,
	params *FilmGrainParams,
	noise *Plane2D[int16],
	minValue, maxValue int,
	width, height, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	sourceY []uint16, sourceStrideY int,
	sourceUV []uint16, sourceStrideUV int,
	dest []uint16, destStride int,
) {
	offset, lumaMult, mult := params.planeParams(plane)
	blendNoiseChroma(10, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, offset, lumaMult, mult,
		scalingLUT, sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}
