package dsp

// Film grain synthesis, lane tier. The structure mirrors the scalar tier but
// processes 8 output samples per step, with the shared padLane strategy at
// the right edge of every row: the trailing valid samples are copied into a
// scratch buffer, the last one is replicated, a full lane is computed, and
// only the valid outputs are stored.

// getScalingFactorsLane resolves 8 consecutive sample values to their noise
// scaling factors. Above 8 bits the interpolation reads lut[index+1], which
// the extra replicated LUT entry keeps in bounds without branching.
func getScalingFactorsLane[P Pixel](bitdepth int, lut []uint8, src []P) (scaling lane) {
	_ = src[laneWidth-1]
	if bitdepth == 8 {
		for i := range scaling {
			scaling[i] = int16(lut[src[i]])
		}
		return scaling
	}
	var start, end, rem lane
	for i := range start {
		index := int(src[i]) >> 2
		start[i] = int16(lut[index])
		end[i] = int16(lut[index+1])
		// The 2-bit remainder placed at bit 13 turns mulhrs into a
		// divide-by-4 with rounding: (d*(r<<13) + 2^14) >> 15 == (d*r + 2) >> 2.
		rem[i] = int16(src[i]&3) << 13
	}
	return addLane(start, mulhrs(subLane(end, start), rem))
}

// scaleNoiseLane applies the scaling factors to a noise lane. Shifting the
// factors up by 15-scalingShift positions the Q15 rounding multiply so that
// the result equals (noise*scaling + 2^(scalingShift-1)) >> scalingShift.
// scalingShift is in [8, 11], so the shifted factors stay within int16.
func scaleNoiseLane(noise, scaling lane, scalingShift int) lane {
	shift := 15 - scalingShift
	var shifted lane
	for i := range shifted {
		shifted[i] = scaling[i] << shift
	}
	return mulhrs(noise, shifted)
}

// averageLumaLane computes the 8 luma intensities co-located with a lane of
// chroma samples: pairwise rounded averages of 16 luma samples when
// horizontally subsampled, otherwise a plain widening load of 8.
func averageLumaLane[P Pixel](luma []P, subsamplingX int) (avg lane) {
	if subsamplingX != 0 {
		_ = luma[2*laneWidth-1]
		for i := range avg {
			avg[i] = int16((int(luma[2*i]) + int(luma[2*i+1]) + 1) >> 1)
		}
		return avg
	}
	return loadLane(luma)
}

// mergedScalingLane derives the multiplier-mode LUT indices for one lane and
// resolves them to scaling factors. offset is already shifted to the pixel
// scale of the active bit depth.
func mergedScalingLane[P Pixel](bitdepth int, lut []uint8, avg, orig lane, offset, lumaMultiplier, chromaMultiplier int, buf *[laneWidth]P) lane {
	maxPixel := 1<<bitdepth - 1
	for i := range buf {
		combined := int(avg[i])*lumaMultiplier + int(orig[i])*chromaMultiplier
		buf[i] = P(clip3((combined>>6)+offset, 0, maxPixel))
	}
	return getScalingFactorsLane(bitdepth, lut, buf[:])
}

func blendNoiseLumaLanes[P Pixel, G Grain](
	bitdepth int,
	noise *Plane2D[G],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []P, sourceStride int,
	dest []P, destStride int,
) {
	low := int16(minValue)
	high := int16(maxValue)
	safeWidth := width &^ (laneWidth - 1)
	for y := 0; y < height; y++ {
		src := source[y*sourceStride : y*sourceStride+width]
		dst := dest[y*destStride : y*destStride+width]
		noiseRow := noise.Row(y + startHeight)
		x := 0
		for ; x < safeWidth; x += laneWidth {
			orig := loadLane(src[x:])
			scaling := getScalingFactorsLane(bitdepth, scalingLUT, src[x:])
			n := scaleNoiseLane(loadLane(noiseRow[x:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, laneWidth)
		}
		if x < width {
			var lumaBuf [laneWidth]P
			var noiseBuf [laneWidth]G
			padLane(lumaBuf[:], src[x:], src[width-1])
			padLane(noiseBuf[:], noiseRow[x:], noiseRow[len(noiseRow)-1])
			orig := loadLane(lumaBuf[:])
			scaling := getScalingFactorsLane(bitdepth, scalingLUT, lumaBuf[:])
			n := scaleNoiseLane(loadLane(noiseBuf[:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, width-x)
		}
	}
}

func blendNoiseChromaCFLLanes[P Pixel, G Grain](
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
	low := int16(minValue)
	high := int16(maxValue)
	chromaWidth := (width + subsamplingX) >> subsamplingX
	chromaHeight := (height + subsamplingY) >> subsamplingY
	safeChromaWidth := chromaWidth &^ (laneWidth - 1)
	if subsamplingX != 0 && width&1 != 0 && safeChromaWidth == chromaWidth {
		// The final lane's averages need a luma neighbor beyond the plane
		// width; route that lane through the padded edge path instead.
		safeChromaWidth -= laneWidth
	}
	startHeight >>= subsamplingY
	var avgBuf [laneWidth]P
	for y := 0; y < chromaHeight; y++ {
		lumaOff := (y << subsamplingY) * sourceStrideY
		lumaRow := sourceY[lumaOff : lumaOff+width]
		src := sourceUV[y*sourceStrideUV : y*sourceStrideUV+chromaWidth]
		dst := dest[y*destStride : y*destStride+chromaWidth]
		noiseRow := noise.Row(y + startHeight)
		x := 0
		for ; x < safeChromaWidth; x += laneWidth {
			avg := averageLumaLane(lumaRow[x<<subsamplingX:], subsamplingX)
			for i := range avgBuf {
				avgBuf[i] = P(avg[i])
			}
			scaling := getScalingFactorsLane(bitdepth, scalingLUT, avgBuf[:])
			orig := loadLane(src[x:])
			n := scaleNoiseLane(loadLane(noiseRow[x:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, laneWidth)
		}
		if x < chromaWidth {
			var lumaBuf [2 * laneWidth]P
			var uvBuf [laneWidth]P
			var noiseBuf [laneWidth]G
			lumaX := x << subsamplingX
			padLane(lumaBuf[:laneWidth<<subsamplingX], lumaRow[lumaX:], lumaRow[width-1])
			padLane(uvBuf[:], src[x:], src[chromaWidth-1])
			padLane(noiseBuf[:], noiseRow[x:], noiseRow[len(noiseRow)-1])
			avg := averageLumaLane(lumaBuf[:], subsamplingX)
			for i := range avgBuf {
				avgBuf[i] = P(avg[i])
			}
			scaling := getScalingFactorsLane(bitdepth, scalingLUT, avgBuf[:])
			orig := loadLane(uvBuf[:])
			n := scaleNoiseLane(loadLane(noiseBuf[:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, chromaWidth-x)
		}
	}
}

func blendNoiseChromaLanes[P Pixel, G Grain](
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
	low := int16(minValue)
	high := int16(maxValue)
	chromaWidth := (width + subsamplingX) >> subsamplingX
	chromaHeight := (height + subsamplingY) >> subsamplingY
	safeChromaWidth := chromaWidth &^ (laneWidth - 1)
	if subsamplingX != 0 && width&1 != 0 && safeChromaWidth == chromaWidth {
		safeChromaWidth -= laneWidth
	}
	offset := chromaOffset << (bitdepth - 8)
	startHeight >>= subsamplingY
	var mergedBuf [laneWidth]P
	for y := 0; y < chromaHeight; y++ {
		lumaOff := (y << subsamplingY) * sourceStrideY
		lumaRow := sourceY[lumaOff : lumaOff+width]
		src := sourceUV[y*sourceStrideUV : y*sourceStrideUV+chromaWidth]
		dst := dest[y*destStride : y*destStride+chromaWidth]
		noiseRow := noise.Row(y + startHeight)
		x := 0
		for ; x < safeChromaWidth; x += laneWidth {
			avg := averageLumaLane(lumaRow[x<<subsamplingX:], subsamplingX)
			orig := loadLane(src[x:])
			scaling := mergedScalingLane(bitdepth, scalingLUT, avg, orig,
				offset, lumaMultiplier, chromaMultiplier, &mergedBuf)
			n := scaleNoiseLane(loadLane(noiseRow[x:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, laneWidth)
		}
		if x < chromaWidth {
			var lumaBuf [2 * laneWidth]P
			var uvBuf [laneWidth]P
			var noiseBuf [laneWidth]G
			lumaX := x << subsamplingX
			padLane(lumaBuf[:laneWidth<<subsamplingX], lumaRow[lumaX:], lumaRow[width-1])
			padLane(uvBuf[:], src[x:], src[chromaWidth-1])
			padLane(noiseBuf[:], noiseRow[x:], noiseRow[len(noiseRow)-1])
			avg := averageLumaLane(lumaBuf[:], subsamplingX)
			orig := loadLane(uvBuf[:])
			scaling := mergedScalingLane(bitdepth, scalingLUT, avg, orig,
				offset, lumaMultiplier, chromaMultiplier, &mergedBuf)
			n := scaleNoiseLane(loadLane(noiseBuf[:]), scaling, scalingShift)
			storeLane(dst[x:], addLane(orig, n), low, high, chromaWidth-x)
		}
	}
}

// --- dispatch-table instantiations ---

func blendNoiseLumaLanes8(
	noise *Plane2D[int8],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []uint8, sourceStride int,
	dest []uint8, destStride int,
) {
	blendNoiseLumaLanes(8, noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
}

func blendNoiseLumaLanes10(
	noise *Plane2D[int16],
	minValue, maxValue int,
	scalingShift int,
	width, height, startHeight int,
	scalingLUT []uint8,
	source []uint16, sourceStride int,
	dest []uint16, destStride int,
) {
	blendNoiseLumaLanes(10, noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
}

func blendNoiseChromaCFLLanes8(
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
	blendNoiseChromaCFLLanes(8, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChromaCFLLanes10(
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
	blendNoiseChromaCFLLanes(10, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChromaLanes8(
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
	blendNoiseChromaLanes(8, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, offset, lumaMult, mult,
		scalingLUT, sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}

func blendNoiseChromaLanes10(
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
	blendNoiseChromaLanes(10, noise, minValue, maxValue, width, height, startHeight,
		subsamplingX, subsamplingY, params.ChromaScaling, offset, lumaMult, mult,
		scalingLUT, sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
}
