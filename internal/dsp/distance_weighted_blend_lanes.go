package dsp

// Lane tier of the distance-weighted blend, specialized by block width class
// purely for throughput: width 4 processes four rows per iteration (two rows
// per lane), width 8 processes two rows per iteration, and widths 16 and up
// sweep each row 16 samples at a time. Every path is bit-identical to the
// scalar reference; only the grouping differs, and the externally visible
// result is row-independent.

// weightedAverageLane computes the rounded, shifted weighted average of two
// predictor lanes. The result fits int16 before clipping: |pred| < 2^15 and
// the weights sum to 16, so the post-shift magnitude is below 2^12.
func weightedAverageLane(p0, p1 lane, w0, w1 int32) (r lane) {
	for i := range r {
		sum := int32(p0[i])*w0 + int32(p1[i])*w1
		r[i] = int16((sum + 1<<(blendRoundBits-1)) >> blendRoundBits)
	}
	return r
}

// loadRowPair packs two 4-sample predictor rows into one lane.
func loadRowPair(row0, row1 []int16) (v lane) {
	_ = row0[3]
	_ = row1[3]
	for i := 0; i < 4; i++ {
		v[i] = row0[i]
		v[i+4] = row1[i]
	}
	return v
}

// distanceWeightedBlend4xH handles width-4 blocks, four rows per iteration.
// Heights for width-4 blocks are multiples of 4.
func distanceWeightedBlend4xH[P Pixel](
	maxPixel int16,
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	w0, w1 int32,
	height int,
	dest []P, destStride int,
) {
	for y := 0; y < height; y += 4 {
		o0 := y * predStride0
		o1 := y * predStride1
		res01 := weightedAverageLane(
			loadRowPair(pred0[o0:], pred0[o0+predStride0:]),
			loadRowPair(pred1[o1:], pred1[o1+predStride1:]),
			w0, w1)
		res23 := weightedAverageLane(
			loadRowPair(pred0[o0+2*predStride0:], pred0[o0+3*predStride0:]),
			loadRowPair(pred1[o1+2*predStride1:], pred1[o1+3*predStride1:]),
			w0, w1)

		d := y * destStride
		storeLane(dest[d:], res01, 0, maxPixel, 4)
		storeLane(dest[d+destStride:], lane{res01[4], res01[5], res01[6], res01[7]}, 0, maxPixel, 4)
		storeLane(dest[d+2*destStride:], res23, 0, maxPixel, 4)
		storeLane(dest[d+3*destStride:], lane{res23[4], res23[5], res23[6], res23[7]}, 0, maxPixel, 4)
	}
}

// distanceWeightedBlend8xH handles width-8 blocks, two rows per iteration.
func distanceWeightedBlend8xH[P Pixel](
	maxPixel int16,
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	w0, w1 int32,
	height int,
	dest []P, destStride int,
) {
	for y := 0; y < height; y += 2 {
		o0 := y * predStride0
		o1 := y * predStride1
		res0 := weightedAverageLane(loadLane(pred0[o0:]), loadLane(pred1[o1:]), w0, w1)
		res1 := weightedAverageLane(
			loadLane(pred0[o0+predStride0:]),
			loadLane(pred1[o1+predStride1:]),
			w0, w1)

		d := y * destStride
		storeLane(dest[d:], res0, 0, maxPixel, laneWidth)
		storeLane(dest[d+destStride:], res1, 0, maxPixel, laneWidth)
	}
}

// distanceWeightedBlendLarge handles widths of 16 and up, 16 samples per
// iteration.
func distanceWeightedBlendLarge[P Pixel](
	maxPixel int16,
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	w0, w1 int32,
	width, height int,
	dest []P, destStride int,
) {
	for y := 0; y < height; y++ {
		row0 := pred0[y*predStride0 : y*predStride0+width]
		row1 := pred1[y*predStride1 : y*predStride1+width]
		dst := dest[y*destStride : y*destStride+width]
		for x := 0; x < width; x += 16 {
			lo := weightedAverageLane(loadLane(row0[x:]), loadLane(row1[x:]), w0, w1)
			hi := weightedAverageLane(loadLane(row0[x+8:]), loadLane(row1[x+8:]), w0, w1)
			storeLane(dst[x:], lo, 0, maxPixel, laneWidth)
			storeLane(dst[x+8:], hi, 0, maxPixel, laneWidth)
		}
	}
}

func distanceWeightedBlendLanes[P Pixel](
	bitdepth int,
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []P, destStride int,
) {
	maxPixel := int16(1<<bitdepth - 1)
	w0 := int32(weight0)
	w1 := int32(weight1)
	switch width {
	case 4:
		distanceWeightedBlend4xH(maxPixel, pred0, predStride0, pred1, predStride1,
			w0, w1, height, dest, destStride)
	case 8:
		distanceWeightedBlend8xH(maxPixel, pred0, predStride0, pred1, predStride1,
			w0, w1, height, dest, destStride)
	default:
		distanceWeightedBlendLarge(maxPixel, pred0, predStride0, pred1, predStride1,
			w0, w1, width, height, dest, destStride)
	}
}

func distanceWeightedBlendLanes8(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint8, destStride int,
) {
	distanceWeightedBlendLanes(8, pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
}

func distanceWeightedBlendLanes10(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint16, destStride int,
) {
	distanceWeightedBlendLanes(10, pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
}
