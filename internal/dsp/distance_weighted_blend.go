package dsp

// Distance-weighted blend: the final compound prediction is a weighted
// average of two intermediate predictors, with the weight pair derived from
// the temporal distances to the two reference frames and summing to 16.
//
// The predictors carry interPostRoundBit bits of inter-prediction rounding
// that have not been applied yet; the multiply by the 4-bit weights adds 4
// more, so a single rounding shift by interPostRoundBit+4 produces the final
// pixel scale. The shift amount is a codec conformance constant, not a
// tunable.

// interPostRoundBit is the pending inter-prediction rounding carried by the
// intermediate predictors.
const interPostRoundBit = 4

// blendRoundBits is the total post-blend rounding shift.
const blendRoundBits = interPostRoundBit + 4

// distanceWeightedBlend is the scalar reference. All specialized paths must
// match it bit for bit.
func distanceWeightedBlend[P Pixel](
	bitdepth int,
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []P, destStride int,
) {
	maxPixel := 1<<bitdepth - 1
	for y := 0; y < height; y++ {
		row0 := pred0[y*predStride0 : y*predStride0+width]
		row1 := pred1[y*predStride1 : y*predStride1+width]
		dst := dest[y*destStride : y*destStride+width]
		for x := 0; x < width; x++ {
			sum := int(row0[x])*weight0 + int(row1[x])*weight1
			dst[x] = P(clip3(rightShiftWithRounding(sum, blendRoundBits), 0, maxPixel))
		}
	}
}

func distanceWeightedBlend8(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint8, destStride int,
) {
	distanceWeightedBlend(8, pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
}

func distanceWeightedBlend10(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint16, destStride int,
) {
	distanceWeightedBlend(10, pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
}
