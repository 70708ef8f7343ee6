package gav1

import (
	"errors"
	"fmt"

	"github.com/deepteams/gav1/internal/dsp"
)

// Errors returned by the argument checks of the public entry points. The
// kernels themselves treat their inputs as pre-validated and perform no
// recovery; validation happens once here, at the module boundary.
var (
	ErrInvalidBlockSize = errors.New("gav1: unsupported block size")
	ErrInvalidWeights   = errors.New("gav1: blend weights must be non-negative and sum to 16")
	ErrInvalidArgument  = errors.New("gav1: invalid argument")
)

// Plane identifiers.
const (
	PlaneY = dsp.PlaneY
	PlaneU = dsp.PlaneU
	PlaneV = dsp.PlaneV
)

// ScalingLUTSize is the number of addressable entries in a film grain
// scaling lookup table. Tables passed to the grain kernels must hold
// ScalingLUTSize+1 bytes, with the last entry replicating entry
// ScalingLUTSize-1 so the 10-bit interpolation never reads out of bounds.
const ScalingLUTSize = dsp.ScalingLUTSize

// FilmGrainParams is the per-frame grain configuration.
type FilmGrainParams = dsp.FilmGrainParams

// PrepareScalingLUT returns a table in the form the grain kernels consume:
// the ScalingLUTSize input entries followed by a replica of the last one.
// Tables already carrying the trailing replica are returned unchanged.
func PrepareScalingLUT(lut []uint8) ([]uint8, error) {
	switch len(lut) {
	case ScalingLUTSize:
		out := make([]uint8, ScalingLUTSize+1)
		copy(out, lut)
		out[ScalingLUTSize] = lut[ScalingLUTSize-1]
		return out, nil
	case ScalingLUTSize + 1:
		if lut[ScalingLUTSize] != lut[ScalingLUTSize-1] {
			return nil, fmt.Errorf("%w: trailing LUT entry %d does not replicate entry %d",
				ErrInvalidArgument, lut[ScalingLUTSize], lut[ScalingLUTSize-1])
		}
		return lut, nil
	default:
		return nil, fmt.Errorf("%w: scaling LUT holds %d entries, want %d", ErrInvalidArgument, len(lut), ScalingLUTSize)
	}
}

// NoisePlane8 and NoisePlane16 are strided read-only views over externally
// generated grain noise, one per plane, at 8- and 10-bit depth respectively.
type (
	NoisePlane8  = dsp.Plane2D[int8]
	NoisePlane16 = dsp.Plane2D[int16]
)

// NewNoisePlane8 wraps externally generated 8-bit grain samples as a plane
// view. The stride is in samples and must cover the width.
func NewNoisePlane8(data []int8, width, height, stride int) (NoisePlane8, error) {
	return dsp.NewPlane2D(data, width, height, stride)
}

// NewNoisePlane16 wraps externally generated 16-bit grain samples as a
// plane view.
func NewNoisePlane16(data []int16, width, height, stride int) (NoisePlane16, error) {
	return dsp.NewPlane2D(data, width, height, stride)
}

// validBlockSize reports whether width x height is in the codec block size
// set: powers of two in [4, 128] with an aspect ratio of at most 4:1.
func validBlockSize(width, height int) bool {
	if width < 4 || width > 128 || width&(width-1) != 0 {
		return false
	}
	if height < 4 || height > 128 || height&(height-1) != 0 {
		return false
	}
	return width <= height*4 && height <= width*4
}

// checkPlane verifies that a strided buffer covers width x height samples.
func checkPlane(name string, length, width, height, stride int) error {
	if stride < width {
		return fmt.Errorf("%w: %s stride %d < width %d", ErrInvalidArgument, name, stride, width)
	}
	if need := (height-1)*stride + width; length < need {
		return fmt.Errorf("%w: %s buffer holds %d samples, need %d", ErrInvalidArgument, name, length, need)
	}
	return nil
}

func checkBlendArgs(lenPred0, stride0, lenPred1, stride1, weight0, weight1, width, height, lenDest, destStride int) error {
	if !validBlockSize(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBlockSize, width, height)
	}
	if weight0 < 0 || weight1 < 0 || weight0+weight1 != 16 {
		return fmt.Errorf("%w: got (%d, %d)", ErrInvalidWeights, weight0, weight1)
	}
	if err := checkPlane("prediction 0", lenPred0, width, height, stride0); err != nil {
		return err
	}
	if err := checkPlane("prediction 1", lenPred1, width, height, stride1); err != nil {
		return err
	}
	return checkPlane("dest", lenDest, width, height, destStride)
}

// DistanceWeightedBlend8 blends two 8-bit intermediate predictor planes
// into dest using a weight pair summing to 16. Predictor samples are signed
// and pre-rounding; strides are in samples.
func DistanceWeightedBlend8(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint8, destStride int,
) error {
	if err := checkBlendArgs(len(pred0), predStride0, len(pred1), predStride1,
		weight0, weight1, width, height, len(dest), destStride); err != nil {
		return err
	}
	dsp.Funcs8.DistanceWeightedBlend(pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
	return nil
}

// DistanceWeightedBlend10 is the 10-bit variant of DistanceWeightedBlend8.
func DistanceWeightedBlend10(
	pred0 []int16, predStride0 int,
	pred1 []int16, predStride1 int,
	weight0, weight1 int,
	width, height int,
	dest []uint16, destStride int,
) error {
	if err := checkBlendArgs(len(pred0), predStride0, len(pred1), predStride1,
		weight0, weight1, width, height, len(dest), destStride); err != nil {
		return err
	}
	dsp.Funcs10.DistanceWeightedBlend(pred0, predStride0, pred1, predStride1,
		weight0, weight1, width, height, dest, destStride)
	return nil
}

func checkGrainCommon(bitdepth, scalingShift, minValue, maxValue, lenLUT, width, height, startHeight int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: empty plane %dx%d", ErrInvalidArgument, width, height)
	}
	if scalingShift < 8 || scalingShift > 11 {
		return fmt.Errorf("%w: scaling shift %d outside [8, 11]", ErrInvalidArgument, scalingShift)
	}
	if maxPixel := 1<<bitdepth - 1; minValue < 0 || minValue > maxValue || maxValue > maxPixel {
		return fmt.Errorf("%w: value range [%d, %d] for %d-bit", ErrInvalidArgument, minValue, maxValue, bitdepth)
	}
	if lenLUT < ScalingLUTSize+1 {
		return fmt.Errorf("%w: scaling LUT holds %d entries, need %d", ErrInvalidArgument, lenLUT, ScalingLUTSize+1)
	}
	if startHeight < 0 {
		return fmt.Errorf("%w: start height %d", ErrInvalidArgument, startHeight)
	}
	return nil
}

func checkNoise(noiseWidth, noiseHeight, width, height, startHeight int) error {
	if noiseWidth < width || noiseHeight < startHeight+height {
		return fmt.Errorf("%w: noise image %dx%d cannot cover %dx%d at row %d",
			ErrInvalidArgument, noiseWidth, noiseHeight, width, height, startHeight)
	}
	return nil
}

// BlendGrainLuma8 adds scaled grain noise to an 8-bit luma plane. The
// scaling LUT must hold ScalingLUTSize+1 bytes; scalingShift is in [8, 11];
// startHeight selects the first noise row for this tile.
func BlendGrainLuma8(
	source []uint8, sourceStride int,
	noise *NoisePlane8, startHeight int,
	scalingLUT []uint8, scalingShift int,
	minValue, maxValue int,
	width, height int,
	dest []uint8, destStride int,
) error {
	if err := checkGrainCommon(8, scalingShift, minValue, maxValue, len(scalingLUT), width, height, startHeight); err != nil {
		return err
	}
	if err := checkNoise(noise.Width(), noise.Height(), width, height, startHeight); err != nil {
		return err
	}
	if err := checkPlane("source", len(source), width, height, sourceStride); err != nil {
		return err
	}
	if err := checkPlane("dest", len(dest), width, height, destStride); err != nil {
		return err
	}
	dsp.Funcs8.BlendNoiseLuma(noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
	return nil
}

// BlendGrainLuma10 is the 10-bit variant of BlendGrainLuma8.
func BlendGrainLuma10(
	source []uint16, sourceStride int,
	noise *NoisePlane16, startHeight int,
	scalingLUT []uint8, scalingShift int,
	minValue, maxValue int,
	width, height int,
	dest []uint16, destStride int,
) error {
	if err := checkGrainCommon(10, scalingShift, minValue, maxValue, len(scalingLUT), width, height, startHeight); err != nil {
		return err
	}
	if err := checkNoise(noise.Width(), noise.Height(), width, height, startHeight); err != nil {
		return err
	}
	if err := checkPlane("source", len(source), width, height, sourceStride); err != nil {
		return err
	}
	if err := checkPlane("dest", len(dest), width, height, destStride); err != nil {
		return err
	}
	dsp.Funcs10.BlendNoiseLuma(noise, minValue, maxValue, scalingShift,
		width, height, startHeight, scalingLUT, source, sourceStride, dest, destStride)
	return nil
}

func checkGrainChromaArgs(
	bitdepth, plane int,
	params *FilmGrainParams,
	lenY, strideY, lenUV, strideUV int,
	noiseWidth, noiseHeight, startHeight int,
	subsamplingX, subsamplingY int,
	lenLUT, minValue, maxValue, width, height, lenDest, destStride int,
) error {
	if plane != PlaneU && plane != PlaneV {
		return fmt.Errorf("%w: plane %d is not a chroma plane", ErrInvalidArgument, plane)
	}
	if params == nil {
		return fmt.Errorf("%w: nil film grain params", ErrInvalidArgument)
	}
	if subsamplingX&^1 != 0 || subsamplingY&^1 != 0 {
		return fmt.Errorf("%w: subsampling (%d, %d)", ErrInvalidArgument, subsamplingX, subsamplingY)
	}
	if startHeight&1 != 0 {
		return fmt.Errorf("%w: start height %d must be even", ErrInvalidArgument, startHeight)
	}
	if err := checkGrainCommon(bitdepth, params.ChromaScaling, minValue, maxValue, lenLUT, width, height, startHeight); err != nil {
		return err
	}
	chromaWidth := (width + subsamplingX) >> subsamplingX
	chromaHeight := (height + subsamplingY) >> subsamplingY
	if err := checkNoise(noiseWidth, noiseHeight, chromaWidth, chromaHeight, startHeight>>subsamplingY); err != nil {
		return err
	}
	lumaRows := ((chromaHeight - 1) << subsamplingY) + 1
	if err := checkPlane("luma source", lenY, width, lumaRows, strideY); err != nil {
		return err
	}
	if err := checkPlane("chroma source", lenUV, chromaWidth, chromaHeight, strideUV); err != nil {
		return err
	}
	return checkPlane("dest", lenDest, chromaWidth, chromaHeight, destStride)
}

// BlendGrainChroma8 adds scaled grain noise to one 8-bit chroma plane.
// width and height are the luma dimensions; the chroma extent follows from
// the subsampling factors. When params.ChromaScalingFromLuma is set the
// luma scaling LUT must be passed and the per-plane multiplier parameters
// are ignored; otherwise scalingLUT is the plane's own table and the
// params triple for the selected plane drives the LUT index derivation.
func BlendGrainChroma8(
	plane int, params *FilmGrainParams,
	sourceY []uint8, sourceStrideY int,
	sourceUV []uint8, sourceStrideUV int,
	noise *NoisePlane8, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	minValue, maxValue int,
	width, height int,
	dest []uint8, destStride int,
) error {
	if err := checkGrainChromaArgs(8, plane, params, len(sourceY), sourceStrideY,
		len(sourceUV), sourceStrideUV, noise.Width(), noise.Height(), startHeight,
		subsamplingX, subsamplingY, len(scalingLUT), minValue, maxValue,
		width, height, len(dest), destStride); err != nil {
		return err
	}
	mode := dsp.ChromaModeMultiplier
	if params.ChromaScalingFromLuma {
		mode = dsp.ChromaModeCFL
	}
	dsp.Funcs8.BlendNoiseChroma[mode](plane, params, noise, minValue, maxValue,
		width, height, startHeight, subsamplingX, subsamplingY, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
	return nil
}

// BlendGrainChroma10 is the 10-bit variant of BlendGrainChroma8.
func BlendGrainChroma10(
	plane int, params *FilmGrainParams,
	sourceY []uint16, sourceStrideY int,
	sourceUV []uint16, sourceStrideUV int,
	noise *NoisePlane16, startHeight int,
	subsamplingX, subsamplingY int,
	scalingLUT []uint8,
	minValue, maxValue int,
	width, height int,
	dest []uint16, destStride int,
) error {
	if err := checkGrainChromaArgs(10, plane, params, len(sourceY), sourceStrideY,
		len(sourceUV), sourceStrideUV, noise.Width(), noise.Height(), startHeight,
		subsamplingX, subsamplingY, len(scalingLUT), minValue, maxValue,
		width, height, len(dest), destStride); err != nil {
		return err
	}
	mode := dsp.ChromaModeMultiplier
	if params.ChromaScalingFromLuma {
		mode = dsp.ChromaModeCFL
	}
	dsp.Funcs10.BlendNoiseChroma[mode](plane, params, noise, minValue, maxValue,
		width, height, startHeight, subsamplingX, subsamplingY, scalingLUT,
		sourceY, sourceStrideY, sourceUV, sourceStrideUV, dest, destStride)
	return nil
}
