package dsp

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalingFromLUT8BitIsDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lut := randLUT(rng)
	for i := 0; i < ScalingLUTSize; i++ {
		require.Equal(t, int(lut[i]), scalingFromLUT(8, lut, i))
	}
}

func TestScalingFromLUT10BitBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	lut := randLUT(rng)
	// On sample points (remainder zero) interpolation must collapse to the
	// table entry itself.
	for sample := 0; sample < 1024; sample += 4 {
		require.Equal(t, int(lut[sample>>2]), scalingFromLUT(10, lut, sample),
			"sample %d", sample)
	}
	// In between, the factor is bracketed by the neighboring entries.
	for sample := 0; sample < 1024; sample++ {
		got := scalingFromLUT(10, lut, sample)
		lo, hi := int(lut[sample>>2]), int(lut[sample>>2+1])
		if lo > hi {
			lo, hi = hi, lo
		}
		require.GreaterOrEqual(t, got, lo, "sample %d", sample)
		require.LessOrEqual(t, got, hi, "sample %d", sample)
	}
}

func TestGetScalingFactorsLaneMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	lut := randLUT(rng)
	for iter := 0; iter < 200; iter++ {
		src := randPixels10(rng, laneWidth)
		got := getScalingFactorsLane(10, lut, src)
		for i, s := range src {
			require.Equal(t, scalingFromLUT(10, lut, int(s)), int(got[i]),
				"iter %d lane %d sample %d", iter, i, s)
		}
	}
	src8 := randPixels8(rng, laneWidth)
	got := getScalingFactorsLane(8, lut, src8)
	for i, s := range src8 {
		require.Equal(t, int(lut[s]), int(got[i]))
	}
}

func TestAverageLuma(t *testing.T) {
	row := []uint8{10, 20, 30, 40, 50, 60, 70, 80}
	want := []int{15, 35, 55, 75}
	for x, w := range want {
		require.Equal(t, w, averageLuma(row, x<<1, len(row), 1))
	}
	// No horizontal subsampling passes the sample through.
	for x, v := range row {
		require.Equal(t, int(v), averageLuma(row, x, len(row), 0))
	}
	// At the right edge of an odd width the missing neighbor is the
	// replicated last sample, so the average is the sample itself.
	odd := []uint8{10, 20, 30}
	require.Equal(t, 30, averageLuma(odd, 2, 3, 1))
}

func TestAverageLumaLaneMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for iter := 0; iter < 100; iter++ {
		luma := randPixels10(rng, 2*laneWidth)
		avg := averageLumaLane(luma, 1)
		for i := 0; i < laneWidth; i++ {
			require.Equal(t, averageLuma(luma, 2*i, len(luma), 1), int(avg[i]))
		}
		direct := averageLumaLane(luma[:laneWidth], 0)
		for i := 0; i < laneWidth; i++ {
			require.Equal(t, int(luma[i]), int(direct[i]))
		}
	}
}

// grainWidths exercises every lane-edge shape: sub-lane, exact multiples,
// every tail length, and a couple of larger sizes.
var grainWidths = func() []int {
	widths := make([]int, 0, 26)
	for w := 1; w <= 24; w++ {
		widths = append(widths, w)
	}
	return append(widths, 53, 64)
}()

func TestBlendNoiseLumaConformance8(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for _, width := range grainWidths {
		for _, height := range []int{1, 7, 16} {
			for shift := 8; shift <= 11; shift++ {
				startHeight := rng.Intn(4) * 2
				noise := makeNoise8(t, rng, width, height+startHeight)
				source := randPixels8(rng, width*height)
				want := make([]uint8, width*height)
				got := make([]uint8, width*height)
				lut := randLUT(rng)
				blendNoiseLuma8(noise, 0, 255, shift, width, height, startHeight,
					lut, source, width, want, width)
				blendNoiseLumaLanes8(noise, 0, 255, shift, width, height, startHeight,
					lut, source, width, got, width)
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("%dx%d shift %d start %d sample %d: lanes=%d scalar=%d",
							width, height, shift, startHeight, i, got[i], want[i])
					}
				}
			}
		}
	}
}

func TestBlendNoiseLumaConformance10(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, width := range grainWidths {
		for _, height := range []int{1, 7, 16} {
			for shift := 8; shift <= 11; shift++ {
				startHeight := rng.Intn(4) * 2
				noise := makeNoise16(t, rng, width, height+startHeight)
				source := randPixels10(rng, width*height)
				want := make([]uint16, width*height)
				got := make([]uint16, width*height)
				lut := randLUT(rng)
				// Alternate between full range and the studio swing range
				// used when clipping is signalled.
				minV, maxV := 0, 1023
				if width&1 != 0 {
					minV, maxV = 64, 940
				}
				blendNoiseLuma10(noise, minV, maxV, shift, width, height, startHeight,
					lut, source, width, want, width)
				blendNoiseLumaLanes10(noise, minV, maxV, shift, width, height, startHeight,
					lut, source, width, got, width)
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("%dx%d shift %d start %d sample %d: lanes=%d scalar=%d",
							width, height, shift, startHeight, i, got[i], want[i])
					}
				}
			}
		}
	}
}

// chromaCase builds matched luma, chroma, and noise inputs for one geometry.
type chromaCase8 struct {
	noise        *Plane2D[int8]
	lut          []uint8
	luma, chroma []uint8
	chromaWidth  int
}

func makeChromaCase8(t *testing.T, rng *rand.Rand, width, height, startHeight, subX, subY int) chromaCase8 {
	t.Helper()
	chromaWidth := (width + subX) >> subX
	chromaHeight := (height + subY) >> subY
	return chromaCase8{
		noise:       makeNoise8(t, rng, chromaWidth, chromaHeight+startHeight>>subY),
		lut:         randLUT(rng),
		luma:        randPixels8(rng, width*height),
		chroma:      randPixels8(rng, chromaWidth*chromaHeight),
		chromaWidth: chromaWidth,
	}
}

func TestBlendNoiseChromaCFLConformance8(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	params := &FilmGrainParams{ChromaScaling: 8, ChromaScalingFromLuma: true}
	for _, width := range []int{4, 8, 15, 16, 17, 24, 32, 53, 64} {
		for _, height := range []int{8, 15} {
			for subX := 0; subX <= 1; subX++ {
				for subY := 0; subY <= 1; subY++ {
					startHeight := 2 * rng.Intn(3)
					c := makeChromaCase8(t, rng, width, height, startHeight, subX, subY)
					chromaHeight := (height + subY) >> subY
					want := make([]uint8, c.chromaWidth*chromaHeight)
					got := make([]uint8, c.chromaWidth*chromaHeight)
					blendNoiseChromaCFL8(PlaneU, params, c.noise, 0, 255,
						width, height, startHeight, subX, subY, c.lut,
						c.luma, width, c.chroma, c.chromaWidth, want, c.chromaWidth)
					blendNoiseChromaCFLLanes8(PlaneU, params, c.noise, 0, 255,
						width, height, startHeight, subX, subY, c.lut,
						c.luma, width, c.chroma, c.chromaWidth, got, c.chromaWidth)
					for i := range want {
						if got[i] != want[i] {
							t.Fatalf("%dx%d sub (%d,%d) start %d sample %d: lanes=%d scalar=%d",
								width, height, subX, subY, startHeight, i, got[i], want[i])
						}
					}
				}
			}
		}
	}
}

func TestBlendNoiseChromaCFLConformance10(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	params := &FilmGrainParams{ChromaScaling: 11, ChromaScalingFromLuma: true}
	for _, width := range []int{4, 15, 16, 17, 53, 64} {
		height := 16
		for subX := 0; subX <= 1; subX++ {
			for subY := 0; subY <= 1; subY++ {
				startHeight := 4
				chromaWidth := (width + subX) >> subX
				chromaHeight := (height + subY) >> subY
				noise := makeNoise16(t, rng, chromaWidth, chromaHeight+startHeight>>subY)
				lut := randLUT(rng)
				luma := randPixels10(rng, width*height)
				chroma := randPixels10(rng, chromaWidth*chromaHeight)
				want := make([]uint16, chromaWidth*chromaHeight)
				got := make([]uint16, chromaWidth*chromaHeight)
				blendNoiseChromaCFL10(PlaneV, params, noise, 0, 1023,
					width, height, startHeight, subX, subY, lut,
					luma, width, chroma, chromaWidth, want, chromaWidth)
				blendNoiseChromaCFLLanes10(PlaneV, params, noise, 0, 1023,
					width, height, startHeight, subX, subY, lut,
					luma, width, chroma, chromaWidth, got, chromaWidth)
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("%dx%d sub (%d,%d) sample %d: lanes=%d scalar=%d",
							width, height, subX, subY, i, got[i], want[i])
					}
				}
			}
		}
	}
}

func randMultiplierParams(rng *rand.Rand, shift int) *FilmGrainParams {
	return &FilmGrainParams{
		ChromaScaling:   shift,
		UOffset:         rng.Intn(512) - 256,
		VOffset:         rng.Intn(512) - 256,
		ULumaMultiplier: rng.Intn(256) - 128,
		VLumaMultiplier: rng.Intn(256) - 128,
		UMultiplier:     rng.Intn(256) - 128,
		VMultiplier:     rng.Intn(256) - 128,
	}
}

func TestBlendNoiseChromaMultiplierConformance8(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	for _, width := range []int{4, 8, 15, 16, 17, 53, 64} {
		for _, plane := range []int{PlaneU, PlaneV} {
			for subX := 0; subX <= 1; subX++ {
				height := 16
				subY := subX
				startHeight := 6
				params := randMultiplierParams(rng, 8+rng.Intn(4))
				c := makeChromaCase8(t, rng, width, height, startHeight, subX, subY)
				chromaHeight := (height + subY) >> subY
				want := make([]uint8, c.chromaWidth*chromaHeight)
				got := make([]uint8, c.chromaWidth*chromaHeight)
				blendNoiseChroma8(plane, params, c.noise, 0, 255,
					width, height, startHeight, subX, subY, c.lut,
					c.luma, width, c.chroma, c.chromaWidth, want, c.chromaWidth)
				blendNoiseChromaLanes8(plane, params, c.noise, 0, 255,
					width, height, startHeight, subX, subY, c.lut,
					c.luma, width, c.chroma, c.chromaWidth, got, c.chromaWidth)
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("%dx%d plane %d sub %d sample %d: lanes=%d scalar=%d",
							width, height, plane, subX, i, got[i], want[i])
					}
				}
			}
		}
	}
}

func TestBlendNoiseChromaMultiplierConformance10(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for _, width := range []int{8, 15, 17, 64} {
		height := 8
		subX, subY := 1, 1
		startHeight := 2
		params := randMultiplierParams(rng, 10)
		chromaWidth := (width + subX) >> subX
		chromaHeight := (height + subY) >> subY
		noise := makeNoise16(t, rng, chromaWidth, chromaHeight+startHeight>>subY)
		lut := randLUT(rng)
		luma := randPixels10(rng, width*height)
		chroma := randPixels10(rng, chromaWidth*chromaHeight)
		want := make([]uint16, chromaWidth*chromaHeight)
		got := make([]uint16, chromaWidth*chromaHeight)
		blendNoiseChroma10(PlaneU, params, noise, 0, 1023,
			width, height, startHeight, subX, subY, lut,
			luma, width, chroma, chromaWidth, want, chromaWidth)
		blendNoiseChromaLanes10(PlaneU, params, noise, 0, 1023,
			width, height, startHeight, subX, subY, lut,
			luma, width, chroma, chromaWidth, got, chromaWidth)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("width %d sample %d: lanes=%d scalar=%d", width, i, got[i], want[i])
			}
		}
	}
}

// A restricted output range must bound every blended sample even when the
// scaled noise pushes far outside it.
func TestBlendNoiseLumaRespectsRange(t *testing.T) {
	rng := rand.New(rand.NewSource(40))
	const width, height = 16, 8
	noiseData := make([]int8, width*height)
	for i := range noiseData {
		noiseData[i] = 127
	}
	p, err := NewPlane2D(noiseData, width, height, width)
	require.NoError(t, err)
	lut := make([]uint8, ScalingLUTSize+1)
	for i := range lut {
		lut[i] = 255
	}
	source := randPixels8(rng, width*height)
	for _, impl := range []BlendNoiseLumaFunc[uint8, int8]{blendNoiseLuma8, blendNoiseLumaLanes8} {
		dest := make([]uint8, width*height)
		impl(&p, 16, 235, 8, width, height, 0, lut, source, width, dest, width)
		for i, v := range dest {
			require.GreaterOrEqual(t, int(v), 16, "sample %d", i)
			require.LessOrEqual(t, int(v), 235, "sample %d", i)
		}
	}
}

func BenchmarkBlendNoiseLuma(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	const width, height = 64, 64
	data := randGrain8(rng, width*height)
	noise, _ := NewPlane2D(data, width, height, width)
	lut := randLUT(rng)
	source := randPixels8(rng, width*height)
	dest := make([]uint8, width*height)
	for _, bench := range []struct {
		name string
		fn   BlendNoiseLumaFunc[uint8, int8]
	}{
		{"scalar", blendNoiseLuma8},
		{"lanes", blendNoiseLumaLanes8},
	} {
		b.Run(fmt.Sprintf("%s_%dx%d", bench.name, width, height), func(b *testing.B) {
			b.SetBytes(int64(width * height))
			for i := 0; i < b.N; i++ {
				bench.fn(&noise, 0, 255, 8, width, height, 0, lut, source, width, dest, width)
			}
		})
	}
}
