package intake

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portrait draws a w×h image with a bg-coloured border band and a dark
// centre standing in for the face.
func portrait(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, bg)
		}
	}
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 60, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func outcomes(rs []GateResult) map[models.GateName]bool {
	out := map[models.GateName]bool{}
	for _, r := range rs {
		out[r.Name] = r.Passed
	}
	return out
}

var white = color.RGBA{R: 250, G: 250, B: 250, A: 255}

func TestImageInspector_GoodPortraitPasses(t *testing.T) {
	in := DefaultImageInspector()

	for name, data := range map[string][]byte{
		"png":  encodePNG(t, portrait(300, 400, white)),
		"jpeg": encodeJPEG(t, portrait(300, 400, white)),
	} {
		t.Run(name, func(t *testing.T) {
			rs, err := in.Inspect(context.Background(), models.Photo{Data: data})
			require.NoError(t, err)
			require.Len(t, rs, 4)
			for _, r := range rs {
				assert.True(t, r.Passed, "%s: %s", r.Name, r.Reason)
			}
		})
	}
}

func TestImageInspector_GatesFailIndependently(t *testing.T) {
	in := DefaultImageInspector()

	tests := []struct {
		name string
		data func(t *testing.T) []byte
		want map[models.GateName]bool
	}{
		{
			name: "too small",
			data: func(t *testing.T) []byte { return encodePNG(t, portrait(120, 160, white)) },
			want: map[models.GateName]bool{
				models.GateFormat: false, models.GateCentering: true,
				models.GateBackground: true, models.GateOptimization: true,
			},
		},
		{
			name: "landscape framing",
			data: func(t *testing.T) []byte { return encodePNG(t, portrait(400, 300, white)) },
			want: map[models.GateName]bool{
				models.GateFormat: true, models.GateCentering: false,
				models.GateBackground: true, models.GateOptimization: true,
			},
		},
		{
			name: "dark background",
			data: func(t *testing.T) []byte {
				return encodePNG(t, portrait(300, 400, color.RGBA{R: 30, G: 40, B: 120, A: 255}))
			},
			want: map[models.GateName]bool{
				models.GateFormat: true, models.GateCentering: true,
				models.GateBackground: false, models.GateOptimization: true,
			},
		},
		{
			name: "not an image",
			data: func(t *testing.T) []byte { return []byte("definitely not a jpeg") },
			want: map[models.GateName]bool{
				models.GateFormat: false, models.GateCentering: false,
				models.GateBackground: false, models.GateOptimization: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := in.Inspect(context.Background(), models.Photo{Data: tt.data(t)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcomes(rs))
		})
	}
}

func TestImageInspector_Oversized(t *testing.T) {
	in := DefaultImageInspector()
	in.MaxBytes = 100

	rs, err := in.Inspect(context.Background(), models.Photo{Data: encodePNG(t, portrait(300, 400, white))})
	require.NoError(t, err)
	assert.Equal(t, map[models.GateName]bool{
		models.GateFormat: true, models.GateCentering: true,
		models.GateBackground: false, models.GateOptimization: false,
	}, outcomes(rs), "header checked, pixels left alone")
}

func TestImageInspector_LargeCanvasNotDecoded(t *testing.T) {
	in := DefaultImageInspector()
	in.MaxPixels = 1 << 20

	// a flat 1500x2000 canvas compresses to a few KB
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 1500, 2000)))
	require.Less(t, len(data), in.MaxBytes)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	rs, err := in.Inspect(context.Background(), models.Photo{Data: data})
	runtime.ReadMemStats(&after)
	require.NoError(t, err)

	got := map[models.GateName]GateResult{}
	for _, r := range rs {
		got[r.Name] = r
	}
	assert.False(t, got[models.GateFormat].Passed)
	assert.Contains(t, got[models.GateFormat].Reason, "exceeds")
	assert.False(t, got[models.GateBackground].Passed)
	assert.Equal(t, "not decoded", got[models.GateBackground].Reason)
	assert.True(t, got[models.GateOptimization].Passed)

	// a full decode would allocate the 3 MB pixel buffer
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestSimulatedInspector_PassesAll(t *testing.T) {
	rs, err := SimulatedInspector{}.Inspect(context.Background(), models.Photo{})
	require.NoError(t, err)
	require.Len(t, rs, 4)
	for _, r := range rs {
		assert.True(t, r.Passed)
	}
}

func TestBorderLuma(t *testing.T) {
	assert.InDelta(t, 250, borderLuma(portrait(200, 200, white)), 1)
	assert.Less(t, borderLuma(portrait(200, 200, color.Black)), 1.0)
}
