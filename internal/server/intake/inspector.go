package intake

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// GateResult is the outcome of one quality gate.
type GateResult struct {
	Name   models.GateName
	Passed bool
	Reason string
}

// Inspector judges a photo once analysis progress reaches 100.
type Inspector interface {
	Inspect(ctx context.Context, photo models.Photo) ([]GateResult, error)
}

// SimulatedInspector passes every gate.
type SimulatedInspector struct{}

func (SimulatedInspector) Inspect(ctx context.Context, photo models.Photo) ([]GateResult, error) {
	gates := models.DefaultGates()
	out := make([]GateResult, len(gates))
	for i, g := range gates {
		out[i] = GateResult{Name: g.Name, Passed: true}
	}
	return out, nil
}

// ImageInspector checks each gate on its own: format and size, portrait
// framing, a light background and file weight. Pixels are only decoded when
// the header and file size are within bounds.
type ImageInspector struct {
	MinWidth  int
	MinHeight int
	// MaxPixels caps width*height before a full decode; zero means no cap.
	MaxPixels int
	// height/width bounds of a passport-style portrait
	MinAspect float64
	MaxAspect float64
	// mean luma (0-255) of the border band
	MinBorderLuma float64
	MaxBytes      int
}

// DefaultImageInspector returns thresholds suited to ID-card portraits.
func DefaultImageInspector() ImageInspector {
	return ImageInspector{
		MinWidth:      240,
		MinHeight:     300,
		MaxPixels:     12_000_000,
		MinAspect:     1.1,
		MaxAspect:     1.6,
		MinBorderLuma: 200,
		MaxBytes:      2 << 20,
	}
}

func (in ImageInspector) Inspect(ctx context.Context, photo models.Photo) ([]GateResult, error) {
	format := GateResult{Name: models.GateFormat, Passed: true}
	centering := GateResult{Name: models.GateCentering, Passed: true}
	background := GateResult{Name: models.GateBackground, Passed: true}
	optimization := GateResult{Name: models.GateOptimization, Passed: true}
	decodable := true

	if len(photo.Data) > in.MaxBytes {
		optimization.Passed = false
		optimization.Reason = fmt.Sprintf("%d bytes exceeds %d", len(photo.Data), in.MaxBytes)
		decodable = false
	}

	cfg, kind, err := image.DecodeConfig(bytes.NewReader(photo.Data))
	if err != nil {
		format.Passed = false
		format.Reason = "cannot decode image"
		centering = GateResult{Name: models.GateCentering, Reason: "not decoded"}
		background = GateResult{Name: models.GateBackground, Reason: "not decoded"}
		return []GateResult{format, centering, background, optimization}, nil
	}

	w, h := cfg.Width, cfg.Height
	switch {
	case kind != "jpeg" && kind != "png":
		format.Passed = false
		format.Reason = "unsupported format " + kind
		decodable = false
	case w <= 0 || h <= 0:
		format.Passed = false
		format.Reason = "empty image"
		decodable = false
	case in.MaxPixels > 0 && w*h > in.MaxPixels:
		format.Passed = false
		format.Reason = fmt.Sprintf("%dx%d exceeds %d pixels", w, h, in.MaxPixels)
		decodable = false
	case w < in.MinWidth || h < in.MinHeight:
		format.Passed = false
		format.Reason = fmt.Sprintf("%dx%d is below %dx%d", w, h, in.MinWidth, in.MinHeight)
	}

	if w <= 0 {
		centering = GateResult{Name: models.GateCentering, Reason: "not decoded"}
	} else if aspect := float64(h) / float64(w); aspect < in.MinAspect || aspect > in.MaxAspect {
		centering.Passed = false
		centering.Reason = fmt.Sprintf("aspect %.2f outside %.2f-%.2f", aspect, in.MinAspect, in.MaxAspect)
	}

	if !decodable {
		background = GateResult{Name: models.GateBackground, Reason: "not decoded"}
		return []GateResult{format, centering, background, optimization}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		format.Passed = false
		format.Reason = "cannot decode image"
		background = GateResult{Name: models.GateBackground, Reason: "not decoded"}
		return []GateResult{format, centering, background, optimization}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if luma := borderLuma(img); luma < in.MinBorderLuma {
		background.Passed = false
		background.Reason = fmt.Sprintf("background luma %.0f below %.0f", luma, in.MinBorderLuma)
	}

	return []GateResult{format, centering, background, optimization}, nil
}

// borderLuma averages the Rec. 601 luma of a band 1/20 of each side wide
// around the image edge.
func borderLuma(img image.Image) float64 {
	b := img.Bounds()
	bw := max(1, b.Dx()/20)
	bh := max(1, b.Dy()/20)
	step := max(1, min(b.Dx(), b.Dy())/100)

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += step {
		edgeRow := y < b.Min.Y+bh || y >= b.Max.Y-bh
		for x := b.Min.X; x < b.Max.X; x += step {
			if !edgeRow && x >= b.Min.X+bw && x < b.Max.X-bw {
				continue
			}
			r, g, bl, _ := img.At(x, y).RGBA()
			sum += (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 257
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
