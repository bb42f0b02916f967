package rasterrenderer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ByLCY/captionclip/fonts"
	"github.com/ByLCY/captionclip/layout"
	"github.com/ByLCY/captionclip/renderer"
)

const sampleQuote = "When you finally understand the assignment but it's already due"

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestFaceWidthShrinksWithSize(t *testing.T) {
	r := NewRenderer(fonts.Default)
	prev := -1
	for size := 20; size <= 48; size++ {
		f, err := r.Face(size)
		if err != nil {
			t.Fatalf("Face(%d) error: %v", size, err)
		}
		w := f.Bounds(sampleQuote).Dx()
		if w < prev {
			t.Fatalf("width at %dpx (%d) smaller than at %dpx (%d)", size, w, size-1, prev)
		}
		prev = w
	}
}

func TestFaceBoundsOriginAtAscender(t *testing.T) {
	r := NewRenderer(fonts.Default)
	f, err := r.Face(40)
	if err != nil {
		t.Fatalf("Face error: %v", err)
	}
	b := f.Bounds("hg")
	if b.MinY < 0 {
		t.Fatalf("ink above the ascender line: %+v", b)
	}
	if b.Dy() <= 0 || b.Dy() > 60 {
		t.Fatalf("unexpected line height %d for 40px", b.Dy())
	}
	if (f.Bounds("") != layout.Bounds{}) {
		t.Fatalf("empty text should have empty bounds")
	}
}

func TestMissingFontReportsUnavailable(t *testing.T) {
	r := NewRenderer("does-not-exist.ttf")
	if _, err := r.Face(20); !errors.Is(err, renderer.ErrFontUnavailable) {
		t.Fatalf("expected ErrFontUnavailable, got %v", err)
	}
	if h := r.Fallback().Bounds("hg").Dy(); h <= 0 {
		t.Fatalf("fallback face should measure text, got height %d", h)
	}
}

func TestFitWithRealFont(t *testing.T) {
	r := NewRenderer(fonts.Default)
	box := layout.CaptionBox(1080, 1920, layout.DefaultPlaceOptions())
	res, err := layout.Fit(sampleQuote, box, r, layout.DefaultFitOptions())
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if res.Size != 48 || res.Degraded {
		t.Fatalf("expected 48px without degradation, got %d degraded=%v", res.Size, res.Degraded)
	}
	for _, ln := range res.Lines {
		if ln.Width > box.Width {
			t.Fatalf("line %q wider than box: %d > %d", ln.Content, ln.Width, box.Width)
		}
	}
}

func TestComposeDrawsWhiteTextWithoutTouchingBase(t *testing.T) {
	r := NewRenderer(fonts.Default)
	blue := color.RGBA{B: 200, A: 255}
	base := solid(400, 300, blue)

	box := layout.CaptionBox(400, 300, layout.DefaultPlaceOptions())
	res, err := layout.Fit("HELLO", box, r, layout.DefaultFitOptions())
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	p, err := layout.Place(res, 400, 300, layout.DefaultPlaceOptions())
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	frame, err := r.Compose(base, p)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if frame.Bounds() != base.Bounds() {
		t.Fatalf("frame size %v, want %v", frame.Bounds(), base.Bounds())
	}
	if base.RGBAAt(200, 150) != blue {
		t.Fatalf("base image was modified")
	}

	white := 0
	for y := p.StartY; y < p.StartY+res.TotalHeight(); y++ {
		for x := 0; x < 400; x++ {
			c := frame.RGBAAt(x, y)
			if c.R > 240 && c.G > 240 && c.B > 240 {
				white++
			}
		}
	}
	if white == 0 {
		t.Fatalf("no white text pixels inside the caption block")
	}
	if frame.RGBAAt(0, 0) != blue {
		t.Fatalf("pixels outside the caption changed: %v", frame.RGBAAt(0, 0))
	}
}

func TestComposeFallbackPlacement(t *testing.T) {
	r := NewRenderer("missing.ttf")
	base := solid(320, 240, color.Black)
	res := layout.FitFallback("That feeling when you're ready for adventure", r.Fallback(), layout.DefaultFallbackWidth)
	p, err := layout.Place(res, 320, 240, layout.DefaultPlaceOptions())
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	frame, err := r.Compose(base, p)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if frame.Bounds().Dx() != 320 || frame.Bounds().Dy() != 240 {
		t.Fatalf("unexpected frame size %v", frame.Bounds())
	}
}

func TestComposeRejectsNil(t *testing.T) {
	r := NewRenderer(fonts.Default)
	if _, err := r.Compose(nil, &layout.Placement{}); err == nil {
		t.Fatalf("expected error for nil base")
	}
	if _, err := r.Compose(solid(2, 2, color.White), nil); err == nil {
		t.Fatalf("expected error for nil placement")
	}
}
