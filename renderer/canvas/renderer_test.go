package canvasrenderer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/ByLCY/captionclip/fonts"
	"github.com/ByLCY/captionclip/layout"
	"github.com/ByLCY/captionclip/renderer"
)

func TestFaceMeasuresProportionally(t *testing.T) {
	r := NewRenderer(fonts.Default)
	small, err := r.Face(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large, err := r.Face(40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws, wl := small.Bounds("hello world").Dx(), large.Bounds("hello world").Dx()
	if ws <= 0 || wl <= ws {
		t.Fatalf("expected wider text at larger size, got %d then %d", ws, wl)
	}
	hs, hl := small.Bounds("hg").Dy(), large.Bounds("hg").Dy()
	if hs <= 0 || hl <= hs {
		t.Fatalf("expected taller line at larger size, got %d then %d", hs, hl)
	}
}

// 同一字体面下，不同内容的行高应一致。
func TestLineHeightIndependentOfContent(t *testing.T) {
	r := NewRenderer(fonts.Default)
	f, err := r.Face(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, b := f.Bounds("hg").Dy(), f.Bounds("ooo").Dy(); a != b {
		t.Fatalf("line heights differ: %d vs %d", a, b)
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	r := NewRenderer("nope/arial.ttf")
	if _, err := r.Face(20); !errors.Is(err, renderer.ErrFontUnavailable) {
		t.Fatalf("expected ErrFontUnavailable, got %v", err)
	}
	if r.Fallback().Bounds("hg").Dy() <= 0 {
		t.Fatalf("fallback face should have a positive line height")
	}
}

func TestFitWrapsWithinBox(t *testing.T) {
	r := NewRenderer(fonts.Default)
	box := layout.Box{Width: 300, Height: 400}
	res, err := layout.Fit("When your code works on the first try and you don't know why", box, r, layout.DefaultFitOptions())
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if len(res.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(res.Lines))
	}
	for _, ln := range res.Lines {
		// 单个超宽单词允许溢出
		if ln.Width > box.Width && strings.Contains(ln.Content, " ") {
			t.Fatalf("line %q exceeds box: %d", ln.Content, ln.Width)
		}
	}
}

func TestComposeKeepsSizeAndDrawsText(t *testing.T) {
	r := NewRenderer(fonts.Default)
	base := image.NewRGBA(image.Rect(0, 0, 240, 160))
	draw.Draw(base, base.Rect, &image.Uniform{C: color.RGBA{G: 120, A: 255}}, image.Point{}, draw.Src)

	res, err := layout.Fit("HI", layout.CaptionBox(240, 160, layout.DefaultPlaceOptions()), r, layout.DefaultFitOptions())
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	p, err := layout.Place(res, 240, 160, layout.DefaultPlaceOptions())
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	frame, err := r.Compose(base, p)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if frame.Bounds() != base.Bounds() {
		t.Fatalf("frame bounds %v, want %v", frame.Bounds(), base.Bounds())
	}
	changed := false
	for y := 0; y < 160 && !changed; y++ {
		for x := 0; x < 240; x++ {
			if frame.RGBAAt(x, y) != base.RGBAAt(x, y) {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Fatalf("compose did not draw anything")
	}
}
