package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/captionclip/fonts"
	"github.com/ByLCY/captionclip/layout"
)

// 行宽恰好等于字幕区宽度时应保留在同一行，不应被折行。
func TestLineEqualToBoxWidthStaysOnOneLine(t *testing.T) {
	r := NewRenderer(fonts.Default)
	const size = 30
	f, err := r.Face(size)
	if err != nil {
		t.Fatalf("Face error: %v", err)
	}

	text := "SAMPLE A"
	limit := f.Bounds(text).MaxX
	if limit <= 0 {
		t.Fatalf("invalid measured width: %d", limit)
	}

	box := layout.Box{Width: limit, Height: f.Bounds("hg").Dy()}
	res, err := layout.Fit(text, box, r, layout.FitOptions{StartSize: size, MinSize: size})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if res.Degraded {
		t.Fatalf("unexpected degradation")
	}
	if got := res.Contents(); len(got) != 1 || got[0] != text {
		t.Fatalf("expected a single line %q, got %q", text, got)
	}

	// 少一个像素就必须折成两行
	box.Width = limit - 1
	box.Height = 10 * box.Height
	res, err = layout.Fit(text, box, r, layout.FitOptions{StartSize: size, MinSize: size})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if got := res.Contents(); len(got) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
}
