package rasterrenderer

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/captionclip/fonts"
	"github.com/ByLCY/captionclip/layout"
	"github.com/ByLCY/captionclip/renderer"
)

// Renderer measures and draws captions with github.com/golang/freetype
// faces on a github.com/fogleman/gg context.
type Renderer struct {
	font    *truetype.Font
	fontErr error
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer parses the font at src once. A font that cannot be read or
// parsed does not fail construction: Face reports renderer.ErrFontUnavailable
// so callers can switch to the fallback face.
func NewRenderer(src string) *Renderer {
	r := &Renderer{}
	data, err := fonts.Load(src)
	if err != nil {
		r.fontErr = fmt.Errorf("%w: %v", renderer.ErrFontUnavailable, err)
		return r
	}
	f, err := truetype.Parse(data)
	if err != nil {
		r.fontErr = fmt.Errorf("%w: parse %s: %v", renderer.ErrFontUnavailable, src, err)
		return r
	}
	r.font = f
	return r
}

// Face builds a fresh face for the given pixel size.
func (r *Renderer) Face(size int) (layout.Face, error) {
	ff, err := r.fontFace(size)
	if err != nil {
		return nil, err
	}
	return face{ff}, nil
}

// Fallback returns the built-in bitmap face.
func (r *Renderer) Fallback() layout.Face { return face{basicfont.Face7x13} }

func (r *Renderer) fontFace(size int) (font.Face, error) {
	if r.fontErr != nil {
		return nil, r.fontErr
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}
	// 72 DPI makes one point equal one pixel.
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Compose copies base and draws every glyph of the placement on top.
func (r *Renderer) Compose(base image.Image, p *layout.Placement) (*image.RGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("base image is nil")
	}
	if p == nil {
		return nil, fmt.Errorf("placement is nil")
	}
	var ff font.Face
	if p.Fit.Fallback {
		ff = basicfont.Face7x13
	} else {
		var err error
		if ff, err = r.fontFace(p.Fit.Size); err != nil {
			return nil, err
		}
	}
	ascent := fixedToFloat(ff.Metrics().Ascent)

	dc := gg.NewContextForImage(base)
	dc.SetFontFace(ff)
	for _, op := range p.Ops {
		if op.Content == "" {
			continue
		}
		dc.SetRGBA255(int(op.Color.R), int(op.Color.G), int(op.Color.B), int(op.Color.A))
		dc.DrawString(op.Content, float64(op.X), float64(op.Y)+ascent)
	}

	if img, ok := dc.Image().(*image.RGBA); ok {
		return img, nil
	}
	out := image.NewRGBA(dc.Image().Bounds())
	draw.Draw(out, out.Rect, dc.Image(), out.Rect.Min, draw.Src)
	return out, nil
}

// face adapts a font.Face to layout.Face. Bounds are rebased so that y=0
// is the ascender line, the origin Compose draws from.
type face struct {
	ff font.Face
}

func (f face) Bounds(text string) layout.Bounds {
	if text == "" {
		return layout.Bounds{}
	}
	b, _ := font.BoundString(f.ff, text)
	ascent := f.ff.Metrics().Ascent
	return layout.Bounds{
		MinX: b.Min.X.Floor(),
		MinY: (b.Min.Y + ascent).Floor(),
		MaxX: b.Max.X.Ceil(),
		MaxY: (b.Max.Y + ascent).Ceil(),
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
