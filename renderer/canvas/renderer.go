package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/captionclip/fonts"
	"github.com/ByLCY/captionclip/layout"
	"github.com/ByLCY/captionclip/renderer"
)

// Renderer measures and draws captions via github.com/tdewolff/canvas.
// One canvas millimetre maps to one output pixel.
type Renderer struct {
	family  *canvas.FontFamily
	fontErr error

	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// resolution keeps canvas units equal to pixels.
var resolution = canvas.DPMM(1.0)

// NewRenderer loads the font at src into a font family. Load failures are
// reported by Face as renderer.ErrFontUnavailable.
func NewRenderer(src string) *Renderer {
	r := &Renderer{}
	family, err := loadFamily("caption", src)
	if err != nil {
		r.fontErr = fmt.Errorf("%w: %v", renderer.ErrFontUnavailable, err)
	} else {
		r.family = family
	}
	if fb, err := loadFamily("caption-fallback", fonts.Default); err == nil {
		r.fallbackFamily = fb
	}
	return r
}

func loadFamily(name, src string) (*canvas.FontFamily, error) {
	data, err := fonts.Load(src)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	return family, nil
}

// Face creates a new font face at size pixels.
func (r *Renderer) Face(size int) (layout.Face, error) {
	ff, err := r.fontFace(size, layout.White)
	if err != nil {
		return nil, err
	}
	return face{ff}, nil
}

// Fallback returns the built-in font at renderer.FallbackSize.
func (r *Renderer) Fallback() layout.Face {
	return face{r.fallbackFace(layout.White)}
}

func (r *Renderer) fontFace(size int, col layout.Color) (*canvas.FontFace, error) {
	if r.fontErr != nil {
		return nil, r.fontErr
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}
	return r.family.Face(layout.PxToPt(float64(size)), colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) fallbackFace(col layout.Color) *canvas.FontFace {
	// nil only if the compiled-in goregular font fails to parse
	if r.fallbackFamily == nil {
		panic("canvas renderer: built-in fallback font unavailable")
	}
	return r.fallbackFamily.Face(layout.PxToPt(renderer.FallbackSize), colorFromLayout(col), canvas.FontRegular, canvas.FontNormal)
}

// Compose rasterizes the glyph operations onto a transparent layer of the
// same size as base and blends it over a copy of base.
func (r *Renderer) Compose(base image.Image, p *layout.Placement) (*image.RGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("base image is nil")
	}
	if p == nil {
		return nil, fmt.Errorf("placement is nil")
	}
	bounds := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Rect, base, bounds.Min, draw.Src)

	c := canvas.New(float64(bounds.Dx()), float64(bounds.Dy()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与排版坐标一致

	faces := map[layout.Color]*canvas.FontFace{}
	for _, op := range p.Ops {
		if op.Content == "" {
			continue
		}
		ff, ok := faces[op.Color]
		if !ok {
			var err error
			if ff, err = r.faceFor(p.Fit, op.Color); err != nil {
				return nil, err
			}
			faces[op.Color] = ff
		}
		baseline := float64(op.Y) + ff.Metrics().Ascent
		ctx.DrawText(float64(op.X), baseline, canvas.NewTextLine(ff, op.Content, canvas.Left))
	}

	layer := rasterizer.Draw(c, resolution, canvas.DefaultColorSpace)
	draw.Draw(out, out.Rect, layer, layer.Bounds().Min, draw.Over)
	return out, nil
}

func (r *Renderer) faceFor(fit layout.FitResult, col layout.Color) (*canvas.FontFace, error) {
	if fit.Fallback {
		return r.fallbackFace(col), nil
	}
	return r.fontFace(fit.Size, col)
}

// face adapts a canvas font face to layout.Face. Heights come from the
// font metrics rather than glyph ink, so every line of a face has the same box.
type face struct {
	ff *canvas.FontFace
}

func (f face) Bounds(text string) layout.Bounds {
	if text == "" {
		return layout.Bounds{}
	}
	m := f.ff.Metrics()
	return layout.Bounds{
		MaxX: int(math.Ceil(f.ff.TextWidth(text))),
		MaxY: int(math.Ceil(m.Ascent + math.Abs(m.Descent))),
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
