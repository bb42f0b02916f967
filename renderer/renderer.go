package renderer

import (
	"errors"
	"image"

	"github.com/ByLCY/captionclip/layout"
)

// ErrFontUnavailable 表示配置的字体无法加载，调用方应改用 Fallback 字体面与定宽折行。
var ErrFontUnavailable = errors.New("font unavailable")

// FallbackSize 是内置字体在矢量引擎中的像素字号。
const FallbackSize = 13

// Renderer 既是排版后端（按字号加载字体面），也负责把绘制计划烧录到底图上。
// Compose 不修改 base，返回新的帧。
type Renderer interface {
	layout.Typesetter
	Fallback() layout.Face
	Compose(base image.Image, p *layout.Placement) (*image.RGBA, error)
}
