package layout

// 该文件定义字幕排版结果与绘制计划，供排版计算、渲染与调试 JSON 共用。

// Box 是图片内为字幕保留的矩形区域，单位为像素。
type Box struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds 描述一段文本的墨迹包围盒（像素），原点为文本绘制起点（行顶部左侧）。
// MaxX 即文本右侧墨迹边缘，换行判断以它为准；Dx/Dy 用于居中与行高。
type Bounds struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

// Dx 返回墨迹宽度。
func (b Bounds) Dx() int { return b.MaxX - b.MinX }

// Dy 返回墨迹高度。
func (b Bounds) Dy() int { return b.MaxY - b.MinY }

// TextLine 表示排版后的一行文本及其墨迹宽度。
type TextLine struct {
	Content string `json:"content"`
	Width   int    `json:"width"`
}

// FitResult 保存自动适配的结果：选中的字号、逐行内容与统一行高。
type FitResult struct {
	Size       int        `json:"size"`
	Lines      []TextLine `json:"lines"`
	LineHeight int        `json:"lineHeight"`
	// Degraded 表示没有任何字号满足高度约束，结果取自最小字号。
	Degraded bool `json:"degraded,omitempty"`
	// Fallback 表示字体无法加载，结果来自内置字体与定宽折行。
	Fallback bool `json:"fallback,omitempty"`
}

// Contents 返回所有行的文本内容。
func (r *FitResult) Contents() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		out[i] = ln.Content
	}
	return out
}

// TotalHeight 返回 行数 × 行高。
func (r *FitResult) TotalHeight() int {
	if r == nil {
		return 0
	}
	return len(r.Lines) * r.LineHeight
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	ShadowBlack = Color{R: 0, G: 0, B: 0, A: 128}
)

// Glyph 是一次绘制操作：在 (X, Y) 处以 Color 绘制 Content，Y 为行顶部。
type Glyph struct {
	Content string `json:"content"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Color   Color  `json:"color"`
}

// Placement 是帧合成的完整绘制计划，按顺序执行即可得到最终画面。
type Placement struct {
	ImageWidth  int       `json:"imageWidth"`
	ImageHeight int       `json:"imageHeight"`
	Box         Box       `json:"box"`
	Fit         FitResult `json:"fit"`
	StartY      int       `json:"startY"`
	Ops         []Glyph   `json:"ops"`
}
