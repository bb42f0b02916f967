package layout

// FitOptions 配置字号搜索范围。
type FitOptions struct {
	StartSize int // 起始（最大）字号，像素
	MinSize   int // 最小字号，像素
}

// DefaultFitOptions 从 48 递减到 20。
func DefaultFitOptions() FitOptions {
	return FitOptions{StartSize: 48, MinSize: 20}
}

// PlaceOptions 控制字幕区域与阴影。
type PlaceOptions struct {
	BoxWidth     Ratio // 字幕区宽度占图片宽度的比例
	BoxHeight    Ratio // 字幕区高度占图片高度的比例
	BottomMargin Ratio // 文本块底边距图片底边的比例
	ShadowOffset int   // 阴影最大偏移（像素），从该值递减到 1
}

// DefaultPlaceOptions 返回 90% / 30% / 25% 与 2px 阴影。
func DefaultPlaceOptions() PlaceOptions {
	return PlaceOptions{BoxWidth: 0.9, BoxHeight: 0.3, BottomMargin: 0.25, ShadowOffset: 2}
}

// Face 是已绑定字号的字体面，只负责测量。
type Face interface {
	// Bounds 返回文本的墨迹包围盒。
	Bounds(text string) Bounds
}

// Typesetter 代表一个字体族：每个候选字号都要重新获取字体面，
// 字体引擎在加载时绑定字号，不能在已有字体面上修改。
type Typesetter interface {
	Face(size int) (Face, error)
}
