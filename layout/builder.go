package layout

import "fmt"

// CaptionBox 根据图片尺寸与比例计算字幕区域。
func CaptionBox(imageWidth, imageHeight int, opts PlaceOptions) Box {
	return Box{
		Width:  opts.BoxWidth.Of(imageWidth),
		Height: opts.BoxHeight.Of(imageHeight),
	}
}

// Place 根据排版结果生成绘制计划：每行水平居中，
// 文本块底边位于图片底边之上 BottomMargin × 图片高度处。
// 每行先绘制从 ShadowOffset 递减到 1 的半透明黑色阴影，再绘制白色正文。
func Place(fit *FitResult, imageWidth, imageHeight int, opts PlaceOptions) (*Placement, error) {
	if fit == nil {
		return nil, fmt.Errorf("排版结果为空")
	}
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("图片尺寸无效: %dx%d", imageWidth, imageHeight)
	}

	startY := imageHeight - fit.TotalHeight() - opts.BottomMargin.Of(imageHeight)
	shadows := max(opts.ShadowOffset, 0)
	ops := make([]Glyph, 0, len(fit.Lines)*(shadows+1))

	y := startY
	for _, line := range fit.Lines {
		x := floorDiv(imageWidth-line.Width, 2)
		for offset := shadows; offset > 0; offset-- {
			ops = append(ops, Glyph{Content: line.Content, X: x + offset, Y: y + offset, Color: ShadowBlack})
		}
		ops = append(ops, Glyph{Content: line.Content, X: x, Y: y, Color: White})
		y += fit.LineHeight
	}

	return &Placement{
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		Box:         CaptionBox(imageWidth, imageHeight, opts),
		Fit:         *fit,
		StartY:      startY,
		Ops:         ops,
	}, nil
}

// floorDiv 向下取整除法，行宽超过图片宽度时 x 为负数，需与整除语义一致。
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
