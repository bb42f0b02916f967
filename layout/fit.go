package layout

import (
	"fmt"
	"strings"
)

// lineHeightProbe 用于测量统一行高：比逐行测量更稳定，
// 比例字体的单个字形上升/下降部并不规则。
const lineHeightProbe = "hg"

// Fit 在 [MinSize, StartSize] 内从大到小搜索第一个能放进 box 的字号，
// 并返回该字号下的贪心换行结果。
//
// 若没有字号满足高度约束，返回 MinSize 下的完整排版并标记 Degraded，
// 文本可能溢出 box，但不会报错。零尺寸的 box 同样走降级路径。空文本返回零行。
func Fit(text string, box Box, ts Typesetter, opts FitOptions) (*FitResult, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if opts.MinSize < 1 || opts.StartSize < opts.MinSize {
		return nil, fmt.Errorf("字号范围无效: start=%d min=%d", opts.StartSize, opts.MinSize)
	}
	if box.Width < 0 || box.Height < 0 {
		return nil, fmt.Errorf("字幕区域无效: %dx%d", box.Width, box.Height)
	}

	words := strings.Fields(text)
	for size := opts.StartSize; size >= opts.MinSize; size-- {
		face, err := ts.Face(size)
		if err != nil {
			return nil, fmt.Errorf("加载 %dpx 字体失败: %w", size, err)
		}
		// 最小字号不提前退出，降级结果需要包含全部文字
		last := size == opts.MinSize
		res := greedyWrap(words, box, face, !last)
		res.Size = size
		if res.TotalHeight() <= box.Height {
			return res, nil
		}
		if last {
			res.Degraded = true
			return res, nil
		}
	}
	// 不可达：循环至少执行一次 MinSize
	return nil, fmt.Errorf("字号搜索未产生结果")
}

// greedyWrap 逐词贪心换行：把下一个词以单个空格追加到最后一行，
// 右侧墨迹边缘不超过 box 宽度则接受，否则另起一行。单词本身超宽时独占一行，不做断词。
// earlyExit 为 true 时，一旦累计高度超过 box 高度就停止放词。
func greedyWrap(words []string, box Box, face Face, earlyExit bool) *FitResult {
	lineHeight := face.Bounds(lineHeightProbe).Dy()
	lines := make([]string, 0, 4)
	for _, word := range words {
		if len(lines) == 0 {
			lines = append(lines, word)
		} else {
			candidate := lines[len(lines)-1] + " " + word
			if face.Bounds(candidate).MaxX <= box.Width {
				lines[len(lines)-1] = candidate
			} else {
				lines = append(lines, word)
			}
		}
		if earlyExit && len(lines)*lineHeight > box.Height {
			break
		}
	}
	return &FitResult{
		Lines:      measureLines(lines, face),
		LineHeight: lineHeight,
	}
}

func measureLines(lines []string, face Face) []TextLine {
	out := make([]TextLine, len(lines))
	for i, ln := range lines {
		out[i] = TextLine{Content: ln, Width: face.Bounds(ln).Dx()}
	}
	return out
}
