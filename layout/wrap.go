package layout

import (
	"strings"
	"unicode"
)

// DefaultFallbackWidth 是字体不可用时定宽折行的字符数。
const DefaultFallbackWidth = 30

// FallbackWrap 按字符数定宽折行：空白折叠为单个空格，逐段贪心拼接。
// 单词在字母间的连字符之后可以断行（well-known 拆为 well- 与 known）。
// 超过 width 的片段先填满当前行剩余空间，再按 width 个字符切段。
func FallbackWrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultFallbackWidth
	}
	var lines []string
	var current []rune
	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, string(current))
		current = current[:0]
	}

	for _, c := range wrapChunks(text) {
		runes := c.text
		sep := 0
		if len(current) > 0 && c.spaced {
			sep = 1
		}
		if len(current)+sep+len(runes) <= width {
			if sep == 1 {
				current = append(current, ' ')
			}
			current = append(current, runes...)
			continue
		}
		if len(runes) <= width {
			flush()
			current = append(current, runes...)
			continue
		}

		// 超长片段
		if len(current) > 0 {
			if space := width - len(current) - sep; space > 0 {
				if sep == 1 {
					current = append(current, ' ')
				}
				current = append(current, runes[:space]...)
				runes = runes[space:]
			}
			flush()
		}
		for len(runes) > width {
			current = append(current, runes[:width]...)
			runes = runes[width:]
			flush()
		}
		current = append(current, runes...)
	}
	flush()
	return lines
}

// wrapChunk 是折行的最小单位；spaced 表示它与前一片段之间原本有空白。
type wrapChunk struct {
	text   []rune
	spaced bool
}

// wrapChunks 按空白切词，再在每个词的可断连字符之后切开。
func wrapChunks(text string) []wrapChunk {
	var chunks []wrapChunk
	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		start := 0
		for i := range runes {
			if runes[i] == '-' && hyphenBreak(runes, i) {
				chunks = append(chunks, wrapChunk{text: runes[start : i+1], spaced: start == 0})
				start = i + 1
			}
		}
		chunks = append(chunks, wrapChunk{text: runes[start:], spaced: start == 0})
	}
	return chunks
}

// hyphenBreak 判断 runes[i] 处的连字符之后能否断行：
// 前面是两个字母（或 字母-字母），后面是字母加可选连字符再加字母。
func hyphenBreak(runes []rune, i int) bool {
	at := func(j int) rune {
		if j < 0 || j >= len(runes) {
			return 0
		}
		return runes[j]
	}
	before := isWordLetter(at(i-1)) && (isWordLetter(at(i-2)) || (at(i-2) == '-' && isWordLetter(at(i-3))))
	if !before || !isWordLetter(at(i+1)) {
		return false
	}
	return isWordLetter(at(i+2)) || (at(i+2) == '-' && isWordLetter(at(i+3)))
}

func isWordLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// FitFallback 使用内置字体面与定宽折行构造结果。
func FitFallback(text string, face Face, width int) *FitResult {
	lines := FallbackWrap(text, width)
	return &FitResult{
		Lines:      measureLines(lines, face),
		LineHeight: face.Bounds(lineHeightProbe).Dy(),
		Fallback:   true,
	}
}
