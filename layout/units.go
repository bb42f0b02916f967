package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt 把像素字号换算为 pt。渲染器以 1px = 1mm 的分辨率光栅化，
// 因此像素值即毫米值。
func PxToPt(px float64) float64 { return px * MmToPt }

// Ratio 是 0~1 之间的比例，配置里可写作 0.9、90% 或 0.9x。
type Ratio float64

// ParseRatio 解析比例字符串。
func ParseRatio(value string) (Ratio, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("比例不能为空")
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "%"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
		scale = 0.01
	case strings.HasSuffix(v, "x"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "x"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析比例 %q: %w", value, err)
	}
	f *= scale
	if math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("比例 %q 超出 [0, 1] 范围", value)
	}
	return Ratio(f), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，使 YAML 可直接写 "90%"。
func (r *Ratio) UnmarshalText(text []byte) error {
	parsed, err := ParseRatio(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText 以百分比形式输出。
func (r Ratio) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(r)*100, 'f', -1, 64) + "%"), nil
}

// Of 返回 int(total * r)，向零截断。
func (r Ratio) Of(total int) int {
	return int(float64(total) * float64(r))
}
