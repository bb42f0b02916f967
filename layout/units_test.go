package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 48, 72, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back-pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	if got := PxToPt(20) * PtToMm; math.Abs(got-20) > 1e-9 {
		t.Fatalf("20px 换算为 pt 再回到 mm 应为 20，实际 %g", got)
	}
}

// TestParseRatio 覆盖小数、百分比与倍数三种写法。
func TestParseRatio(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.9", 0.9},
		{"90%", 0.9},
		{" 30 % ", 0.3},
		{"0.25x", 0.25},
		{"1", 1},
		{"0", 0},
	}
	for _, c := range cases {
		got, err := ParseRatio(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if math.Abs(float64(got)-c.want) > 1e-9 {
			t.Fatalf("解析 %q 期望 %g，实际 %g", c.in, c.want, float64(got))
		}
	}
	for _, bad := range []string{"", "abc", "120%", "-0.1", "1.5"} {
		if _, err := ParseRatio(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
}

// TestRatioOfTruncates 验证比例换算像素时向零截断。
func TestRatioOfTruncates(t *testing.T) {
	if got := Ratio(0.9).Of(1081); got != 972 {
		t.Fatalf("0.9 × 1081 期望 972，实际 %d", got)
	}
	if got := Ratio(0.3).Of(1920); got != 576 {
		t.Fatalf("0.3 × 1920 期望 576，实际 %d", got)
	}
}

// TestRatioTextRoundTrip 验证 MarshalText/UnmarshalText 往返。
func TestRatioTextRoundTrip(t *testing.T) {
	var r Ratio
	if err := r.UnmarshalText([]byte("25%")); err != nil {
		t.Fatalf("UnmarshalText 失败: %v", err)
	}
	text, err := r.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText 失败: %v", err)
	}
	if string(text) != "25%" {
		t.Fatalf("期望 25%%，实际 %s", text)
	}
}
