package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将绘制计划输出为 JSON，便于调试字号选择与行位置。
func WriteDebugJSON(p *Placement, path string) error {
	if p == nil {
		return nil
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
