package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDebugJSON 把场景（含 BuildOptions.Debug.Placement 附加的排布信息）写成缩进 JSON。
func WriteDebugJSON(s *Scene, path string) error {
	if s == nil {
		return fmt.Errorf("场景为空")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("写出场景 %s 失败: %w", path, err)
	}
	return f.Close()
}

// CrowdedCount 统计场景中被标记为拥挤的数据点数量；未开启排布调试时为 0。
func CrowdedCount(s *Scene) int {
	n := 0
	for _, t := range s.Texts(RolePlotted) {
		if t.Debug != nil && t.Debug.Crowded {
			n++
		}
	}
	return n
}
