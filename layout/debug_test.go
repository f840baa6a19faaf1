package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugJSONAndCrowdedCount(t *testing.T) {
	recs := []PlotRecord{
		{Number: 1, Direction: DirectionUp, Offset: 1},
		{Number: 2, Direction: DirectionUp, Offset: 2},
		{Number: 3, Direction: DirectionUp, Offset: 20},
	}
	plain := mustBuild(t, Defaults(), recs, BuildOptions{})
	if n := CrowdedCount(plain); n != 0 {
		t.Fatalf("未开启调试时拥挤数应为 0，实际 %d", n)
	}

	s := mustBuild(t, Defaults(), recs, BuildOptions{Debug: DebugOptions{Placement: true}})
	if n := CrowdedCount(s); n != 2 {
		t.Fatalf("期望 2 个拥挤点，实际 %d", n)
	}

	path := filepath.Join(t.TempDir(), "nested", "scene.json")
	if err := WriteDebugJSON(s, path); err != nil {
		t.Fatalf("写出失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Scene
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("输出不是场景 JSON: %v", err)
	}
	if CrowdedCount(&back) != 2 || len(back.Commands) != len(s.Commands) {
		t.Fatalf("回读场景不一致")
	}

	if err := WriteDebugJSON(nil, path); err == nil {
		t.Fatalf("nil 场景应返回错误")
	}
}
