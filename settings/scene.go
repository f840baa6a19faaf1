package settings

import (
	"github.com/ByLCY/cylscale/binding"
	"github.com/ByLCY/cylscale/layout"
	"github.com/ByLCY/cylscale/records"
)

// SceneOptions 控制由设置生成场景的过程。
type SceneOptions struct {
	// SkipInvalid 跳过无法解析的记录行，而不是整体失败。
	SkipInvalid bool
	// DebugPlacement 为数据点附加放置调试信息。
	DebugPlacement bool
	// BindTitle 以参数值展开标题中的 ${key} 占位符。
	BindTitle bool
}

// Scene 解析内嵌记录并计算场景。SkipInvalid 时返回被跳过的行。
func (d *Document) Scene(opts SceneOptions) (*layout.Scene, []*records.ParseError, error) {
	recs, skipped, err := records.ParseWithOptions(d.CSVData, records.ParseOptions{SkipInvalid: opts.SkipInvalid})
	if err != nil {
		return nil, nil, err
	}
	build := layout.BuildOptions{Debug: layout.DebugOptions{Placement: opts.DebugPlacement}}
	if opts.BindTitle {
		data, err := binding.Data(d.ParameterSet)
		if err != nil {
			return nil, nil, err
		}
		build.TitleData = data
	}
	scene, err := layout.Build(d.ParameterSet, recs, build)
	if err != nil {
		return nil, nil, err
	}
	return scene, skipped, nil
}
