package layout

// BuildOptions 配置布局阶段的可选行为。零值即标准输出。
type BuildOptions struct {
	Debug DebugOptions
	// TitleData 非空时，标题中的 ${key} 占位符按该数据展开；为空时标题按字面输出。
	TitleData any
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Placement bool // 为每个数据点文本附加 debug 放置信息（行、行内刻度、堆叠序号、拥挤标记）
}
