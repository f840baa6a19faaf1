package layout

import (
	"fmt"

	"github.com/ByLCY/cylscale/binding"
)

// ComputeScene 根据参数与数据点生成刻度尺的绘制指令，等价于使用零值选项的 Build。
func ComputeScene(p ParameterSet, recs []PlotRecord) (*Scene, error) {
	return Build(p, recs, BuildOptions{})
}

// Build 是布局引擎入口。相同输入总是得到完全相同的 Scene；函数不持有任何共享状态，可并发调用。
func Build(p ParameterSet, recs []PlotRecord, opts BuildOptions) (*Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateRecords(recs); err != nil {
		return nil, err
	}

	g := ComputeGeometry(p)
	b := newSceneBuilder(p, g, opts)

	b.background()
	b.baseline()
	b.ticks()
	if p.EnablePlottedNumbers && len(recs) > 0 {
		b.plotted(recs)
	}
	if p.EnableTitle {
		b.title()
	}
	if p.EnableTrimMarks {
		b.trimMarks()
	}
	return b.scene(), nil
}

func validateRecords(recs []PlotRecord) error {
	for i, r := range recs {
		if r.Direction != DirectionUp && r.Direction != DirectionDown {
			return &ConfigError{Field: fmt.Sprintf("records[%d].direction", i), Value: r.Direction.String(), Reason: "应为 U 或 D"}
		}
		if r.Offset < 0 {
			return &ConfigError{Field: fmt.Sprintf("records[%d].offset", i), Value: r.Offset, Reason: "不能为负数"}
		}
	}
	return nil
}

// sceneBuilder 按绘制顺序收集指令。
type sceneBuilder struct {
	p    ParameterSet
	g    Geometry
	opts BuildOptions
	fg   Color
	bg   Color
	cmds []Command
}

func newSceneBuilder(p ParameterSet, g Geometry, opts BuildOptions) *sceneBuilder {
	b := &sceneBuilder{p: p, g: g, opts: opts, fg: Black, bg: White}
	if p.DarkMode {
		b.fg, b.bg = White, Black
	}
	return b
}

func (b *sceneBuilder) line(ln Line) {
	b.cmds = append(b.cmds, Command{Kind: KindLine, Line: &ln})
}

func (b *sceneBuilder) text(t Text) {
	b.cmds = append(b.cmds, Command{Kind: KindText, Text: &t})
}

func (b *sceneBuilder) scene() *Scene {
	return &Scene{Width: b.g.Width, Height: b.g.Height, Commands: b.cmds}
}

func (b *sceneBuilder) background() {
	rect := FilledRect{Width: b.g.Width, Height: b.g.Height, Color: b.bg, Role: RoleBackground}
	b.cmds = append(b.cmds, Command{Kind: KindFilledRect, Rect: &rect})
}

func (b *sceneBuilder) baseline() {
	b.line(Line{
		X1:    b.g.XOffset,
		Y1:    b.g.BaselineY,
		X2:    b.g.XOffset + b.g.ExtendedScaleLength,
		Y2:    b.g.BaselineY,
		Width: b.p.ScaleLineWidthInches,
		Color: b.fg,
		Role:  RoleBaseline,
	})
}

func (b *sceneBuilder) title() {
	content := b.p.TitleText
	if b.opts.TitleData != nil {
		content = binding.Interpolate(content, b.opts.TitleData)
	}
	b.text(Text{
		X:        b.g.XOffset + b.g.ExtendedScaleLength/2,
		Y:        b.g.YOffset + b.p.TitleToTrimGapInches,
		Content:  content,
		FontSize: b.p.TitleFontSizePt,
		Bold:     true,
		Color:    b.fg,
		HAlign:   AlignCenter,
		VAlign:   AlignTop,
		Role:     RoleTitle,
	})
}

// trimMarks 在内容矩形四角各画一横一竖两条裁切线，向外偏移 gap 后再延伸 length。
func (b *sceneBuilder) trimMarks() {
	gap, length := b.p.TrimMarkGapInches, b.p.TrimMarkLengthInches
	left := b.g.XOffset
	right := b.g.XOffset + b.g.ExtendedScaleLength
	top := b.g.YOffset
	bottom := b.g.YOffset + b.p.MaxLabelHeightInches
	width := PtToIn(b.p.TrimMarkWidthPt)

	seg := func(x1, y1, x2, y2 float64) {
		b.line(Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: b.fg, Role: RoleTrimMark})
	}
	for _, y := range []struct{ edge, dir float64 }{{top, -1}, {bottom, 1}} {
		seg(left-gap, y.edge, left-gap-length, y.edge)
		seg(left, y.edge+y.dir*gap, left, y.edge+y.dir*(gap+length))
		seg(right+gap, y.edge, right+gap+length, y.edge)
		seg(right, y.edge+y.dir*gap, right, y.edge+y.dir*(gap+length))
	}
}
