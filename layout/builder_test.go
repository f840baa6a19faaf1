package layout

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"testing"
)

func eq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func mustBuild(t *testing.T, p ParameterSet, recs []PlotRecord, opts BuildOptions) *Scene {
	t.Helper()
	s, err := Build(p, recs, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return s
}

func labelValues(t *testing.T, s *Scene) []int {
	t.Helper()
	var out []int
	for _, tx := range s.Texts(RoleTickLabel) {
		v, err := strconv.Atoi(tx.Content)
		if err != nil {
			t.Fatalf("刻度编号不是整数: %q", tx.Content)
		}
		out = append(out, v)
	}
	return out
}

func TestDeterminism(t *testing.T) {
	p := Defaults()
	recs := []PlotRecord{
		{Number: 15, Direction: DirectionUp, Offset: 6.8},
		{Number: 30, Direction: DirectionDown, Offset: 9.8},
		{Number: 95, Direction: DirectionUp, Offset: 49, ToggleIndicator: true},
	}
	a := mustBuild(t, p, recs, BuildOptions{})
	b := mustBuild(t, p, recs, BuildOptions{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("相同输入产生了不同的 Scene")
	}
}

// TestDefaultScenario 60 个刻度、长刻度间隔 4、起点 3：共 64 条刻度线，第 3 与第 63 个刻度编号为 0。
func TestDefaultScenario(t *testing.T) {
	p := Defaults()
	p.CylinderDiameterInches = 1.25
	p.TapeThicknessInches = 0.005
	s := mustBuild(t, p, nil, BuildOptions{})

	ticks := s.Lines(RoleTick)
	if len(ticks) != 64 {
		t.Fatalf("期望 64 条刻度线，实际 %d", len(ticks))
	}
	labels := labelValues(t, s)
	want := []int{0, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("刻度编号错误: got=%v want=%v", labels, want)
	}

	g := ComputeGeometry(p)
	texts := s.Texts(RoleTickLabel)
	if x := g.XOffset + 2*g.TickSpacing; !eq(texts[0].X, x) {
		t.Fatalf("第一个长刻度应位于 clickNumber 3: got=%g want=%g", texts[0].X, x)
	}
	if x := g.XOffset + 62*g.TickSpacing; !eq(texts[len(texts)-1].X, x) {
		t.Fatalf("最后一个长刻度应位于 clickNumber 63: got=%g want=%g", texts[len(texts)-1].X, x)
	}
}

func TestReverseNumbering(t *testing.T) {
	p := Defaults()
	p.ReverseNumbering = true
	labels := labelValues(t, mustBuild(t, p, nil, BuildOptions{}))
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 0}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("反向编号错误: got=%v want=%v", labels, want)
	}
}

// TestSeamAndBijection 覆盖多组刻度参数：首尾编号为 0，其余编号恰为 1..maxNumber 各一次。
func TestSeamAndBijection(t *testing.T) {
	for _, numClicks := range []int{10, 37, 60, 100} {
		for _, interval := range []int{1, 3, 4, 5, 10} {
			for _, start := range []int{1, 2, 3, 7} {
				for _, reverse := range []bool{false, true} {
					p := Defaults()
					p.NumClicks = numClicks
					p.LongClickInterval = interval
					p.LongClickStart = start
					p.ReverseNumbering = reverse
					labels := labelValues(t, mustBuild(t, p, nil, BuildOptions{}))
					if len(labels) < 2 {
						continue
					}
					if labels[0] != 0 || labels[len(labels)-1] != 0 {
						t.Fatalf("n=%d i=%d s=%d: 接缝编号应为 0: %v", numClicks, interval, start, labels)
					}
					inner := labels[1 : len(labels)-1]
					maxNumber := len(labels) - 2
					for k, v := range inner {
						want := maxNumber - k
						if reverse {
							want = k + 1
						}
						if v != want {
							t.Fatalf("n=%d i=%d s=%d reverse=%v: 编号序列错误 %v", numClicks, interval, start, reverse, labels)
						}
					}
				}
			}
		}
	}
}

func TestTickTiers(t *testing.T) {
	p := Defaults()
	s := mustBuild(t, p, nil, BuildOptions{})
	g := ComputeGeometry(p)
	ticks := s.Lines(RoleTick)
	for i, ln := range ticks {
		clickNumber := i + 1
		length := ln.Y1 - ln.Y2
		var wantLen, wantWidth float64
		switch {
		case clickNumber >= 3 && (clickNumber-3)%4 == 0:
			wantLen, wantWidth = g.ClickLength+g.LongExtra, p.LongClickWidthInches
		case (clickNumber-1)%2 == 0:
			wantLen, wantWidth = g.ClickLength+g.MediumExtra, p.MediumClickWidthInches
		default:
			wantLen, wantWidth = g.ClickLength, p.ClickWidthInches
		}
		if !eq(length, wantLen) || ln.Width != wantWidth {
			t.Fatalf("刻度 %d: len=%g width=%g, want len=%g width=%g", clickNumber, length, ln.Width, wantLen, wantWidth)
		}
		if !eq(ln.X1, g.XOffset+float64(i)*g.TickSpacing) || ln.Y1 != g.BaselineY {
			t.Fatalf("刻度 %d 位置错误: (%g,%g)", clickNumber, ln.X1, ln.Y1)
		}
	}
}

func TestClickHeightMultiplier(t *testing.T) {
	p := Defaults()
	p.ClickHeightMultiplierPercent = 50
	g := ComputeGeometry(p)
	if !eq(g.ClickLength, 0.025) || !eq(g.LongExtra, 0.06) || !eq(g.MaxClickLength, 0.085) {
		t.Fatalf("刻度高度倍率未生效: %+v", g)
	}
}

// TestSpacing 扩展刻度尺比原始刻度尺长 64/60，而两种间距都等于 π·D/numClicks。
func TestSpacing(t *testing.T) {
	p := Defaults()
	g := ComputeGeometry(p)
	if g.ExtendedNumClicks != 64 {
		t.Fatalf("extendedNumClicks=%d", g.ExtendedNumClicks)
	}
	if !eq(g.ExtendedScaleLength/g.ScaleLength, 64.0/60.0) {
		t.Fatalf("扩展长度比例错误: %g", g.ExtendedScaleLength/g.ScaleLength)
	}
	if !eq(g.ScaleLength, math.Pi*1.255) {
		t.Fatalf("scaleLength=%g", g.ScaleLength)
	}
	if !eq(g.TickSpacing, g.BaseClickSpacing) {
		t.Fatalf("间距不一致: tick=%g base=%g", g.TickSpacing, g.BaseClickSpacing)
	}

	s := mustBuild(t, p, nil, BuildOptions{})
	base := s.Lines(RoleBaseline)
	if len(base) != 1 || !eq(base[0].X2-base[0].X1, g.ExtendedScaleLength) {
		t.Fatalf("基线长度应为扩展长度: %+v", base)
	}
}

func TestFrameSize(t *testing.T) {
	p := Defaults()
	g := ComputeGeometry(p)
	s := mustBuild(t, p, nil, BuildOptions{})
	ext := 0.03 + 0.15
	if !eq(s.Width, g.ExtendedScaleLength+2*ext) || !eq(s.Height, 0.75+2*ext) {
		t.Fatalf("画幅尺寸错误: %gx%g", s.Width, s.Height)
	}
	if len(s.Lines(RoleTrimMark)) != 8 {
		t.Fatalf("期望 8 条裁切线，实际 %d", len(s.Lines(RoleTrimMark)))
	}
	if s.Commands[0].Kind != KindFilledRect || s.Commands[0].Rect.Color != White {
		t.Fatalf("第一条指令应为白色背景: %+v", s.Commands[0])
	}

	p.EnableTrimMarks = false
	s = mustBuild(t, p, nil, BuildOptions{})
	if !eq(s.Width, g.ExtendedScaleLength) || !eq(s.Height, 0.75) {
		t.Fatalf("关闭裁切线后画幅尺寸错误: %gx%g", s.Width, s.Height)
	}
	if n := len(s.Lines(RoleTrimMark)); n != 0 {
		t.Fatalf("关闭裁切线后仍有 %d 条裁切线", n)
	}
	if bl := s.Lines(RoleBaseline)[0]; bl.X1 != 0 || !eq(bl.Y1, 0.75) {
		t.Fatalf("无裁切线时基线应从原点开始: %+v", bl)
	}
}

func TestTrimMarkGeometry(t *testing.T) {
	p := Defaults()
	s := mustBuild(t, p, nil, BuildOptions{})
	g := ComputeGeometry(p)
	marks := s.Lines(RoleTrimMark)
	first := marks[0]
	if !eq(first.X1, g.XOffset-0.03) || !eq(first.X2, g.XOffset-0.18) || !eq(first.Y1, g.YOffset) {
		t.Fatalf("左上横向裁切线错误: %+v", first)
	}
	vert := marks[1]
	if !eq(vert.X1, g.XOffset) || !eq(vert.Y1, g.YOffset-0.03) || !eq(vert.Y2, 0) {
		t.Fatalf("左上纵向裁切线错误: %+v", vert)
	}
	for _, m := range marks {
		if !eq(m.Width, 1.0/72) {
			t.Fatalf("裁切线宽度应为 1pt: %g", m.Width)
		}
		if m.X1 < -1e-9 || m.X2 > s.Width+1e-9 || m.Y1 < -1e-9 || m.Y2 > s.Height+1e-9 {
			t.Fatalf("裁切线超出画幅: %+v", m)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	for _, mutate := range []func(*ParameterSet){
		func(p *ParameterSet) { p.NumClicks = 0 },
		func(p *ParameterSet) { p.LongClickInterval = 0 },
		func(p *ParameterSet) { p.MediumClickInterval = -2 },
		func(p *ParameterSet) { p.ClickWidthInches = -0.01 },
		func(p *ParameterSet) { p.TrimMarkLengthInches = math.NaN() },
	} {
		p := Defaults()
		mutate(&p)
		s, err := ComputeScene(p, nil)
		if s != nil {
			t.Fatalf("无效参数不应产生 Scene")
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("期望 ConfigError，实际 %v", err)
		}
		if ce.Field == "" {
			t.Fatalf("ConfigError 缺少字段名: %+v", ce)
		}
	}

	p := Defaults()
	p.NumClicks = 0
	_, err := ComputeScene(p, nil)
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "num_clicks" || ce.Value != 0 {
		t.Fatalf("num_clicks=0 应报告 num_clicks 字段: %v", err)
	}
}

func TestInvalidRecord(t *testing.T) {
	_, err := ComputeScene(Defaults(), []PlotRecord{{Number: 1, Direction: 'X', Offset: 1}})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "records[0].direction" {
		t.Fatalf("期望方向错误，实际 %v", err)
	}
}

func TestDarkMode(t *testing.T) {
	p := Defaults()
	p.DarkMode = true
	recs := []PlotRecord{
		{Number: 1, Direction: DirectionUp, Offset: 0},
		{Number: 2, Direction: DirectionUp, Offset: 60},
	}
	s := mustBuild(t, p, recs, BuildOptions{})
	if s.Commands[0].Rect.Color != Black {
		t.Fatalf("暗色模式背景应为黑色")
	}
	for _, c := range s.Commands[1:] {
		switch c.Kind {
		case KindLine:
			if c.Line.Color != White {
				t.Fatalf("暗色模式线条应为白色: %+v", c.Line)
			}
		case KindText:
			if c.Text.Color != White {
				t.Fatalf("暗色模式文本应为白色: %+v", c.Text)
			}
		}
	}
}

func TestTitle(t *testing.T) {
	p := Defaults()
	p.TitleText = "${num_clicks} clicks"
	g := ComputeGeometry(p)

	s := mustBuild(t, p, nil, BuildOptions{})
	titles := s.Texts(RoleTitle)
	if len(titles) != 1 || titles[0].Content != "${num_clicks} clicks" {
		t.Fatalf("未绑定数据时标题应按字面输出: %+v", titles)
	}
	tt := titles[0]
	if !eq(tt.X, g.XOffset+g.ExtendedScaleLength/2) || !eq(tt.Y, g.YOffset+0.02) || tt.VAlign != AlignTop || !tt.Bold {
		t.Fatalf("标题位置或样式错误: %+v", tt)
	}

	s = mustBuild(t, p, nil, BuildOptions{TitleData: map[string]any{"num_clicks": float64(60)}})
	if got := s.Texts(RoleTitle)[0].Content; got != "60 clicks" {
		t.Fatalf("标题模板未展开: %q", got)
	}

	p.EnableTitle = false
	if n := len(mustBuild(t, p, nil, BuildOptions{}).Texts(RoleTitle)); n != 0 {
		t.Fatalf("关闭标题后仍输出 %d 个标题", n)
	}
}

func TestFontSizeOverride(t *testing.T) {
	p := Defaults()
	g := ComputeGeometry(p)
	auto := math.Min(g.TickSpacing*72*0.8, 12)
	s := mustBuild(t, p, nil, BuildOptions{})
	if got := s.Texts(RoleTickLabel)[0].FontSize; !eq(got, auto) {
		t.Fatalf("自动字号错误: got=%g want=%g", got, auto)
	}
	p.FontSizeOverridePercent = 150
	s = mustBuild(t, p, nil, BuildOptions{})
	if got := s.Texts(RoleTickLabel)[0].FontSize; !eq(got, auto*1.5) {
		t.Fatalf("字号百分比未生效: got=%g want=%g", got, auto*1.5)
	}
}
