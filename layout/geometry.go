package layout

import "math"

const (
	autoFontScale   = 0.8  // 自动字号 = 刻度间距(pt) × 0.8
	maxAutoFontSize = 12.0 // 自动字号上限（pt）
)

// Geometry 汇总由参数推导出的尺寸，单位均为英寸（字号为 pt）。
type Geometry struct {
	EffectiveDiameter float64 `json:"effectiveDiameter"`
	ScaleLength       float64 `json:"scaleLength"`

	ClickLength    float64 `json:"clickLength"`    // 调整后的基础刻度长度
	MediumExtra    float64 `json:"mediumExtra"`    // 调整后的中刻度附加长度
	LongExtra      float64 `json:"longExtra"`      // 调整后的长刻度附加长度
	MaxClickLength float64 `json:"maxClickLength"` // 最长刻度

	ExtendedNumClicks   int     `json:"extendedNumClicks"`
	ExtendedScaleLength float64 `json:"extendedScaleLength"`
	TickSpacing         float64 `json:"tickSpacing"`      // 绘制刻度的间距（扩展刻度尺）
	BaseClickSpacing    float64 `json:"baseClickSpacing"` // 数据点定位使用的间距（原始刻度尺）

	TrimExtension float64 `json:"trimExtension"`
	XOffset       float64 `json:"xOffset"`
	YOffset       float64 `json:"yOffset"`
	BaselineY     float64 `json:"baselineY"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`

	AutoFontSize float64 `json:"autoFontSize"` // pt
}

// ComputeGeometry 计算刻度尺的尺寸。调用方需保证参数已通过 Validate。
func ComputeGeometry(p ParameterSet) Geometry {
	var g Geometry
	g.EffectiveDiameter = p.CylinderDiameterInches + p.TapeThicknessInches
	g.ScaleLength = math.Pi * g.EffectiveDiameter

	multiplier := p.ClickHeightMultiplierPercent / 100
	g.ClickLength = p.ClickLengthInches * multiplier
	g.MediumExtra = p.MediumClickExtraLengthInches * multiplier
	g.LongExtra = p.LongClickExtraLengthInches * multiplier
	g.MaxClickLength = g.ClickLength + math.Max(g.MediumExtra, g.LongExtra)

	// 额外绘制一个长刻度周期，使编号跨接缝连续。
	g.ExtendedNumClicks = p.NumClicks + p.LongClickInterval
	g.ExtendedScaleLength = g.ScaleLength * (float64(g.ExtendedNumClicks) / float64(p.NumClicks))
	g.TickSpacing = g.ExtendedScaleLength / float64(g.ExtendedNumClicks)
	g.BaseClickSpacing = g.ScaleLength / float64(p.NumClicks)

	if p.EnableTrimMarks {
		g.TrimExtension = p.TrimMarkGapInches + p.TrimMarkLengthInches
	}
	g.XOffset = g.TrimExtension
	g.YOffset = g.TrimExtension
	g.BaselineY = g.YOffset + p.MaxLabelHeightInches
	g.Width = g.ExtendedScaleLength + 2*g.TrimExtension
	g.Height = p.MaxLabelHeightInches + 2*g.TrimExtension

	g.AutoFontSize = math.Min(InToPt(g.TickSpacing)*autoFontScale, maxAutoFontSize)
	return g
}

// scaledFontSize 在 percent > 0 时按百分比缩放自动字号。
func scaledFontSize(auto, percent float64) float64 {
	if percent > 0 {
		return auto * (percent / 100)
	}
	return auto
}
