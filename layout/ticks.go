package layout

import "strconv"

type tickTier int

const (
	tickRegular tickTier = iota
	tickMedium
	tickLong
)

// classifyTick 按 长 > 中 > 普通 的优先级判断刻度类型，clickNumber 从 1 开始。
func classifyTick(p ParameterSet, clickNumber int) tickTier {
	if clickNumber >= p.LongClickStart && (clickNumber-p.LongClickStart)%p.LongClickInterval == 0 {
		return tickLong
	}
	if clickNumber >= p.MediumClickStart && (clickNumber-p.MediumClickStart)%p.MediumClickInterval == 0 {
		return tickMedium
	}
	return tickRegular
}

// countLongTicks 统计扩展刻度范围内的长刻度数量。
func countLongTicks(p ParameterSet, extendedNumClicks int) int {
	n := 0
	for i := 0; i < extendedNumClicks; i++ {
		if classifyTick(p, i+1) == tickLong {
			n++
		}
	}
	return n
}

// longTickLabel 计算第 index 个长刻度的编号。首尾两个长刻度是接缝两侧的同一位置，固定为 0。
func longTickLabel(index, total int, reverse bool) int {
	if index == 0 || index == total-1 {
		return 0
	}
	if reverse {
		return index
	}
	maxNumber := total - 2
	return maxNumber - (index - 1)
}

func (b *sceneBuilder) ticks() {
	p, g := b.p, b.g
	total := countLongTicks(p, g.ExtendedNumClicks)
	fontSize := scaledFontSize(g.AutoFontSize, p.FontSizeOverridePercent)
	longIndex := 0

	for i := 0; i < g.ExtendedNumClicks; i++ {
		x := g.XOffset + float64(i)*g.TickSpacing

		var length, width float64
		switch classifyTick(p, i+1) {
		case tickLong:
			length = g.ClickLength + g.LongExtra
			width = p.LongClickWidthInches
			b.text(Text{
				X:        x,
				Y:        g.BaselineY - length - p.ClickNumberGapInches,
				Content:  strconv.Itoa(longTickLabel(longIndex, total, p.ReverseNumbering)),
				FontSize: fontSize,
				Bold:     true,
				Color:    b.fg,
				HAlign:   AlignCenter,
				VAlign:   AlignBottom,
				Role:     RoleTickLabel,
			})
			longIndex++
		case tickMedium:
			length = g.ClickLength + g.MediumExtra
			width = p.MediumClickWidthInches
		default:
			length = g.ClickLength
			width = p.ClickWidthInches
		}

		b.line(Line{
			X1:    x,
			Y1:    g.BaselineY,
			X2:    x,
			Y2:    g.BaselineY - length,
			Width: width,
			Color: b.fg,
			Role:  RoleTick,
		})
	}
}
