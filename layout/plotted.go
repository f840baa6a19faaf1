package layout

import (
	"math"
	"math/big"
	"sort"
	"strconv"
)

const (
	overflowRowStep = 0.125 // 第 5 行以后每行追加的高度（英寸）
	crowdingEpsilon = 0.01  // 小于该距离的两点视为同一位置（堆叠而非拥挤）
)

// rowColors 是浅色模式下 0–4 行的颜色：蓝、红、绿、紫、橙。
var rowColors = [5]Color{
	{0, 0, 255},
	{255, 0, 0},
	{0, 128, 0},
	{128, 0, 128},
	{255, 165, 0},
}

// placement 是一个数据点解析后的位置。
type placement struct {
	rec           PlotRecord
	absoluteClick float64
	row           int
	clickInRow    float64
	stackIndex    int
	crowded       bool
}

type stackKey struct {
	row   int
	click float64
}

// resolveClick 把记录换算为绝对刻度，并拆分为行号与行内刻度。
// 行内刻度落在可用起点之前时，平移 usableScaleStartClick 进入可用区间。
func resolveClick(p ParameterSet, rec PlotRecord) (absolute float64, row int, clickInRow float64) {
	origin := p.ZeroReferenceClick + p.UsableScaleStartClick
	if rec.Direction == DirectionDown {
		absolute = origin - rec.Offset
	} else {
		absolute = origin + rec.Offset
	}
	if p.RoundClickPositions {
		absolute = math.Floor(absolute + 0.5)
	}

	n := float64(p.NumClicks)
	row = int(math.Floor(absolute / n))
	clickInRow = math.Mod(absolute, n)
	if clickInRow < 0 {
		clickInRow += n
	}
	if clickInRow < p.UsableScaleStartClick {
		clickInRow += p.UsableScaleStartClick
	}
	return absolute, row, clickInRow
}

// cumulativeRowHeights 将 0–4 行的行距累加为距最长刻度顶端的高度。
func cumulativeRowHeights(gaps [5]float64) [5]float64 {
	var heights [5]float64
	sum := 0.0
	for i, gap := range gaps {
		sum += gap
		heights[i] = sum
	}
	return heights
}

// rowHeight 返回某行距最长刻度顶端的高度。负行号按第 0 行处理。
func rowHeight(heights [5]float64, row int) float64 {
	switch {
	case row < 0:
		return heights[0]
	case row < len(heights):
		return heights[row]
	default:
		last := len(heights) - 1
		return heights[last] + float64(row-last)*overflowRowStep
	}
}

// assignStacks 为同一 (行, 行内刻度保留两位小数) 的记录按出现顺序分配堆叠序号。
func assignStacks(places []placement) {
	counts := map[stackKey]int{}
	for i := range places {
		key := stackKey{row: places[i].row, click: math.Round(places[i].clickInRow*100) / 100}
		places[i].stackIndex = counts[key]
		counts[key]++
	}
}

// markCrowding 标记同一行中与其他点距离在 (0.01, threshold) 之间的记录。
func markCrowding(places []placement, threshold float64) {
	byRow := map[int][]int{}
	var rows []int
	for i, pl := range places {
		if _, ok := byRow[pl.row]; !ok {
			rows = append(rows, pl.row)
		}
		byRow[pl.row] = append(byRow[pl.row], i)
	}
	for _, row := range rows {
		idx := byRow[row]
		sort.SliceStable(idx, func(a, b int) bool {
			return places[idx[a]].clickInRow < places[idx[b]].clickInRow
		})
		for k, i := range idx {
			c := places[i].clickInRow
			for j := k - 1; j >= 0 && c-places[idx[j]].clickInRow < threshold; j-- {
				if c-places[idx[j]].clickInRow > crowdingEpsilon {
					places[i].crowded = true
					break
				}
			}
			if places[i].crowded {
				continue
			}
			for j := k + 1; j < len(idx) && places[idx[j]].clickInRow-c < threshold; j++ {
				if places[idx[j]].clickInRow-c > crowdingEpsilon {
					places[i].crowded = true
					break
				}
			}
		}
	}
}

func placeRecords(p ParameterSet, recs []PlotRecord) []placement {
	places := make([]placement, len(recs))
	for i, rec := range recs {
		abs, row, click := resolveClick(p, rec)
		places[i] = placement{rec: rec, absoluteClick: abs, row: row, clickInRow: click}
	}
	assignStacks(places)
	markCrowding(places, p.PlottedCrowdingThresholdClicks)
	return places
}

// FormatPlotNumber 整数值不带小数点，其余保留一位小数。
// 恰好落在两个候选正中时取绝对值较大者，符号最后补回。
func FormatPlotNumber(v float64) string {
	if math.Mod(v, 1) == 0 {
		return strconv.FormatFloat(math.Floor(v)+0, 'f', -1, 64) // +0 把 -0 规整为 0
	}
	abs := math.Abs(v)
	s := strconv.FormatFloat(abs, 'f', 1, 64)
	if isTenthsTie(abs) {
		s = strconv.FormatFloat(math.Ceil(abs*10)/10, 'f', 1, 64)
	}
	if v < 0 {
		return "-" + s
	}
	return s
}

// isTenthsTie 报告 v 的精确二进制值乘以 10 后小数部分是否恰为 0.5。
func isTenthsTie(v float64) bool {
	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, big.NewRat(10, 1))
	if r.IsInt() {
		return false
	}
	return new(big.Rat).Mul(r, big.NewRat(2, 1)).IsInt()
}

func (b *sceneBuilder) rowColor(row int) Color {
	if b.p.DarkMode || row < 0 || row >= len(rowColors) {
		return b.fg
	}
	return rowColors[row]
}

func (b *sceneBuilder) plotted(recs []PlotRecord) {
	p, g := b.p, b.g
	heights := cumulativeRowHeights(p.RowGaps())
	baseFont := scaledFontSize(g.AutoFontSize, p.PlottedFontSizePercent)
	dashWidth := PtToIn(p.IndicatorDashWidthPt)

	for _, pl := range placeRecords(p, recs) {
		x := g.XOffset + pl.clickInRow*g.BaseClickSpacing
		baseY := g.BaselineY - g.MaxClickLength - rowHeight(heights, pl.row)
		y := baseY - float64(pl.stackIndex)*p.PlottedStackedSpacingInches

		fontSize := baseFont
		if pl.crowded {
			fontSize = baseFont * (p.PlottedCrowdingFontReductionPercent / 100)
		}

		t := Text{
			X:        x,
			Y:        y,
			Content:  FormatPlotNumber(pl.rec.Number),
			FontSize: fontSize,
			Bold:     true,
			Color:    b.rowColor(pl.row),
			HAlign:   AlignCenter,
			VAlign:   AlignBottom,
			Role:     RolePlotted,
		}
		if b.opts.Debug.Placement {
			t.Debug = &TextDebug{
				AbsoluteClick: pl.absoluteClick,
				Row:           pl.row,
				ClickInRow:    pl.clickInRow,
				StackIndex:    pl.stackIndex,
				Crowded:       pl.crowded,
			}
		}
		b.text(t)

		if pl.rec.ToggleIndicator {
			top := y + p.IndicatorDashGapInches
			b.line(Line{
				X1:    x,
				Y1:    top,
				X2:    x,
				Y2:    top + p.IndicatorDashLengthInches,
				Width: dashWidth,
				Color: b.fg,
				Role:  RoleIndicator,
			})
		}
	}
}
