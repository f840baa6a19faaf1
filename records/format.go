package records

import (
	"strconv"
	"strings"

	"github.com/ByLCY/cylscale/layout"
)

// Format 把记录写回文本形式，每行为 "数值[-]<TAB>方向偏移"，可被 ParseString 读回。
func Format(recs []layout.PlotRecord) string {
	var b strings.Builder
	for _, r := range recs {
		b.WriteString(strconv.FormatFloat(r.Number, 'f', -1, 64))
		if r.ToggleIndicator {
			b.WriteByte('-')
		}
		b.WriteByte('\t')
		b.WriteByte(byte(r.Direction))
		b.WriteString(strconv.FormatFloat(r.Offset, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
