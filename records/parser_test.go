package records

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/cylscale/layout"
)

func TestParseLine(t *testing.T) {
	recs, err := ParseString("95.0-\tU49.0\n30.0  D9.8\n")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	want := []layout.PlotRecord{
		{Number: 95, Direction: layout.DirectionUp, Offset: 49, ToggleIndicator: true},
		{Number: 30, Direction: layout.DirectionDown, Offset: 9.8},
	}
	if len(recs) != len(want) {
		t.Fatalf("期望 %d 条记录，实际 %d", len(want), len(recs))
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Fatalf("第 %d 条记录: got=%+v want=%+v", i, recs[i], want[i])
		}
	}
}

func TestParseSkipsBlankAndShortLines(t *testing.T) {
	recs, err := ParseString("\n   \n42\n-7.5 U3 extra\r\n.5 D0\n")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d: %+v", len(recs), recs)
	}
	if recs[0].Number != -7.5 || recs[0].Offset != 3 || recs[0].ToggleIndicator {
		t.Fatalf("带符号数值解析错误: %+v", recs[0])
	}
	if recs[1].Number != 0.5 || recs[1].Direction != layout.DirectionDown || recs[1].Offset != 0 {
		t.Fatalf("零偏移解析错误: %+v", recs[1])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		line  string
		field string
	}{
		{"abc U1", FieldNumber},
		{"- U1", FieldNumber},
		{"95.0-x U1", FieldNumber},
		{"1e999 U1", FieldNumber},
		{"10 X5", FieldDirection},
		{"10 5", FieldDirection},
		{"10 u5", FieldDirection},
		{"10 U", FieldOffset},
		{"10 Uabc", FieldOffset},
		{"10 U-3", FieldOffset},
	}
	for _, tc := range cases {
		_, err := ParseString("1 U1\n" + tc.line)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%q: 期望 *ParseError，得到 %v", tc.line, err)
		}
		if perr.Line != 2 || perr.Field != tc.field || perr.Raw != tc.line {
			t.Fatalf("%q: 错误信息不符: %+v", tc.line, perr)
		}
	}
}

func TestParseSkipInvalid(t *testing.T) {
	text := "1 U1\nbad U2\n3 Q3\n4 D4\n"
	recs, skipped, err := ParseWithOptions(text, ParseOptions{SkipInvalid: true})
	if err != nil {
		t.Fatalf("SkipInvalid 不应返回错误: %v", err)
	}
	if len(recs) != 2 || recs[1].Number != 4 {
		t.Fatalf("记录错误: %+v", recs)
	}
	if len(skipped) != 2 || skipped[0].Line != 2 || skipped[1].Line != 3 {
		t.Fatalf("跳过的行错误: %+v", skipped)
	}

	if _, _, err := ParseWithOptions(text, ParseOptions{}); err == nil {
		t.Fatalf("默认策略应在第一处错误中止")
	}
}

func TestParseReader(t *testing.T) {
	recs, err := Parse(strings.NewReader(SampleText))
	if err != nil {
		t.Fatalf("示例数据解析失败: %v", err)
	}
	if len(recs) != 34 {
		t.Fatalf("示例数据应有 34 条记录，实际 %d", len(recs))
	}
	toggles := 0
	for _, r := range recs {
		if r.ToggleIndicator {
			toggles++
		}
	}
	if toggles != 4 {
		t.Fatalf("示例数据应有 4 条带指示短线的记录，实际 %d", toggles)
	}
	if last := recs[len(recs)-1]; last.Number != 195 || last.Offset != 221.4 {
		t.Fatalf("最后一条记录错误: %+v", last)
	}
}
