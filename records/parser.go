package records

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/cylscale/layout"
)

// 每行记录形如 "95.0-<TAB>U49.0"：数值（可带 "-" 后缀表示指示短线）与 方向+偏移。
// 行先按空白拆成字段，再用下面的词法规则逐字段解析。
var (
	fieldLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Toggle", Pattern: `-`},
		{Name: "Letter", Pattern: `[A-Za-z]`},
		{Name: "Other", Pattern: `[^\s]`},
	})

	numberParser   = participle.MustBuild[numberField](participle.Lexer(fieldLexer))
	positionParser = participle.MustBuild[positionField](participle.Lexer(fieldLexer))
)

// numberField 是第一个字段：数值与可选的指示短线后缀。
type numberField struct {
	Value  string `parser:"@Number"`
	Toggle bool   `parser:"@Toggle?"`
}

// positionField 是第二个字段：方向字母紧跟偏移量，中间没有分隔符。
type positionField struct {
	Direction string `parser:"@Letter"`
	Offset    string `parser:"@Number"`
}

// 字段名，用于 ParseError.Field。
const (
	FieldNumber    = "number"
	FieldDirection = "direction"
	FieldOffset    = "offset"
)

// ParseError 描述一行无法解析的记录。Line 从 1 开始计数。
type ParseError struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("第 %d 行 %q: 字段 %s 无效: %s", e.Line, e.Raw, e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseOptions 控制遇到错误行时的策略。
type ParseOptions struct {
	// SkipInvalid 为 true 时跳过错误行并收集全部错误；默认在第一处错误处中止。
	SkipInvalid bool
}

// Parse 从 io.Reader 读取记录文本，遇到错误行立即返回 *ParseError。
func Parse(r io.Reader) ([]layout.PlotRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取记录失败: %w", err)
	}
	return ParseString(string(data))
}

// ParseString 解析记录文本，遇到错误行立即返回 *ParseError。
func ParseString(text string) ([]layout.PlotRecord, error) {
	recs, _, err := ParseWithOptions(text, ParseOptions{})
	return recs, err
}

// ParseWithOptions 按给定策略解析记录文本。
// SkipInvalid 时 error 恒为 nil，错误行以 []*ParseError 返回；否则第一处错误作为 error 返回。
func ParseWithOptions(text string, opts ParseOptions) ([]layout.PlotRecord, []*ParseError, error) {
	var (
		recs    []layout.PlotRecord
		skipped []*ParseError
	)
	for i, raw := range strings.Split(text, "\n") {
		rec, ok, perr := parseLine(i+1, raw)
		if perr != nil {
			if !opts.SkipInvalid {
				return nil, nil, perr
			}
			skipped = append(skipped, perr)
			continue
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs, skipped, nil
}

// parseLine 解析一行。空行与少于两个字段的行返回 ok=false 且无错误。
func parseLine(lineNo int, raw string) (layout.PlotRecord, bool, *ParseError) {
	raw = strings.TrimRight(raw, "\r")
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return layout.PlotRecord{}, false, nil
	}
	fail := func(field, reason string, err error) *ParseError {
		return &ParseError{Line: lineNo, Raw: raw, Field: field, Reason: reason, Err: err}
	}

	num, err := numberParser.ParseString("", fields[0])
	if err != nil {
		return layout.PlotRecord{}, false, fail(FieldNumber, fmt.Sprintf("%q 不是数值", fields[0]), err)
	}
	number, err := parseFloat(num.Value)
	if err != nil {
		return layout.PlotRecord{}, false, fail(FieldNumber, err.Error(), err)
	}

	pos, err := positionParser.ParseString("", fields[1])
	if err != nil {
		if fields[1] != "" && !isDirection(fields[1][0]) {
			return layout.PlotRecord{}, false, fail(FieldDirection, fmt.Sprintf("%q 应以 U 或 D 开头", fields[1]), err)
		}
		return layout.PlotRecord{}, false, fail(FieldOffset, fmt.Sprintf("%q 缺少有效的偏移量", fields[1]), err)
	}
	if !isDirection(pos.Direction[0]) {
		return layout.PlotRecord{}, false, fail(FieldDirection, fmt.Sprintf("方向 %q 应为 U 或 D", pos.Direction), nil)
	}
	offset, err := parseFloat(pos.Offset)
	if err != nil {
		return layout.PlotRecord{}, false, fail(FieldOffset, err.Error(), err)
	}
	if offset < 0 {
		return layout.PlotRecord{}, false, fail(FieldOffset, fmt.Sprintf("偏移量 %s 不能为负数", pos.Offset), nil)
	}

	return layout.PlotRecord{
		Number:          number,
		Direction:       layout.Direction(pos.Direction[0]),
		Offset:          offset,
		ToggleIndicator: num.Toggle,
	}, true, nil
}

func isDirection(c byte) bool {
	return c == byte(layout.DirectionUp) || c == byte(layout.DirectionDown)
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数值 %q: %w", s, err)
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("数值 %q 超出范围", s)
	}
	return v, nil
}
