package layout

import "fmt"

// 该文件定义布局结果（Scene）与绘制指令，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与线宽单位均为英寸；字号单位为 pt。坐标原点位于画幅左上角，X 向右、Y 向下。

// Scene 是一次布局计算的完整输出：画幅尺寸与有序的绘制指令列表。
type Scene struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Commands []Command `json:"commands"`
}

// CommandKind 区分绘制指令类型。
type CommandKind string

const (
	KindLine       CommandKind = "line"
	KindText       CommandKind = "text"
	KindFilledRect CommandKind = "rect"
)

// Command 是一条绘制指令，Kind 决定哪个字段有效。
type Command struct {
	Kind CommandKind `json:"kind"`
	Line *Line       `json:"line,omitempty"`
	Text *Text       `json:"text,omitempty"`
	Rect *FilledRect `json:"rect,omitempty"`
}

// Role 标注图元在刻度尺中的用途，渲染器不依赖它，测试与调试会用到。
type Role string

const (
	RoleBackground Role = "background"
	RoleBaseline   Role = "baseline"
	RoleTick       Role = "tick"
	RoleTickLabel  Role = "tick-label"
	RolePlotted    Role = "plotted"
	RoleIndicator  Role = "indicator"
	RoleTitle      Role = "title"
	RoleTrimMark   Role = "trim-mark"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// HAlign 是文本水平对齐方式。
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign 指明文本锚点 Y 对应文字框的哪条边。
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignBottom VAlign = "bottom"
)

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`
	Color Color   `json:"color"`
	Role  Role    `json:"role"`
}

// Text 表示一个锚定在 (X, Y) 的单行文本。
type Text struct {
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Content  string     `json:"content"`
	FontSize float64    `json:"fontSize"` // pt
	Bold     bool       `json:"bold"`
	Color    Color      `json:"color"`
	HAlign   HAlign     `json:"hAlign"`
	VAlign   VAlign     `json:"vAlign"`
	Role     Role       `json:"role"`
	Debug    *TextDebug `json:"debug,omitempty"`
}

// TextDebug holds optional placement info, attached only when enabled by BuildOptions.
type TextDebug struct {
	AbsoluteClick float64 `json:"absoluteClick"`
	Row           int     `json:"row"`
	ClickInRow    float64 `json:"clickInRow"`
	StackIndex    int     `json:"stackIndex"`
	Crowded       bool    `json:"crowded"`
}

// FilledRect 表示一个无描边的填充矩形，仅用于背景。
type FilledRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  Color   `json:"color"`
	Role   Role    `json:"role"`
}

// Direction 是记录相对零点的偏移方向。
type Direction byte

const (
	DirectionUp   Direction = 'U'
	DirectionDown Direction = 'D'
)

func (d Direction) String() string { return string(rune(d)) }

// MarshalText 让方向在 JSON 中以 "U"/"D" 出现。
func (d Direction) MarshalText() ([]byte, error) { return []byte{byte(d)}, nil }

func (d *Direction) UnmarshalText(b []byte) error {
	if len(b) != 1 || (b[0] != 'U' && b[0] != 'D') {
		return fmt.Errorf("无效的方向 %q（应为 U 或 D）", b)
	}
	*d = Direction(b[0])
	return nil
}

// PlotRecord 是一条待标注到刻度尺上的数据点。
type PlotRecord struct {
	Number          float64   `json:"number"`
	Direction       Direction `json:"direction"`
	Offset          float64   `json:"offset"`
	ToggleIndicator bool      `json:"toggleIndicator"`
}

// Lines 返回指定用途的全部线段，保持原有顺序。
func (s *Scene) Lines(role Role) []Line {
	var out []Line
	for _, c := range s.Commands {
		if c.Kind == KindLine && c.Line != nil && c.Line.Role == role {
			out = append(out, *c.Line)
		}
	}
	return out
}

// Texts 返回指定用途的全部文本，保持原有顺序。
func (s *Scene) Texts(role Role) []Text {
	var out []Text
	for _, c := range s.Commands {
		if c.Kind == KindText && c.Text != nil && c.Text.Role == role {
			out = append(out, *c.Text)
		}
	}
	return out
}
