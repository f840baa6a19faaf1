package layout

import (
	"fmt"
	"math"
)

// ParameterSet 是一次布局计算的全部配置。JSON 键沿用设置文件中的 snake_case 名称。
// 长度字段单位为英寸；以 Pt 结尾的字段单位为 pt，在生成 Scene 时统一换算。
type ParameterSet struct {
	// 物理尺寸
	CylinderDiameterInches float64 `json:"cylinder_diameter_inches"`
	TapeThicknessInches    float64 `json:"tape_thickness_inches"`
	NumClicks              int     `json:"num_clicks"`
	ScaleLineWidthInches   float64 `json:"scale_line_width_inches"`
	MaxLabelHeightInches   float64 `json:"max_label_height_inches"`

	// 刻度几何
	ClickLengthInches            float64 `json:"click_length_inches"`
	ClickWidthInches             float64 `json:"click_width_inches"`
	ClickHeightMultiplierPercent float64 `json:"click_height_multiplier_percent"`
	MediumClickInterval          int     `json:"medium_click_interval"`
	MediumClickStart             int     `json:"medium_click_start"`
	MediumClickExtraLengthInches float64 `json:"medium_click_extra_length_inches"`
	MediumClickWidthInches       float64 `json:"medium_click_width_inches"`
	LongClickInterval            int     `json:"long_click_interval"`
	LongClickStart               int     `json:"long_click_start"`
	LongClickExtraLengthInches   float64 `json:"long_click_extra_length_inches"`
	LongClickWidthInches         float64 `json:"long_click_width_inches"`
	ReverseNumbering             bool    `json:"reverse_numbering"`
	ClickNumberGapInches         float64 `json:"click_number_gap_inches"`
	FontSizeOverridePercent      float64 `json:"font_size_override_percent"` // 0 表示自动字号

	// 数据点标注
	EnablePlottedNumbers                bool    `json:"enable_plotted_numbers"`
	RoundClickPositions                 bool    `json:"round_click_positions"`
	ZeroReferenceClick                  float64 `json:"zero_reference_click"`
	UsableScaleStartClick               float64 `json:"usable_scale_start_click"`
	PlottedRow0HeightInches             float64 `json:"plotted_row0_height_inches"`
	PlottedRow1HeightInches             float64 `json:"plotted_row1_height_inches"`
	PlottedRow2HeightInches             float64 `json:"plotted_row2_height_inches"`
	PlottedRow3HeightInches             float64 `json:"plotted_row3_height_inches"`
	PlottedRow4HeightInches             float64 `json:"plotted_row4_height_inches"`
	PlottedStackedSpacingInches         float64 `json:"plotted_stacked_spacing_inches"`
	IndicatorDashLengthInches           float64 `json:"indicator_dash_length_inches"`
	IndicatorDashWidthPt                float64 `json:"indicator_dash_width"`
	IndicatorDashGapInches              float64 `json:"indicator_dash_gap_inches"`
	PlottedFontSizePercent              float64 `json:"plotted_font_size_percent"`
	PlottedCrowdingThresholdClicks      float64 `json:"plotted_crowding_threshold_clicks"`
	PlottedCrowdingFontReductionPercent float64 `json:"plotted_crowding_font_reduction_percent"`

	// 外观、裁切标记与标题
	DarkMode             bool    `json:"dark_mode"`
	EnableTrimMarks      bool    `json:"enable_trim_marks"`
	TrimMarkLengthInches float64 `json:"trim_mark_length_inches"`
	TrimMarkGapInches    float64 `json:"trim_mark_gap_inches"`
	TrimMarkWidthPt      float64 `json:"trim_mark_width"`
	EnableTitle          bool    `json:"enable_title"`
	TitleText            string  `json:"title_text"`
	TitleFontSizePt      float64 `json:"title_font_size"`
	TitleToTrimGapInches float64 `json:"title_to_trim_gap_inches"`
}

// Defaults 返回出厂默认参数。
func Defaults() ParameterSet {
	return ParameterSet{
		CylinderDiameterInches: 1.25,
		TapeThicknessInches:    0.005,
		NumClicks:              60,
		ScaleLineWidthInches:   0.01,
		MaxLabelHeightInches:   0.75,

		ClickLengthInches:            0.05,
		ClickWidthInches:             0.01,
		ClickHeightMultiplierPercent: 100,
		MediumClickInterval:          2,
		MediumClickStart:             1,
		MediumClickExtraLengthInches: 0.06,
		MediumClickWidthInches:       0.02,
		LongClickInterval:            4,
		LongClickStart:               3,
		LongClickExtraLengthInches:   0.12,
		LongClickWidthInches:         0.025,
		ReverseNumbering:             false,
		ClickNumberGapInches:         0.03,
		FontSizeOverridePercent:      0,

		EnablePlottedNumbers:                true,
		RoundClickPositions:                 false,
		ZeroReferenceClick:                  12,
		UsableScaleStartClick:               2,
		PlottedRow0HeightInches:             0.08,
		PlottedRow1HeightInches:             0.095,
		PlottedRow2HeightInches:             0.095,
		PlottedRow3HeightInches:             0.095,
		PlottedRow4HeightInches:             0.095,
		PlottedStackedSpacingInches:         0.06,
		IndicatorDashLengthInches:           0.02,
		IndicatorDashWidthPt:                0.5,
		IndicatorDashGapInches:              0.01,
		PlottedFontSizePercent:              200,
		PlottedCrowdingThresholdClicks:      3.0,
		PlottedCrowdingFontReductionPercent: 90,

		DarkMode:             false,
		EnableTrimMarks:      true,
		TrimMarkLengthInches: 0.15,
		TrimMarkGapInches:    0.03,
		TrimMarkWidthPt:      1,
		EnableTitle:          true,
		TitleText:            "Cylinder Scale",
		TitleFontSizePt:      4,
		TitleToTrimGapInches: 0.02,
	}
}

// RowGaps 返回 0–4 行的行距（按顺序，累加后得到各行高度）。
func (p ParameterSet) RowGaps() [5]float64 {
	return [5]float64{
		p.PlottedRow0HeightInches,
		p.PlottedRow1HeightInches,
		p.PlottedRow2HeightInches,
		p.PlottedRow3HeightInches,
		p.PlottedRow4HeightInches,
	}
}

// ConfigError 表示参数违反领域约束，Field 为设置文件中的键名。
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("参数 %s=%v 无效: %s", e.Field, e.Value, e.Reason)
}

// Validate 检查领域约束；类型校验由调用方在边界完成。返回的错误为 *ConfigError。
func (p ParameterSet) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"num_clicks", p.NumClicks},
		{"long_click_interval", p.LongClickInterval},
		{"medium_click_interval", p.MediumClickInterval},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return &ConfigError{Field: f.field, Value: f.value, Reason: "必须为正整数"}
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"cylinder_diameter_inches", p.CylinderDiameterInches},
		{"tape_thickness_inches", p.TapeThicknessInches},
		{"scale_line_width_inches", p.ScaleLineWidthInches},
		{"max_label_height_inches", p.MaxLabelHeightInches},
		{"click_length_inches", p.ClickLengthInches},
		{"click_width_inches", p.ClickWidthInches},
		{"click_height_multiplier_percent", p.ClickHeightMultiplierPercent},
		{"medium_click_extra_length_inches", p.MediumClickExtraLengthInches},
		{"medium_click_width_inches", p.MediumClickWidthInches},
		{"long_click_extra_length_inches", p.LongClickExtraLengthInches},
		{"long_click_width_inches", p.LongClickWidthInches},
		{"click_number_gap_inches", p.ClickNumberGapInches},
		{"font_size_override_percent", p.FontSizeOverridePercent},
		{"plotted_row0_height_inches", p.PlottedRow0HeightInches},
		{"plotted_row1_height_inches", p.PlottedRow1HeightInches},
		{"plotted_row2_height_inches", p.PlottedRow2HeightInches},
		{"plotted_row3_height_inches", p.PlottedRow3HeightInches},
		{"plotted_row4_height_inches", p.PlottedRow4HeightInches},
		{"plotted_stacked_spacing_inches", p.PlottedStackedSpacingInches},
		{"indicator_dash_length_inches", p.IndicatorDashLengthInches},
		{"indicator_dash_width", p.IndicatorDashWidthPt},
		{"indicator_dash_gap_inches", p.IndicatorDashGapInches},
		{"plotted_font_size_percent", p.PlottedFontSizePercent},
		{"plotted_crowding_threshold_clicks", p.PlottedCrowdingThresholdClicks},
		{"plotted_crowding_font_reduction_percent", p.PlottedCrowdingFontReductionPercent},
		{"trim_mark_length_inches", p.TrimMarkLengthInches},
		{"trim_mark_gap_inches", p.TrimMarkGapInches},
		{"trim_mark_width", p.TrimMarkWidthPt},
		{"title_font_size", p.TitleFontSizePt},
		{"title_to_trim_gap_inches", p.TitleToTrimGapInches},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ConfigError{Field: f.field, Value: f.value, Reason: "必须为有限数值"}
		}
		if f.value < 0 {
			return &ConfigError{Field: f.field, Value: f.value, Reason: "不能为负数"}
		}
	}

	for _, f := range []struct {
		field string
		value float64
	}{
		{"zero_reference_click", p.ZeroReferenceClick},
		{"usable_scale_start_click", p.UsableScaleStartClick},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ConfigError{Field: f.field, Value: f.value, Reason: "必须为有限数值"}
		}
	}
	return nil
}
