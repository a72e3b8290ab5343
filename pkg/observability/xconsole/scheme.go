package xconsole

import (
	"slices"
	"strings"

	"github.com/pterm/pterm"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// Scheme 按分级取色的配色方案
type Scheme struct {
	Fast              pterm.Color
	Normal            pterm.Color
	Slow              pterm.Color
	ThresholdExceeded pterm.Color
}

// 内置配色方案
var (
	SchemeDefault = Scheme{
		Fast: pterm.FgLightGreen, Normal: pterm.FgLightBlue,
		Slow: pterm.FgLightYellow, ThresholdExceeded: pterm.FgLightRed,
	}
	SchemePastel = Scheme{
		Fast: pterm.FgLightCyan, Normal: pterm.FgLightMagenta,
		Slow: pterm.FgYellow, ThresholdExceeded: pterm.FgRed,
	}
	SchemeMonochrome = Scheme{
		Fast: pterm.FgWhite, Normal: pterm.FgLightWhite,
		Slow: pterm.FgDarkGray, ThresholdExceeded: pterm.FgLightWhite,
	}
	SchemeDark = Scheme{
		Fast: pterm.FgGreen, Normal: pterm.FgCyan,
		Slow: pterm.FgYellow, ThresholdExceeded: pterm.FgRed,
	}
)

// 与配色方案无关的内存告警颜色
const (
	colorHighMemory = pterm.FgLightRed
	colorGCPressure = pterm.FgLightYellow
)

var schemes = map[string]Scheme{
	"default":    SchemeDefault,
	"pastel":     SchemePastel,
	"monochrome": SchemeMonochrome,
	"dark":       SchemeDark,
}

// LookupScheme 按名称查找内置配色方案（大小写不敏感）
func LookupScheme(name string) (Scheme, bool) {
	s, ok := schemes[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// SchemeNames 内置配色方案名，已排序
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for n := range schemes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ColorFor 结果对应的颜色
func (s Scheme) ColorFor(r xmeasure.Result) pterm.Color {
	if r.ThresholdExceeded() {
		return s.ThresholdExceeded
	}
	if m := r.Memory; m != nil {
		if m.HighMemoryUsage() {
			return colorHighMemory
		}
		if m.HighGCPressure() {
			return colorGCPressure
		}
	}
	switch r.Level() {
	case xmeasure.LevelSlow:
		return s.Slow
	case xmeasure.LevelNormal:
		return s.Normal
	default:
		return s.Fast
	}
}
