package xmeasure

import (
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// UnixPattern 特殊模式：输出 Unix 秒
const UnixPattern = "unix"

// TimestampPolicy 时间戳渲染策略。Enabled 为 false 时不输出时间戳，与 Pattern 无关。
//
// Pattern 使用 yyyy-MM-dd HH:mm:ss.fff 风格的日期模式；
// 已经是 Go 布局（含 2006 或 15:04）的模式原样使用。
type TimestampPolicy struct {
	Pattern string
	Enabled bool
}

// 预置策略
var (
	TimestampDefault    = TimestampPolicy{Pattern: "yyyy-MM-dd HH:mm:ss.fff", Enabled: true}
	TimestampShort      = TimestampPolicy{Pattern: "HH:mm:ss", Enabled: true}
	TimestampTimeWithMs = TimestampPolicy{Pattern: "HH:mm:ss.fff", Enabled: true}
	TimestampISO8601    = TimestampPolicy{Pattern: "yyyy-MM-ddTHH:mm:ss.fffZ", Enabled: true}
	TimestampUnix       = TimestampPolicy{Pattern: UnixPattern, Enabled: true}
	TimestampDateOnly   = TimestampPolicy{Pattern: "yyyy-MM-dd", Enabled: true}
	TimestampDisabled   = TimestampPolicy{}
)

// TimestampCustom 自定义模式
func TimestampCustom(pattern string) TimestampPolicy {
	return TimestampPolicy{Pattern: pattern, Enabled: true}
}

// IsUnix 模式为 "unix"（大小写不敏感）
func (p TimestampPolicy) IsUnix() bool {
	return strings.EqualFold(strings.TrimSpace(p.Pattern), UnixPattern)
}

// Format 渲染时间戳。禁用时返回空字符串；启用但 Pattern 为空时使用 TimestampDefault 的模式。
func (p TimestampPolicy) Format(t time.Time) string {
	if !p.Enabled {
		return ""
	}
	if p.IsUnix() {
		return strconv.FormatInt(t.Unix(), 10)
	}
	pattern := p.Pattern
	if pattern == "" {
		pattern = TimestampDefault.Pattern
	}
	return t.Format(Layout(pattern))
}

// layoutCache 模式到 Go 布局的翻译缓存，并发安全
var layoutCache, _ = lru.New[string, string](128)

// Layout 把日期模式翻译为 Go 时间布局，结果带 LRU 缓存。
func Layout(pattern string) string {
	if layout, ok := layoutCache.Get(pattern); ok {
		return layout
	}
	layout := translate(pattern)
	layoutCache.Add(pattern, layout)
	return layout
}

func isGoLayout(p string) bool {
	return strings.Contains(p, "2006") || strings.Contains(p, "15:04") || strings.Contains(p, "04:05")
}

// translate 逐段翻译。同一字母的连续重复构成一个说明符，
// 单引号/双引号内与反斜杠后的字符按字面量输出。
func translate(pattern string) string {
	if isGoLayout(pattern) {
		return pattern
	}

	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		c := runes[i]

		switch c {
		case '\'', '"':
			end := i + 1
			for end < len(runes) && runes[end] != c {
				end++
			}
			b.WriteString(string(runes[i+1 : end]))
			i = min(end+1, len(runes))
			continue
		case '\\':
			if i+1 < len(runes) {
				b.WriteRune(runes[i+1])
			}
			i += 2
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == c {
			n++
		}
		if spec, ok := specifier(c, n); ok {
			b.WriteString(spec)
		} else {
			b.WriteString(string(runes[i : i+n]))
		}
		i += n
	}
	return b.String()
}

func specifier(c rune, n int) (string, bool) {
	switch c {
	case 'y':
		if n >= 3 {
			return "2006", true
		}
		return "06", true
	case 'M':
		return pick(n, "1", "01", "Jan", "January"), true
	case 'd':
		return pick(n, "2", "02", "Mon", "Monday"), true
	case 'H':
		return "15", true
	case 'h':
		return pick(n, "3", "03"), true
	case 'm':
		return pick(n, "4", "04"), true
	case 's':
		return pick(n, "5", "05"), true
	case 'f':
		return strings.Repeat("0", min(n, 9)), true
	case 'F':
		return strings.Repeat("9", min(n, 9)), true
	case 't':
		return "PM", true
	case 'z':
		return pick(n, "-07", "-07", "-07:00"), true
	case 'K':
		return "Z07:00", true
	default:
		return "", false
	}
}

// pick 按重复次数选择，超出时取最长形式
func pick(n int, forms ...string) string {
	return forms[min(n, len(forms))-1]
}
