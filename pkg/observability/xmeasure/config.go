package xmeasure

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/omeyang/xmeasure/pkg/config/xconf"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
)

// Config 可从配置文件加载的 Pipeline 默认值
//
//	measure:
//	  localization: english
//	  track_memory: false
//	  timestamp:
//	    preset: short        # 与 pattern 二选一，preset 优先
//	    enabled: true
//	    pattern: "HH:mm:ss.fff"
type Config struct {
	Localization string          `koanf:"localization" json:"localization"`
	TrackMemory  bool            `koanf:"track_memory" json:"track_memory"`
	Timestamp    TimestampConfig `koanf:"timestamp" json:"timestamp"`
}

// TimestampConfig 时间戳配置
type TimestampConfig struct {
	Preset  string `koanf:"preset" json:"preset"`
	Enabled bool   `koanf:"enabled" json:"enabled"`
	Pattern string `koanf:"pattern" json:"pattern"`
}

var timestampPresets = map[string]TimestampPolicy{
	"default":  TimestampDefault,
	"short":    TimestampShort,
	"time_ms":  TimestampTimeWithMs,
	"iso8601":  TimestampISO8601,
	"unix":     TimestampUnix,
	"date":     TimestampDateOnly,
	"disabled": TimestampDisabled,
}

// LookupTimestampPreset 按名称查找预置时间戳策略（大小写不敏感）
func LookupTimestampPreset(name string) (TimestampPolicy, bool) {
	ts, ok := timestampPresets[strings.ToLower(strings.TrimSpace(name))]
	return ts, ok
}

// TimestampPresetNames 预置时间戳策略名，已排序
func TimestampPresetNames() []string {
	names := make([]string, 0, len(timestampPresets))
	for n := range timestampPresets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Resolve 把配置转换为 Defaults。localization 为空时使用 English。
func (c Config) Resolve() (Defaults, error) {
	d := Defaults{Localization: English, TrackMemory: c.TrackMemory}

	if c.Localization != "" {
		loc, ok := LookupLocalization(c.Localization)
		if !ok {
			return Defaults{}, fmt.Errorf("%w: %q", ErrUnknownLocalization, c.Localization)
		}
		d.Localization = loc
	}

	if c.Timestamp.Preset != "" {
		ts, ok := LookupTimestampPreset(c.Timestamp.Preset)
		if !ok {
			return Defaults{}, fmt.Errorf("xmeasure: unknown timestamp preset %q", c.Timestamp.Preset)
		}
		d.TimestampPolicy = ts
	} else {
		d.TimestampPolicy = TimestampPolicy{Pattern: c.Timestamp.Pattern, Enabled: c.Timestamp.Enabled}
	}
	return d, nil
}

// Apply 一次性替换三项默认值，Sink 注册表不变。解析失败时不做任何修改。
func (p *Pipeline) Apply(c Config) error {
	d, err := c.Resolve()
	if err != nil {
		return err
	}
	p.update(func(st *state) {
		st.localization = d.Localization
		st.timestamp = d.TimestampPolicy
		st.trackMemory = d.TrackMemory
	})
	return nil
}

// BindOption BindConfig 选项
type BindOption func(*bindOptions)

type bindOptions struct {
	watch   bool
	onError func(error)
	watchOp []xconf.WatchOption
}

// WithWatch 监视配置文件，变更后自动重新 Apply
func WithWatch(opts ...xconf.WatchOption) BindOption {
	return func(o *bindOptions) {
		o.watch = true
		o.watchOp = opts
	}
}

// WithBindErrorHandler 热更新失败时的回调，默认输出一条 xlog Warn
func WithBindErrorHandler(fn func(error)) BindOption {
	return func(o *bindOptions) {
		if fn != nil {
			o.onError = fn
		}
	}
}

// BindConfig 从 cfg 的 path 节点加载 Config 并应用到 p。
//
// 启用 WithWatch 且 cfg 来自文件时，返回的 stop 用于结束监视；
// 其余情况 stop 为空操作。
func BindConfig(p *Pipeline, cfg xconf.Config, path string, opts ...BindOption) (stop func() error, err error) {
	if p == nil {
		p = Default()
	}
	o := bindOptions{
		onError: func(err error) {
			xlog.Warn(context.Background(), "xmeasure: config reload failed", xlog.Err(err), slog.String("path", path))
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	load := func(c xconf.Config) error {
		var mc Config
		if err := c.Unmarshal(path, &mc); err != nil {
			return err
		}
		return p.Apply(mc)
	}
	if err := load(cfg); err != nil {
		return nil, err
	}

	noop := func() error { return nil }
	if !o.watch || cfg.Path() == "" {
		return noop, nil
	}

	w, err := xconf.Watch(cfg, func(c xconf.Config, err error) {
		if err == nil {
			err = load(c)
		}
		if err != nil {
			o.onError(err)
		}
	}, o.watchOp...)
	if err != nil {
		return nil, err
	}
	return w.Stop, nil
}
