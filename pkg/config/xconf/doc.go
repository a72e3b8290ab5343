// Package xconf 基于 koanf 的配置加载与热更新。
//
// 支持 YAML 与 JSON，来源可以是文件或字节数据（如 K8s ConfigMap 挂载内容）。
// 从文件加载的配置可以通过 [Watch] 监视变更，自动 Reload 后回调通知，
// xmeasure.BindConfig 以此实现测量默认值（本地化、时间戳、内存追踪）的热切换。
//
//	cfg, err := xconf.New("/etc/app/measure.yaml")
//	if err != nil {
//		return err
//	}
//	var mc xmeasure.Config
//	if err := cfg.Unmarshal("measure", &mc); err != nil {
//		return err
//	}
package xconf
