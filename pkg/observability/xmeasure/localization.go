package xmeasure

import (
	"slices"
	"strings"
)

// Localization 输出文案表。核心逻辑不区分语言，只把表原样交给 Sink。
type Localization struct {
	Duration          string
	DurationHigh      string
	TotalDuration     string
	Prefix            string
	Memory            string
	GarbageCollection string
	HighMemory        string
	GCPressure        string
	Threshold         string
	Milliseconds      string
}

// 内置文案表
var (
	English = Localization{
		Duration: "duration", DurationHigh: "duration high", TotalDuration: "Total duration",
		Prefix: "METRIKA", Memory: "Memory", GarbageCollection: "GC",
		HighMemory: "HIGH MEMORY", GCPressure: "GC PRESSURE",
		Threshold: "threshold", Milliseconds: "ms",
	}
	Turkish = Localization{
		Duration: "süresi", DurationHigh: "süresi yüksek", TotalDuration: "Toplam süre",
		Prefix: "METRİKA", Memory: "Bellek", GarbageCollection: "GC",
		HighMemory: "YÜKSEK BELLEK", GCPressure: "GC BASKISI",
		Threshold: "eşik", Milliseconds: "ms",
	}
	French = Localization{
		Duration: "durée", DurationHigh: "durée élevée", TotalDuration: "Durée totale",
		Prefix: "METRIKA", Memory: "Mémoire", GarbageCollection: "GC",
		HighMemory: "MÉMOIRE ÉLEVÉE", GCPressure: "PRESSION GC",
		Threshold: "seuil", Milliseconds: "ms",
	}
	German = Localization{
		Duration: "Dauer", DurationHigh: "Dauer hoch", TotalDuration: "Gesamtdauer",
		Prefix: "METRIKA", Memory: "Speicher", GarbageCollection: "GC",
		HighMemory: "HOHER SPEICHER", GCPressure: "GC-DRUCK",
		Threshold: "Schwellenwert", Milliseconds: "ms",
	}
	Spanish = Localization{
		Duration: "duración", DurationHigh: "duración alta", TotalDuration: "Duración total",
		Prefix: "METRIKA", Memory: "Memoria", GarbageCollection: "GC",
		HighMemory: "MEMORIA ALTA", GCPressure: "PRESIÓN GC",
		Threshold: "umbral", Milliseconds: "ms",
	}
	Japanese = Localization{
		Duration: "処理時間", DurationHigh: "処理時間が長い", TotalDuration: "合計時間",
		Prefix: "メトリカ", Memory: "メモリ", GarbageCollection: "GC",
		HighMemory: "高メモリ使用", GCPressure: "GC圧力",
		Threshold: "しきい値", Milliseconds: "ms",
	}
	ChineseSimplified = Localization{
		Duration: "持续时间", DurationHigh: "持续时间长", TotalDuration: "总持续时间",
		Prefix: "指标", Memory: "内存", GarbageCollection: "GC",
		HighMemory: "高内存", GCPressure: "GC压力",
		Threshold: "阈值", Milliseconds: "ms",
	}
	Russian = Localization{
		Duration: "длительность", DurationHigh: "длительность высокая", TotalDuration: "Общая продолжительность",
		Prefix: "МЕТРИКА", Memory: "Память", GarbageCollection: "GC",
		HighMemory: "ВЫСОКАЯ ПАМЯТЬ", GCPressure: "ДАВЛЕНИЕ GC",
		Threshold: "порог", Milliseconds: "мс",
	}
	Portuguese = Localization{
		Duration: "duração", DurationHigh: "duração alta", TotalDuration: "Duração total",
		Prefix: "METRIKA", Memory: "Memória", GarbageCollection: "GC",
		HighMemory: "MEMÓRIA ALTA", GCPressure: "PRESSÃO GC",
		Threshold: "limite", Milliseconds: "ms",
	}
	Italian = Localization{
		Duration: "durata", DurationHigh: "durata elevata", TotalDuration: "Durata totale",
		Prefix: "METRIKA", Memory: "Memoria", GarbageCollection: "GC",
		HighMemory: "MEMORIA ALTA", GCPressure: "PRESSIONE GC",
		Threshold: "soglia", Milliseconds: "ms",
	}
)

// 名称与语言代码共用一张表
var localizations = map[string]Localization{
	"english": English, "en": English,
	"turkish": Turkish, "tr": Turkish,
	"french": French, "fr": French,
	"german": German, "de": German,
	"spanish": Spanish, "es": Spanish,
	"japanese": Japanese, "ja": Japanese,
	"chinese": ChineseSimplified, "chinesesimplified": ChineseSimplified, "zh": ChineseSimplified, "zh-cn": ChineseSimplified,
	"russian": Russian, "ru": Russian,
	"portuguese": Portuguese, "pt": Portuguese,
	"italian": Italian, "it": Italian,
}

// LookupLocalization 按名称或语言代码查找内置文案表（大小写不敏感，"_" 等同 "-"）
func LookupLocalization(name string) (Localization, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	l, ok := localizations[key]
	return l, ok
}

// LocalizationNames 内置文案表的完整名称，按字母序
func LocalizationNames() []string {
	names := []string{
		"english", "turkish", "french", "german", "spanish",
		"japanese", "chinese", "russian", "portuguese", "italian",
	}
	slices.Sort(names)
	return names
}
