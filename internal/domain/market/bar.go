package market

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Bar は1本分のOHLCVデータです
type Bar struct {
	Time   time.Time // バーの時刻（正規化後はUTC）
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // 無いAPIレスポンスもあるため0のことがある
}

// RawBar はAPIから届いたままの1レコードです。
// フィールド名の表記ゆれ（短縮形など）はこの段階では解決されていません。
type RawBar map[string]any

// フィールド名のエイリアス表。先に書いたものが優先されます。
var (
	timeAliases   = []string{"time", "t", "timestamp", "datetime", "date"}
	openAliases   = []string{"open", "o"}
	highAliases   = []string{"high", "h"}
	lowAliases    = []string{"low", "l"}
	closeAliases  = []string{"close", "c"}
	volumeAliases = []string{"volume", "v"}
)

// NormalizeBars は生レコード列をエイリアス表で正規化し、時刻昇順の Bar 列に変換します。
// 時刻フィールドが1つも見つからない、または high/low/close のいずれかが欠けている場合は
// SchemaError を返します（曖昧なまま指標計算へ進ませないため）。
func NormalizeBars(raws []RawBar) ([]Bar, error) {
	bars := make([]Bar, 0, len(raws))

	for _, raw := range raws {
		var missing []string

		ts, ok := lookupTime(raw)
		if !ok {
			missing = append(missing, "time")
		}
		high, ok := lookupFloat(raw, highAliases)
		if !ok {
			missing = append(missing, "high")
		}
		low, ok := lookupFloat(raw, lowAliases)
		if !ok {
			missing = append(missing, "low")
		}
		closePx, ok := lookupFloat(raw, closeAliases)
		if !ok {
			missing = append(missing, "close")
		}

		if len(missing) > 0 {
			return nil, &SchemaError{Missing: missing}
		}

		// open と volume は無くても指標計算に支障がないので欠損を許容する
		open, _ := lookupFloat(raw, openAliases)
		volume, _ := lookupFloat(raw, volumeAliases)

		bars = append(bars, Bar{
			Time:   ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}

	// 同時刻のバーは元の並びを保つ（安定ソート）
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	return bars, nil
}

func lookupFloat(raw RawBar, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func lookupTime(raw RawBar) (time.Time, bool) {
	for _, key := range timeAliases {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if ts, err := parseTimeString(t); err == nil {
				return ts, true
			}
		case float64:
			return fromEpoch(t), true
		case int64:
			return fromEpoch(float64(t)), true
		}
	}
	return time.Time{}, false
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	// 数値文字列で来るAPIもある
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f), nil
	}
	return time.Time{}, &SchemaError{Missing: []string{"time"}}
}

// fromEpoch はエポック秒・ミリ秒のどちらでも時刻に変換します。
// 1e12以上ならミリ秒とみなします（秒なら西暦33658年になってしまうため）。
func fromEpoch(v float64) time.Time {
	if v >= 1e12 {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), int64(math.Mod(v, 1)*1e9)).UTC()
}
