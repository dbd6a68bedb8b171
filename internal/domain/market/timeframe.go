package market

import (
	"fmt"
	"time"
)

// Timeframe は監視に使う時間足のコードです
type Timeframe string

const (
	Timeframe3Min   Timeframe = "3m"
	Timeframe15Min  Timeframe = "15m"
	Timeframe1Hour  Timeframe = "1H"
	Timeframe4Hour  Timeframe = "4H"
	Timeframe1Day   Timeframe = "1D"
	DefaultTimeframe          = Timeframe1Day
)

// TimeframeSpec は時間足ごとのバー取得パラメータです。
// Unit/UnitNumber はAPIの集計単位指定（2: 分, 3: 時間, 4: 日）、
// LookbackDays は指標計算に十分な本数が確保できるよう粗い足ほど広げています。
type TimeframeSpec struct {
	Unit         int
	UnitNumber   int
	LookbackDays int
	Label        string
}

var timeframeSpecs = map[Timeframe]TimeframeSpec{
	Timeframe3Min:  {Unit: 2, UnitNumber: 3, LookbackDays: 7, Label: "3分足"},
	Timeframe15Min: {Unit: 2, UnitNumber: 15, LookbackDays: 14, Label: "15分足"},
	Timeframe1Hour: {Unit: 3, UnitNumber: 1, LookbackDays: 30, Label: "1時間足"},
	Timeframe4Hour: {Unit: 3, UnitNumber: 4, LookbackDays: 60, Label: "4時間足"},
	Timeframe1Day:  {Unit: 4, UnitNumber: 1, LookbackDays: 90, Label: "日足"},
}

// Spec は時間足に対応する取得パラメータを返します
func (tf Timeframe) Spec() (TimeframeSpec, bool) {
	spec, ok := timeframeSpecs[tf]
	return spec, ok
}

// Label は表示用のラベルを返します。未知のコードはそのまま返します。
func (tf Timeframe) Label() string {
	if spec, ok := timeframeSpecs[tf]; ok {
		return spec.Label
	}
	return string(tf)
}

// Lookback は取得ウィンドウの幅を返します
func (spec TimeframeSpec) Lookback() time.Duration {
	return time.Duration(spec.LookbackDays) * 24 * time.Hour
}

// ParseTimeframe は設定値やフラグの文字列を検証して Timeframe に変換します
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, ok := timeframeSpecs[tf]; !ok {
		return "", fmt.Errorf("未対応の時間足です: %q (対応: 3m, 15m, 1H, 4H, 1D)", s)
	}
	return tf, nil
}

// Timeframes は対応している時間足を固定順で返します
func Timeframes() []Timeframe {
	return []Timeframe{Timeframe3Min, Timeframe15Min, Timeframe1Hour, Timeframe4Hour, Timeframe1Day}
}
