// internal/domain/market/state.go
package market

import "math"

// Severity は市場状態の深刻度です。テーブル表示のマーカーに対応します。
type Severity int

const (
	SeverityNeutral Severity = iota // データ不足など判定不能
	SeverityNormal                  // 平常（レンジ）
	SeverityCaution                 // 注意（スクイーズ）
	SeverityAlert                   // 警戒（トレンド開始）
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityCaution:
		return "caution"
	case SeverityAlert:
		return "alert"
	default:
		return "neutral"
	}
}

// Glyph はテーブルの先頭に付けるステータスマーカーです
func (s Severity) Glyph() string {
	switch s {
	case SeverityNormal:
		return "🟢"
	case SeverityCaution:
		return "🟡"
	case SeverityAlert:
		return "🔴"
	default:
		return "⚪"
	}
}

// 市場状態のラベル
const (
	LabelInsufficientData = "insufficient data"
	LabelSqueeze          = "squeeze / energy accumulation"
	LabelTrendStartUp     = "trend start (up)"
	LabelTrendStartDown   = "trend start (down)"
	LabelRangeBound       = "range-bound"
)

// MarketState は、特定銘柄の「今の市場環境」を判定した結果です
type MarketState struct {
	Label    string
	Severity Severity
}

// Thresholds は市場状態判定のしきい値です。設定ファイルで上書きできます。
type Thresholds struct {
	Squeeze    float64 // CVがこれを下回ったらスクイーズ候補
	Trend      float64 // CVがこれを上回ったらトレンド候補
	ROCSqueeze float64 // スクイーズ判定時の |ROC| 上限
	ROCTrend   float64 // トレンド判定時の |ROC| 下限
}

// DefaultThresholds は元のチャート設定そのままの既定値です
func DefaultThresholds() Thresholds {
	return Thresholds{
		Squeeze:    -10,
		Trend:      10,
		ROCSqueeze: 2,
		ROCTrend:   3,
	}
}

// Classify は最新のボラティリティ変化率とROCの組から市場状態を判定します。
// 比較はすべて厳密な不等号で、しきい値ちょうどの値はレンジ扱いになります。
func Classify(volatilityChange, rateOfChange float64, th Thresholds) MarketState {
	if math.IsNaN(volatilityChange) || math.IsNaN(rateOfChange) {
		return MarketState{Label: LabelInsufficientData, Severity: SeverityNeutral}
	}

	// スクイーズ: ボラティリティ収縮 + 方向感なし（エネルギー蓄積）
	if volatilityChange < th.Squeeze && math.Abs(rateOfChange) < th.ROCSqueeze {
		return MarketState{Label: LabelSqueeze, Severity: SeverityCaution}
	}

	// トレンド開始: ボラティリティ拡大 + 明確な方向
	if volatilityChange > th.Trend && math.Abs(rateOfChange) > th.ROCTrend {
		if rateOfChange > 0 {
			return MarketState{Label: LabelTrendStartUp, Severity: SeverityAlert}
		}
		return MarketState{Label: LabelTrendStartDown, Severity: SeverityAlert}
	}

	return MarketState{Label: LabelRangeBound, Severity: SeverityNormal}
}
