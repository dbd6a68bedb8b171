package market

import "math"

// チャイキンボラティリティとROCのパラメータ（TradingViewの標準設定に合わせる）
const (
	emaSpan       = 10 // high-low レンジのEMA期間
	emaMinPeriods = 10 // EMAが定義されるまでに必要なバー数
	volShift      = 12 // ボラティリティ変化率の比較幅
	rocLag        = 10 // ROCの比較幅
)

// IndicatorFrame はバー列に派生指標を付けたものです。
// 履歴が足りない位置の指標は NaN（未定義）になります。
type IndicatorFrame struct {
	Bars             []Bar
	VolatilityChange []float64 // チャイキンボラティリティ(10, 12) [%]
	RateOfChange     []float64 // ROC(10) [%]
}

// ComputeIndicators はバー列から指標列を計算します。純粋関数でI/Oは行いません。
// バーは NormalizeBars で正規化・ソート済みであることが前提です。
func ComputeIndicators(bars []Bar) *IndicatorFrame {
	n := len(bars)
	frame := &IndicatorFrame{
		Bars:             bars,
		VolatilityChange: nanSlice(n),
		RateOfChange:     nanSlice(n),
	}

	// 1本ごとの値幅 (high - low) のEMA。
	// 漸化式は先頭から回すが、emaMinPeriods 本たまるまでは未定義として扱う。
	emaRange := nanSlice(n)
	alpha := 2.0 / float64(emaSpan+1)
	var ema float64
	for i, b := range bars {
		r := b.High - b.Low
		if i == 0 {
			ema = r
		} else {
			ema = (1-alpha)*ema + alpha*r
		}
		if i >= emaMinPeriods-1 {
			emaRange[i] = ema
		}
	}

	// ボラティリティ変化率: EMAレンジの volShift 本前との変化率 [%]
	for i := volShift; i < n; i++ {
		prev := emaRange[i-volShift]
		if math.IsNaN(emaRange[i]) || math.IsNaN(prev) || prev == 0 {
			continue
		}
		frame.VolatilityChange[i] = (emaRange[i] - prev) / prev * 100
	}

	// ROC: rocLag 本前の終値との変化率 [%]
	for i := rocLag; i < n; i++ {
		prev := bars[i-rocLag].Close
		if prev == 0 {
			continue
		}
		frame.RateOfChange[i] = (bars[i].Close - prev) / prev * 100
	}

	return frame
}

// Latest は両方の指標が定義されている最新の組を返します。
// 1つも無ければ (NaN, NaN) を返し、判定側で「データ不足」になります。
func (f *IndicatorFrame) Latest() (volatilityChange, rateOfChange float64) {
	for i := len(f.Bars) - 1; i >= 0; i-- {
		cv, roc := f.VolatilityChange[i], f.RateOfChange[i]
		if !math.IsNaN(cv) && !math.IsNaN(roc) {
			return cv, roc
		}
	}
	return math.NaN(), math.NaN()
}

// LatestRateOfChange は定義済みの最新ROCだけを返します（CVが未定義でも表示したいため）。
func (f *IndicatorFrame) LatestRateOfChange() float64 {
	for i := len(f.Bars) - 1; i >= 0; i-- {
		if !math.IsNaN(f.RateOfChange[i]) {
			return f.RateOfChange[i]
		}
	}
	return math.NaN()
}

// LatestVolatilityChange は定義済みの最新CVだけを返します。
func (f *IndicatorFrame) LatestVolatilityChange() float64 {
	for i := len(f.Bars) - 1; i >= 0; i-- {
		if !math.IsNaN(f.VolatilityChange[i]) {
			return f.VolatilityChange[i]
		}
	}
	return math.NaN()
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
