// internal/usecase/monitor.go
package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
	"github.com/hamtaro777/CME-Monitor/internal/registry"
)

// BarSource は履歴バーの取得口です（実体は topstep.Client）
type BarSource interface {
	RetrieveBars(ctx context.Context, contractID string, tf market.Timeframe) ([]market.Bar, error)
}

// Row は監視テーブルの1行分の結果です
type Row struct {
	Symbol           string
	Timeframe        market.Timeframe
	State            market.MarketState
	Close            float64
	VolatilityChange float64 // 未定義なら NaN
	RateOfChange     float64 // 未定義なら NaN
	BarTime          time.Time // 最新バーの時刻
	UpdatedAt        time.Time // この行を計算した時刻
	Err              error     // nil 以外ならこのサイクルはスキップされた行
}

// Skipped はこの行が今回のサイクルで計算できなかったかどうかを返します
func (r Row) Skipped() bool { return r.Err != nil }

// Monitor は1回の更新サイクル（監視銘柄ぶんの取得→指標計算→状態判定）を実行します
type Monitor struct {
	bars       BarSource
	watchlist  *registry.Registry
	snapshot   *market.CatalogSnapshot
	timeframe  market.Timeframe
	thresholds market.Thresholds
	log        zerolog.Logger
}

func NewMonitor(bars BarSource, watchlist *registry.Registry, snapshot *market.CatalogSnapshot, tf market.Timeframe, th market.Thresholds, log zerolog.Logger) *Monitor {
	return &Monitor{
		bars:       bars,
		watchlist:  watchlist,
		snapshot:   snapshot,
		timeframe:  tf,
		thresholds: th,
		log:        log,
	}
}

// SetTimeframe は次のサイクルから使う時間足を切り替えます
func (m *Monitor) SetTimeframe(tf market.Timeframe) { m.timeframe = tf }

// RunCycle は監視銘柄を順に処理して行のリストを返します。
// 1銘柄の失敗はその行だけに閉じ込め、残りの銘柄の処理は必ず続行します。
func (m *Monitor) RunCycle(ctx context.Context) []Row {
	cycleID := uuid.NewString()
	log := m.log.With().Str("cycle", cycleID).Logger()

	symbols := m.watchlist.List()
	log.Info().Int("symbols", len(symbols)).Str("timeframe", string(m.timeframe)).Msg("更新サイクル開始")

	rows := make([]Row, 0, len(symbols))
	for _, symbol := range symbols {
		row := m.processSymbol(ctx, symbol, log)
		if row.Skipped() {
			log.Warn().Err(row.Err).Str("symbol", symbol).Msg("この銘柄は今回のサイクルをスキップ")
		} else {
			log.Info().Str("symbol", symbol).Str("state", row.State.Label).
				Float64("cv", row.VolatilityChange).Float64("roc", row.RateOfChange).
				Msg("判定完了")
		}
		rows = append(rows, row)
	}

	log.Info().Msg("🎉 更新サイクル完了")
	return rows
}

func (m *Monitor) processSymbol(ctx context.Context, symbol string, log zerolog.Logger) Row {
	row := Row{Symbol: symbol, Timeframe: m.timeframe, UpdatedAt: time.Now()}

	contract, ok := m.snapshot.FindByName(symbol)
	if !ok {
		row.Err = errors.New("カタログに一致する銘柄が見つかりません")
		return row
	}

	bars, err := m.bars.RetrieveBars(ctx, contract.ID, m.timeframe)
	if err != nil {
		// FetchError（通信）も SchemaError（データ欠損）もこの行止まり
		row.Err = err
		return row
	}
	if len(bars) == 0 {
		row.Err = errors.New("バーが1本も返ってきませんでした")
		return row
	}

	frame := market.ComputeIndicators(bars)
	cv, roc := frame.Latest()

	latest := bars[len(bars)-1]
	row.Close = latest.Close
	row.BarTime = latest.Time
	row.VolatilityChange = cv
	row.RateOfChange = roc
	row.State = market.Classify(cv, roc, m.thresholds)

	// 状態判定には両指標が揃った組を使うが、表示はそれぞれの最新値を出す
	if math.IsNaN(cv) {
		row.VolatilityChange = frame.LatestVolatilityChange()
	}
	if math.IsNaN(roc) {
		row.RateOfChange = frame.LatestRateOfChange()
	}

	return row
}
