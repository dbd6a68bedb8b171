package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
	"github.com/hamtaro777/CME-Monitor/internal/registry"
)

// fakeBarSource は contractId ごとに固定のバー列（またはエラー）を返します
type fakeBarSource struct {
	bars map[string][]market.Bar
	errs map[string]error
}

func (f *fakeBarSource) RetrieveBars(ctx context.Context, contractID string, tf market.Timeframe) ([]market.Bar, error) {
	if err, ok := f.errs[contractID]; ok {
		return nil, err
	}
	return f.bars[contractID], nil
}

func dailyBars(n int, closePx func(i int) float64) []market.Bar {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		c := closePx(i)
		bars[i] = market.Bar{Time: base.AddDate(0, 0, i), Open: c, High: c + 2, Low: c - 2, Close: c}
	}
	return bars
}

func testSnapshot() *market.CatalogSnapshot {
	return &market.CatalogSnapshot{Contracts: []market.Contract{
		{ID: "c.ES", Name: "ES", Description: "E-mini S&P 500"},
		{ID: "c.NQ", Name: "NQ", Description: "E-mini Nasdaq-100"},
		{ID: "c.GC", Name: "GC", Description: "Gold"},
	}}
}

func TestMonitor_EndToEndScenario(t *testing.T) {
	// カタログ {ES, NQ, GC}、監視リスト [ES]、既知の終値を持つ日足15本
	bars := &fakeBarSource{bars: map[string][]market.Bar{
		"c.ES": dailyBars(15, func(i int) float64 { return 100 + float64(i) }),
	}}
	watchlist := registry.New([]string{"ES"}, nil)
	monitor := NewMonitor(bars, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	rows := monitor.RunCycle(context.Background())
	require.Len(t, rows, 1)

	row := rows[0]
	require.False(t, row.Skipped(), "err: %v", row.Err)
	assert.Equal(t, "ES", row.Symbol)
	assert.Equal(t, 114.0, row.Close)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), row.BarTime)

	// ROC = (114 - 104) / 104 * 100、CVは15本では未定義
	assert.InDelta(t, 10.0/104.0*100, row.RateOfChange, 1e-9)
	assert.True(t, math.IsNaN(row.VolatilityChange))

	// 両指標が揃わないため判定は「データ不足」
	assert.Equal(t, market.LabelInsufficientData, row.State.Label)
	assert.Equal(t, market.SeverityNeutral, row.State.Severity)
}

func TestMonitor_SqueezeScenario(t *testing.T) {
	// 前半は値幅が広く、後半に収縮していく系列（終値は一定）
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, 40)
	for i := range bars {
		width := 20.0
		if i >= 20 {
			width = 2.0 // 大きく収縮
		}
		bars[i] = market.Bar{Time: base.AddDate(0, 0, i), Open: 100, High: 100 + width, Low: 100, Close: 100}
	}

	source := &fakeBarSource{bars: map[string][]market.Bar{"c.ES": bars}}
	watchlist := registry.New([]string{"ES"}, nil)
	monitor := NewMonitor(source, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	rows := monitor.RunCycle(context.Background())
	require.Len(t, rows, 1)
	require.False(t, rows[0].Skipped())

	assert.Equal(t, market.LabelSqueeze, rows[0].State.Label)
	assert.Equal(t, market.SeverityCaution, rows[0].State.Severity)
	assert.Less(t, rows[0].VolatilityChange, -10.0)
	assert.InDelta(t, 0, rows[0].RateOfChange, 1e-9)
}

func TestMonitor_PerSymbolFailureIsIsolated(t *testing.T) {
	source := &fakeBarSource{
		bars: map[string][]market.Bar{
			"c.ES": dailyBars(15, func(i int) float64 { return 100 }),
			"c.GC": dailyBars(15, func(i int) float64 { return 2000 }),
		},
		errs: map[string]error{
			"c.NQ": &market.FetchError{ContractID: "c.NQ", Err: errors.New("タイムアウト")},
		},
	}
	watchlist := registry.New([]string{"ES", "NQ", "GC"}, nil)
	monitor := NewMonitor(source, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	rows := monitor.RunCycle(context.Background())
	require.Len(t, rows, 3)

	// NQの失敗はNQの行だけに閉じ、ESとGCは処理される
	assert.False(t, rows[0].Skipped())
	assert.True(t, rows[1].Skipped())
	assert.False(t, rows[2].Skipped())

	var fetchErr *market.FetchError
	assert.True(t, errors.As(rows[1].Err, &fetchErr))
}

func TestMonitor_UnknownSymbolIsSkipped(t *testing.T) {
	source := &fakeBarSource{}
	watchlist := registry.New([]string{"ZZ"}, nil)
	monitor := NewMonitor(source, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	rows := monitor.RunCycle(context.Background())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Skipped())
}

func TestMonitor_EmptyBarsIsSkipped(t *testing.T) {
	source := &fakeBarSource{bars: map[string][]market.Bar{"c.ES": {}}}
	watchlist := registry.New([]string{"ES"}, nil)
	monitor := NewMonitor(source, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	rows := monitor.RunCycle(context.Background())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Skipped())
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	source := &fakeBarSource{bars: map[string][]market.Bar{
		"c.ES": dailyBars(15, func(i int) float64 { return 100 }),
	}}
	watchlist := registry.New([]string{"ES"}, nil)
	monitor := NewMonitor(source, watchlist, testSnapshot(), market.Timeframe1Day, market.DefaultThresholds(), zerolog.Nop())

	var cycles int
	engine := NewEngine(monitor, func(rows []Row) { cycles++ }, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := engine.Run(ctx)
	require.NoError(t, err)

	// 起動直後の1回 + ティッカー数回ぶんは実行されている
	assert.GreaterOrEqual(t, cycles, 2)
}
