// internal/usecase/engine.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RenderFunc はサイクルの結果を画面に描画するフックです
type RenderFunc func(rows []Row)

// Engine は自動更新ループの司令部です。
// 起動直後に1回サイクルを回し、あとは一定間隔で同じサイクルを繰り返します。
// 停止は ctx のキャンセルによる協調的なもので、実行中のサイクルは最後まで完了します。
// 手動更新と自動更新を同じループで直列に回すため、テーブル書き込みが競合することはありません。
type Engine struct {
	monitor  *Monitor
	render   RenderFunc
	interval time.Duration
	log      zerolog.Logger
}

func NewEngine(monitor *Monitor, render RenderFunc, interval time.Duration, log zerolog.Logger) *Engine {
	return &Engine{monitor: monitor, render: render, interval: interval, log: log}
}

// RunOnce は1サイクルだけ実行して描画します
func (e *Engine) RunOnce(ctx context.Context) {
	rows := e.monitor.RunCycle(ctx)
	e.render(rows)
}

// Run は自動更新ループを開始します。ctx がキャンセルされるまで回り続けます。
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Dur("interval", e.interval).Msg("⏰ 自動更新を開始")

	// まず1回即時実行
	e.RunOnce(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("⏸️ 自動更新を停止しました")
			return nil
		case <-ticker.C:
			e.RunOnce(ctx)
		}
	}
}
