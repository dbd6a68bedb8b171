// cmd/cme-monitor/watch.go
package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
	"github.com/hamtaro777/CME-Monitor/internal/registry"
	"github.com/hamtaro777/CME-Monitor/internal/usecase"
)

var (
	watchOnce      bool
	watchTimeframe string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "監視銘柄の市場状態を定期更新で表示する",
	Long: `監視リストの各銘柄について履歴バーを取得し、市場状態のテーブルを表示します。
既定では設定の auto_update_interval 秒ごとに自動更新し、Ctrl+C で停止します。
実行中のサイクルは中断せず最後まで完了してから終了します。`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "1回だけ更新して終了する")
	watchCmd.Flags().StringVar(&watchTimeframe, "timeframe", "", "時間足 (3m, 15m, 1H, 4H, 1D)。省略時は設定ファイルの値")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Ctrl+C での協調的な停止
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}

	tf := market.Timeframe(sess.settings.Timeframe)
	if watchTimeframe != "" {
		tf, err = market.ParseTimeframe(watchTimeframe)
		if err != nil {
			return err
		}
		// 選んだ時間足は次回起動にも引き継ぐ
		sess.settings.Timeframe = string(tf)
		if err := sess.store.Save(sess.settings); err != nil {
			logger.Warn().Err(err).Msg("設定の保存に失敗")
		}
	}

	snapshot, err := sess.buildCatalog(ctx)
	if err != nil {
		return err
	}

	watchlist := registry.New(sess.settings.WatchedSymbols, nil)
	monitor := usecase.NewMonitor(sess.client, watchlist, snapshot, tf, sess.settings.Thresholds(), logger)

	interval := time.Duration(sess.settings.AutoUpdateInterval) * time.Second
	engine := usecase.NewEngine(monitor, renderTable, interval, logger)

	if watchOnce {
		engine.RunOnce(ctx)
		return nil
	}
	return engine.Run(ctx)
}
