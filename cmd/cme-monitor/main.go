// cmd/cme-monitor/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool

	logger zerolog.Logger
)

// rootCmd はCLI全体の親コマンドです
var rootCmd = &cobra.Command{
	Use:   "cme-monitor",
	Short: "CME先物の市場状態モニター",
	Long: `TopstepX APIからCME先物のカタログと履歴データを取得し、
チャイキンボラティリティとROCで各銘柄の市場状態
（スクイーズ / トレンド開始 / レンジ）を判定して表示するツールです。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(debugMode)
	},
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "設定ファイルのパス")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "デバッグログを有効にする")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(authCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
