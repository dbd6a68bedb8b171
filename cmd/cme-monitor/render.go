// cmd/cme-monitor/render.go
package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hamtaro777/CME-Monitor/internal/usecase"
)

// renderTable は1サイクル分の結果をテーブルで標準出力に描画します
func renderTable(rows []usecase.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\n銘柄\t時間足\t状態\t終値\tチャイキンVol\tROC\tデータ時刻\t更新時刻\n")
	fmt.Fprintf(w, "----\t------\t----\t----\t------------\t---\t--------\t--------\n")

	for _, row := range rows {
		if row.Skipped() {
			fmt.Fprintf(w, "⚪ %s\t%s\tスキップ (%v)\t-\t-\t-\t-\t%s\n",
				row.Symbol, row.Timeframe.Label(), row.Err, row.UpdatedAt.Format("15:04:05"))
			continue
		}

		fmt.Fprintf(w, "%s %s\t%s\t%s\t$%.2f\t%s\t%s\t%s\t%s\n",
			row.State.Severity.Glyph(), row.Symbol,
			row.Timeframe.Label(),
			row.State.Label,
			row.Close,
			formatPercent(row.VolatilityChange),
			formatPercent(row.RateOfChange),
			formatBarTime(row.BarTime),
			row.UpdatedAt.Format("15:04:05"),
		)
	}

	w.Flush()
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func formatBarTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("01/02 15:04")
}
