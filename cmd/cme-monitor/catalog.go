// cmd/cme-monitor/catalog.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamtaro777/CME-Monitor/internal/catalog"
	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
	"github.com/hamtaro777/CME-Monitor/internal/export"
)

var catalogOutDir string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "CME先物カタログ全体を取得してカテゴリ別に表示・保存する",
	Long: `広域検索とカテゴリ別プレフィックス検索の2系統で銘柄ユニバースを構築し、
カテゴリごとの件数サマリを表示します。--out を指定するとCSVとJSONで書き出します。`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogOutDir, "out", "", "エクスポート先ディレクトリ（省略時は保存しない）")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}

	snapshot, err := sess.buildCatalog(ctx)
	if err != nil {
		return err
	}

	// カテゴリ別サマリ（固定順 + uncategorized）
	fmt.Printf("\n取得した銘柄数: %d件\n\n", len(snapshot.Contracts))
	for _, cat := range catalog.Categories() {
		printCategory(cat.Label, snapshot.ByCategory[cat.Name])
	}
	printCategory("未分類", snapshot.ByCategory[catalog.Uncategorized])

	if catalogOutDir == "" {
		return nil
	}

	written, err := export.WriteCatalog(catalogOutDir, snapshot)
	if err != nil {
		return err
	}
	fmt.Printf("\n💾 %d個のファイルを保存しました:\n", len(written))
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}
	return nil
}

// printCategory はカテゴリの件数と先頭数件を表示します
func printCategory(label string, contracts []market.Contract) {
	if len(contracts) == 0 {
		return
	}
	fmt.Printf("【%s】 %d件\n", label, len(contracts))
	for i, c := range contracts {
		if i >= 5 {
			fmt.Printf("  ... 他 %d件\n", len(contracts)-5)
			break
		}
		desc := c.Description
		if len([]rune(desc)) > 50 {
			desc = string([]rune(desc)[:47]) + "..."
		}
		fmt.Printf("  • %-10s - %s\n", c.Name, desc)
	}
}
