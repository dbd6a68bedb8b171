// cmd/cme-monitor/symbols.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamtaro777/CME-Monitor/internal/config"
	"github.com/hamtaro777/CME-Monitor/internal/registry"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "監視銘柄リストを管理する",
}

var symbolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "監視中の銘柄を表示する",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := openRegistry()
		if err != nil {
			return err
		}
		for _, name := range reg.List() {
			fmt.Println(name)
		}
		return nil
	},
}

var symbolsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "銘柄を監視リストに追加する",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := openRegistry()
		if err != nil {
			return err
		}
		if err := reg.Add(args[0]); err != nil {
			return err
		}
		fmt.Printf("✅ %s を監視リストに追加しました\n", args[0])
		return nil
	},
}

var symbolsRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "銘柄を監視リストから削除する",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := openRegistry()
		if err != nil {
			return err
		}
		if err := reg.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("✅ %s を監視リストから削除しました\n", args[0])
		return nil
	},
}

func init() {
	symbolsCmd.AddCommand(symbolsListCmd)
	symbolsCmd.AddCommand(symbolsAddCmd)
	symbolsCmd.AddCommand(symbolsRemoveCmd)
}

// openRegistry は設定ファイルに紐付いた監視リストを開きます。
// 変更はそのたびに設定ファイルへ保存されます。
func openRegistry() (*registry.Registry, *config.Store, error) {
	store := config.NewStore(configPath)
	settings, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("設定ファイルが読めないため既定値で操作します")
	}

	reg := registry.New(settings.WatchedSymbols, func(symbols []string) error {
		settings.WatchedSymbols = symbols
		return store.Save(settings)
	})
	return reg, store, nil
}
