// cmd/cme-monitor/auth.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "APIの認証情報を確認する",
	Long:  `.env / 環境変数の認証情報で実際にログインし、使えるかどうかを確認します。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openSession(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✅ 認証に成功しました。APIの準備が整っています。")
		return nil
	},
}
