package market

import "fmt"

// AuthError は認証（ログイン）の失敗を表します。
// これだけはセッション全体に対して致命的で、リトライしません。
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("認証エラー: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("認証エラー: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// CatalogFetchError は銘柄カタログ検索1回分の失敗を表します。
// 該当の検索だけを0件として扱い、カタログ構築は続行します。
type CatalogFetchError struct {
	SearchText string
	Err        error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("銘柄検索エラー (searchText=%q): %v", e.SearchText, e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

// FetchError はバー（ローソク足）取得の通信失敗を表します。
// その銘柄の行を今回のサイクルだけスキップし、次回また取りに行きます。
type FetchError struct {
	ContractID string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("履歴データ取得エラー (contractId=%s): %v", e.ContractID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SchemaError はバーのデータに必須フィールドが無かったことを表します。
// エイリアス解決後にも時刻や high/low/close が見つからない場合に返り、
// その銘柄の指標計算を中断します。
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("バーデータの必須フィールドが不足: %v", e.Missing)
}
