package market

// Contract は取引所仕様を知らない、システム共通の先物銘柄データです
type Contract struct {
	ID          string `json:"id"`          // ブローカーが割り当てる一意なID（例: "CON.F.US.EP.Z25"）
	Name        string `json:"name"`        // 銘柄コード（例: "ESZ5"）。限月違いで同じルートを持つため一意ではない
	Description string `json:"description"` // 銘柄の説明
	Category    string `json:"-"`           // 分類（カタログ構築時に付与）
}

// CatalogSnapshot はセッション開始時に構築する銘柄ユニバースの全体像です。
// 構築後は差し替えのみで、中身を書き換えることはありません。
type CatalogSnapshot struct {
	Contracts  []Contract            // ID重複なし・最初に見つかった順
	ByCategory map[string][]Contract // カテゴリ → 銘柄リスト
}

// FindByName は監視銘柄名に一致する銘柄を返します。
// Name は限月違いで重複し得るため、最初に見つかった1件を採用します。
func (s *CatalogSnapshot) FindByName(name string) (Contract, bool) {
	for _, c := range s.Contracts {
		if c.Name == name {
			return c, true
		}
	}
	return Contract{}, false
}

// MergeContracts は2つの銘柄リストをIDで重複除去しながら結合します。
// 先に渡したリストの順序を保ち、同一IDは先勝ちです。
// merge(A, A) == A / merge(A, nil) == A が成り立ちます。
func MergeContracts(a, b []Contract) []Contract {
	merged := make([]Contract, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))

	for _, list := range [][]Contract{a, b} {
		for _, c := range list {
			if c.ID == "" || seen[c.ID] {
				continue
			}
			merged = append(merged, c)
			seen[c.ID] = true
		}
	}

	return merged
}
