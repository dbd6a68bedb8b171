// Package catalog はブローカーの検索APIから銘柄ユニバース全体を組み立てます。
//
// 検索APIの全件検索は網羅性が保証されていないため、
//  1. 空文字検索（広域検索）
//  2. カテゴリ別のプレフィックス列挙検索
//
// の2系統を実行し、IDで重複除去しながらマージします。
package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
)

// Searcher は銘柄検索APIの呼び出し口です（実体は topstep.Client）
type Searcher interface {
	SearchContracts(ctx context.Context, searchText string, live bool) ([]market.Contract, error)
}

// Category はキュレーション済みの「カテゴリ → プレフィックス一覧」です
type Category struct {
	Name     string   // カテゴリ識別子（ファイル名にも使うためASCII）
	Label    string   // 表示用ラベル
	Prefixes []string // このカテゴリに属するCME銘柄のルートコード
}

// Uncategorized はどのプレフィックスにも一致しなかった銘柄の受け皿です
const Uncategorized = "uncategorized"

// Categories は主要なCME先物のプレフィックス表です。
// 判定は上から順に行い、最初に一致したカテゴリが採用されます。
// （MGC のように複数カテゴリに現れるコードは先に書いた方に寄せる）
func Categories() []Category {
	return []Category{
		{Name: "equity_index", Label: "株価指数", Prefixes: []string{
			// Standard E-mini
			"ES", "NQ", "YM", "RTY",
			// International
			"NKD", "NIY",
			// Micro E-mini
			"MES", "MNQ", "M2K", "MYM",
			// その他
			"EMD", "SSG",
		}},
		{Name: "metals", Label: "貴金属", Prefixes: []string{
			"GC", "SI", "HG", "PL", "PA",
			"QO", "QI", "MGC", "SIL",
		}},
		{Name: "energy", Label: "エネルギー", Prefixes: []string{
			"CL", "NG", "RB", "HO", "BZ", "QG", "QM",
			"MCL", "MGC",
		}},
		{Name: "agriculture", Label: "農産物", Prefixes: []string{
			"ZC", "ZS", "ZW", "ZL", "ZM", "ZO", "ZR",
			"CT", "KC", "SB", "CC", "OJ",
			"DC", "DY",
		}},
		{Name: "currency", Label: "通貨", Prefixes: []string{
			"EC", "6E", "6J", "6B", "6C", "6A", "6S", "6N", "6M",
			"DX", "E7", "J7", "AUD", "CAD", "CHF", "EUR", "GBP", "JPY", "NZD",
		}},
		{Name: "rates", Label: "債券", Prefixes: []string{
			"ZB", "ZN", "ZF", "ZT", "UB", "TWE", "FV",
		}},
		{Name: "livestock", Label: "畜産", Prefixes: []string{
			"LE", "HE", "GF",
		}},
		{Name: "crypto", Label: "仮想通貨", Prefixes: []string{
			"BTC", "ETH", "MBT", "MET",
		}},
		{Name: "volatility", Label: "ボラティリティ", Prefixes: []string{
			"VX", "VXM",
		}},
		{Name: "other", Label: "その他", Prefixes: []string{
			"BRN", "LBS",
		}},
	}
}

// Aggregator は2系統の検索結果を1つの CatalogSnapshot にまとめます
type Aggregator struct {
	client Searcher
	log    zerolog.Logger
}

func NewAggregator(client Searcher, log zerolog.Logger) *Aggregator {
	return &Aggregator{client: client, log: log}
}

// FetchFullCatalog は銘柄ユニバース全体を構築します。
// 個々のプレフィックス検索の失敗は0件扱いで続行します（部分的なカタログを許容）。
func (a *Aggregator) FetchFullCatalog(ctx context.Context) (*market.CatalogSnapshot, error) {
	// 方法1: 空の検索テキストで全件取得を試みる（結果は候補扱い）
	broad, err := a.client.SearchContracts(ctx, "", false)
	if err != nil {
		a.log.Warn().Err(err).Msg("広域検索に失敗（カテゴリ別検索のみで続行）")
		broad = nil
	} else {
		a.log.Info().Int("count", len(broad)).Msg("広域検索の取得完了")
	}

	// 方法2: カテゴリ別のプレフィックス列挙
	enumerated := a.enumerateByCategory(ctx)

	var fromCategories []market.Contract
	for _, cat := range Categories() {
		fromCategories = append(fromCategories, enumerated[cat.Name]...)
	}

	// 両方の結果をマージ（広域検索を先勝ちにする）
	merged := market.MergeContracts(broad, fromCategories)
	if len(merged) == 0 {
		a.log.Warn().Msg("銘柄が1件も取得できませんでした")
	}

	// カテゴリ分けを全銘柄に適用し直す。
	// 方法2で拾えなかった銘柄は名前のプレフィックスで振り分け、
	// どこにも一致しなければ uncategorized に落とす。
	byCategory := make(map[string][]market.Contract)
	seenPerCategory := make(map[string]map[string]bool)
	for i := range merged {
		name := categorizeName(merged[i].Name)
		merged[i].Category = name

		if seenPerCategory[name] == nil {
			seenPerCategory[name] = make(map[string]bool)
		}
		if !seenPerCategory[name][merged[i].ID] {
			byCategory[name] = append(byCategory[name], merged[i])
			seenPerCategory[name][merged[i].ID] = true
		}
	}

	return &market.CatalogSnapshot{Contracts: merged, ByCategory: byCategory}, nil
}

// enumerateByCategory はカテゴリごとにプレフィックス検索を繰り返します。
// 検索APIは部分一致で余計な銘柄を返すことがあるため、
// 名前が本当にそのプレフィックスで始まるものだけを採用します。
func (a *Aggregator) enumerateByCategory(ctx context.Context) map[string][]market.Contract {
	result := make(map[string][]market.Contract)

	for _, cat := range Categories() {
		var candidates []market.Contract

		for _, prefix := range cat.Prefixes {
			contracts, err := a.client.SearchContracts(ctx, prefix, false)
			if err != nil {
				// 1プレフィックス分の失敗は握りつぶして続行する
				a.log.Warn().Err(err).Str("prefix", prefix).Msg("プレフィックス検索に失敗")
				continue
			}
			for _, c := range contracts {
				if strings.HasPrefix(c.Name, prefix) {
					candidates = append(candidates, c)
				}
			}
		}

		// カテゴリ内でもIDで重複除去（プレフィックス同士が重なることがある）
		unique := market.MergeContracts(candidates, nil)
		result[cat.Name] = unique
		a.log.Debug().Str("category", cat.Name).Int("count", len(unique)).Msg("カテゴリ検索の完了")
	}

	return result
}

// categorizeName は銘柄名をプレフィックス表で分類します
func categorizeName(name string) string {
	for _, cat := range Categories() {
		for _, prefix := range cat.Prefixes {
			if strings.HasPrefix(name, prefix) {
				return cat.Name
			}
		}
	}
	return Uncategorized
}
