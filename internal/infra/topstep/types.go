package topstep

import (
	"encoding/json"
	"fmt"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
)

// ログイン用（こちらから送るデータ）
type loginRequest struct {
	UserName string `json:"userName"`
	APIKey   string `json:"apiKey"`
}

// ログインレスポンス用（APIから返ってくるデータ）
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// 銘柄検索リクエスト用
type searchRequest struct {
	SearchText string `json:"searchText"`
	Live       bool   `json:"live"`
}

// 銘柄検索レスポンス用
type searchResponse struct {
	Contracts []market.Contract `json:"contracts"`
}

// 履歴バー取得リクエスト用
// https://api.topstepx.com/api/History/retrieveBars
type barsRequest struct {
	ContractID        string `json:"contractId"`
	Live              bool   `json:"live"`
	StartTime         string `json:"startTime"` // ISO-8601 UTC
	EndTime           string `json:"endTime"`   // ISO-8601 UTC
	Unit              int    `json:"unit"`       // 2: 分, 3: 時間, 4: 日
	UnitNumber        int    `json:"unitNumber"`
	Limit             int    `json:"limit"`
	IncludePartialBar bool   `json:"includePartialBar"`
}

// decodeBarPayload はバー取得レスポンスの3パターンを受け止めます。
//   - {"data": [...]}
//   - {"bars": [...]}
//   - [...] （配列がそのまま返ってくる）
func decodeBarPayload(body []byte) ([]market.RawBar, error) {
	// まず配列そのままのパターン
	var bare []market.RawBar
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var envelope struct {
		Data []market.RawBar `json:"data"`
		Bars []market.RawBar `json:"bars"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("バーレスポンスの解析エラー: %w", err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Bars != nil {
		return envelope.Bars, nil
	}
	return nil, fmt.Errorf("バーレスポンスに data / bars が見つかりません")
}
