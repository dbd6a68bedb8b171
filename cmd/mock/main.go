// cmd/mock/main.go
//
// TopstepX APIのモックサーバー。実際の認証情報なしで動作確認するためのもの。
// TOPSTEPX_API_URL=http://localhost:18082/api を指定すると本体がここに繋がります。
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

func main() {
	// エンドポイントのルーティング
	http.HandleFunc("/api/Auth/loginKey", handleLogin)
	http.HandleFunc("/api/Contract/search", handleContractSearch)
	http.HandleFunc("/api/History/retrieveBars", handleRetrieveBars)

	fmt.Println("[Mock] サーバー起動: モックTopstepX APIがポート18082で待機中...")
	if err := http.ListenAndServe(":18082", nil); err != nil {
		log.Fatal("サーバー起動エラー:", err)
	}
}

// 1. トークン発行用のダミーハンドラー
func handleLogin(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Mock] 🔑 トークン発行リクエストを受信しました")

	var req struct {
		UserName string `json:"userName"`
		APIKey   string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserName == "" || req.APIKey == "" {
		writeJSON(w, map[string]interface{}{
			"success": false,
			"message": "invalid credentials",
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"token":   "mock_token_99999",
	})
}

// モックのCME銘柄カタログ。カテゴリをまたいで代表的なものだけ持つ。
var mockContracts = []map[string]interface{}{
	{"id": "CON.F.US.EP.Z25", "name": "ESZ5", "description": "E-mini S&P 500: December 2025"},
	{"id": "CON.F.US.ENQ.Z25", "name": "NQZ5", "description": "E-mini NASDAQ-100: December 2025"},
	{"id": "CON.F.US.YM.Z25", "name": "YMZ5", "description": "E-mini Dow: December 2025"},
	{"id": "CON.F.US.GCE.Z25", "name": "GCZ5", "description": "Gold: December 2025"},
	{"id": "CON.F.US.SIE.Z25", "name": "SIZ5", "description": "Silver: December 2025"},
	{"id": "CON.F.US.CLE.Z25", "name": "CLZ5", "description": "Crude Oil: December 2025"},
	{"id": "CON.F.US.NGE.Z25", "name": "NGZ5", "description": "Natural Gas: December 2025"},
	{"id": "CON.F.US.ZCE.Z25", "name": "ZCZ5", "description": "Corn: December 2025"},
	{"id": "CON.F.US.6E.Z25", "name": "6EZ5", "description": "Euro FX: December 2025"},
	{"id": "CON.F.US.ZN.Z25", "name": "ZNZ5", "description": "10-Year Note: December 2025"},
	{"id": "CON.F.US.BTC.Z25", "name": "BTCZ5", "description": "Bitcoin: December 2025"},
}

// 2. 銘柄検索用のダミーハンドラー。searchText の前方一致でフィルタする。
func handleContractSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchText string `json:"searchText"`
		Live       bool   `json:"live"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("[Mock] ⚠️ リクエストの解析に失敗しました: %v\n", err)
	}
	fmt.Printf("[Mock] 🔍 銘柄検索リクエストを受信しました: %q\n", req.SearchText)

	matched := []map[string]interface{}{}
	for _, c := range mockContracts {
		name := c["name"].(string)
		if strings.HasPrefix(name, req.SearchText) {
			matched = append(matched, c)
		}
	}

	writeJSON(w, map[string]interface{}{"contracts": matched})
}

// 3. 履歴バー取得用のダミーハンドラー。
// テスト用の価格シナリオ（波）を返す: レンジ → スクイーズ（値幅収縮）→ 上昇ブレイク。
// ウォッチ画面で「squeeze」→「trend start (up)」の遷移が観察できる。
func handleRetrieveBars(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractID string    `json:"contractId"`
		StartTime  time.Time `json:"startTime"`
		EndTime    time.Time `json:"endTime"`
		Unit       int       `json:"unit"`
		UnitNumber int       `json:"unitNumber"`
		Limit      int       `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("[Mock] ⚠️ リクエストの解析に失敗しました: %v\n", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	fmt.Printf("[Mock] 📊 バー取得リクエストを受信しました: %s (unit=%d x%d)\n", req.ContractID, req.Unit, req.UnitNumber)

	step := barStep(req.Unit, req.UnitNumber)
	count := int(req.EndTime.Sub(req.StartTime) / step)
	if req.Limit > 0 && count > req.Limit {
		count = req.Limit
	}

	base := 5000.0
	bars := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		ts := req.EndTime.Add(-time.Duration(count-1-i) * step)

		// 前半: 値幅40のレンジ / 中盤: 値幅5まで収縮 / 終盤: 上放れ
		phase := float64(i) / float64(count)
		width := 40.0
		close := base + 10*math.Sin(float64(i)/3)
		switch {
		case phase > 0.85:
			width = 30.0
			close = base + 120*(phase-0.85)/0.15
		case phase > 0.6:
			width = 5.0
			close = base
		}

		bars = append(bars, map[string]interface{}{
			"t": ts.Format(time.RFC3339),
			"o": close - width/4,
			"h": close + width/2,
			"l": close - width/2,
			"c": close,
			"v": 1000 + i,
		})
	}

	writeJSON(w, map[string]interface{}{"bars": bars})
}

func barStep(unit, unitNumber int) time.Duration {
	switch unit {
	case 2:
		return time.Duration(unitNumber) * time.Minute
	case 3:
		return time.Duration(unitNumber) * time.Hour
	case 4:
		return time.Duration(unitNumber) * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
