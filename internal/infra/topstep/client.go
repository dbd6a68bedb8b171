package topstep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
)

const (
	requestTimeout = 30 * time.Second // 全API呼び出し共通のタイムアウト
	barsLimit      = 500              // 1回の履歴取得で要求する最大バー数

	// カテゴリ別検索は短時間に大量のリクエストを出すため、
	// 検索APIだけトークンバケットで流量を絞る
	searchRate  = rate.Limit(5) // 秒間5リクエスト
	searchBurst = 5
)

// Client はTopstepX APIと通信するためのクライアント構造体です。
// 認証後はトークンを自身に保持し、以降のリクエストにBearerヘッダーを付けます。
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// NewClient は新しいAPIクライアントを生成するコンストラクタです
func NewClient(baseURL string, log zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "topstepx",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// APIが落ちているときに30秒タイムアウトを積み上げないための保険
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).
				Msg("サーキットブレーカーの状態が変化しました")
		},
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(searchRate, searchBurst),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		log:        log,
	}
}

// doRequest はすべてのAPI呼び出しの基盤となる内部メソッドです。
// URLの結合、共通ヘッダー、トークンのセット、ブレーカー経由の実行を必ずここで行います。
func (c *Client) doRequest(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストのJSON変換エラー: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonData))
		if err != nil {
			return nil, err
		}

		// 共通ヘッダーの自動セット
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("API通信エラー: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("レスポンス読み取りエラー: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTPエラー: %d (%s)", resp.StatusCode, string(body))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// --- 以下、ビジネスロジック（各APIの実装） ---

// Authenticate はユーザー名とAPIキーで認証し、セッショントークンを取得します。
// ここでの失敗はセッション全体に致命的なので market.AuthError で返します。
func (c *Client) Authenticate(ctx context.Context, username, apiKey string) error {
	body, err := c.doRequest(ctx, "/Auth/loginKey", loginRequest{UserName: username, APIKey: apiKey})
	if err != nil {
		return &market.AuthError{Reason: "ログインAPIの呼び出しに失敗", Err: err}
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &market.AuthError{Reason: "ログインレスポンスの解析に失敗", Err: err}
	}
	if !resp.Success || resp.Token == "" {
		reason := resp.Message
		if reason == "" {
			reason = "認証情報が拒否されました"
		}
		return &market.AuthError{Reason: reason}
	}

	// 取得したトークンをクライアント自身に保持させる
	c.token = resp.Token
	c.log.Info().Msg("✅ 認証成功")
	return nil
}

// SearchContracts は銘柄カタログを検索します。searchText が空なら全件検索です。
func (c *Client) SearchContracts(ctx context.Context, searchText string, live bool) ([]market.Contract, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &market.CatalogFetchError{SearchText: searchText, Err: err}
	}

	body, err := c.doRequest(ctx, "/Contract/search", searchRequest{SearchText: searchText, Live: live})
	if err != nil {
		return nil, &market.CatalogFetchError{SearchText: searchText, Err: err}
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &market.CatalogFetchError{SearchText: searchText, Err: err}
	}
	return resp.Contracts, nil
}

// RetrieveBars は指定銘柄の履歴バーを取得し、正規化済みのバー列を返します。
// 取得ウィンドウは時間足ごとのルックバック幅で [now - lookback, now] (UTC) を
// 呼び出しのたびに計算します。
func (c *Client) RetrieveBars(ctx context.Context, contractID string, tf market.Timeframe) ([]market.Bar, error) {
	spec, ok := tf.Spec()
	if !ok {
		return nil, &market.FetchError{ContractID: contractID, Err: fmt.Errorf("未対応の時間足: %q", tf)}
	}

	endTime := time.Now().UTC()
	startTime := endTime.Add(-spec.Lookback())

	req := barsRequest{
		ContractID:        contractID,
		Live:              false,
		StartTime:         startTime.Format("2006-01-02T15:04:05Z"),
		EndTime:           endTime.Format("2006-01-02T15:04:05Z"),
		Unit:              spec.Unit,
		UnitNumber:        spec.UnitNumber,
		Limit:             barsLimit,
		IncludePartialBar: false,
	}

	body, err := c.doRequest(ctx, "/History/retrieveBars", req)
	if err != nil {
		return nil, &market.FetchError{ContractID: contractID, Err: err}
	}

	raws, err := decodeBarPayload(body)
	if err != nil {
		return nil, &market.FetchError{ContractID: contractID, Err: err}
	}

	// エイリアス解決と時刻ソートはここで一度だけ行う。
	// 失敗は SchemaError のまま呼び出し側に返す（通信エラーと区別するため）。
	return market.NormalizeBars(raws)
}
