// cmd/cme-monitor/session.go
package main

import (
	"context"

	"github.com/hamtaro777/CME-Monitor/internal/catalog"
	"github.com/hamtaro777/CME-Monitor/internal/config"
	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
	"github.com/hamtaro777/CME-Monitor/internal/infra/topstep"
)

// session は1セッション分の実行コンテキストです。
// グローバル変数に置かず、必要なコンポーネントへ明示的に渡します。
type session struct {
	client   *topstep.Client
	settings *config.Settings
	store    *config.Store
}

// openSession は認証情報と設定を読み込み、ログイン済みのクライアントを返します
func openSession(ctx context.Context) (*session, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	store := config.NewStore(configPath)
	settings, err := store.Load()
	if err != nil {
		// 壊れた設定ファイルは既定値で続行する
		logger.Warn().Err(err).Msg("設定ファイルが読めないため既定値で起動します")
	}
	if settings.DebugMode && !debugMode {
		logger = newLogger(true)
	}

	client := topstep.NewClient(creds.APIURL, logger)

	logger.Info().Str("user", creds.Username).Msg("🔐 TopstepX APIに認証中...")
	if err := client.Authenticate(ctx, creds.Username, creds.APIKey); err != nil {
		return nil, err
	}

	return &session{client: client, settings: settings, store: store}, nil
}

// buildCatalog は銘柄ユニバースを構築します（セッション中は使い回す）
func (s *session) buildCatalog(ctx context.Context) (*market.CatalogSnapshot, error) {
	logger.Info().Msg("📊 銘柄カタログを構築中...")
	agg := catalog.NewAggregator(s.client, logger)
	snapshot, err := agg.FetchFullCatalog(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("contracts", len(snapshot.Contracts)).Msg("カタログ構築完了")
	return snapshot, nil
}
