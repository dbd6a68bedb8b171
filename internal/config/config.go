// Package config は2種類の設定を扱います。
//   - 認証情報: .env / 環境変数から読む（リポジトリにコミットさせないため）
//   - 実行設定: YAMLファイルに永続化し、セッションをまたいで引き継ぐ
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
)

// Credentials はTopstepX APIの認証情報です
type Credentials struct {
	// タグをつけるだけで、ライブラリが勝手に読み込んでくれます
	Username string `envconfig:"TOPSTEPX_USERNAME" required:"true"`
	APIKey   string `envconfig:"TOPSTEPX_API_KEY" required:"true"`
	APIURL   string `envconfig:"TOPSTEPX_API_URL" default:"https://api.topstepx.com/api"`
}

// LoadCredentials は環境変数から認証情報を自動でマッピングして返します
func LoadCredentials() (*Credentials, error) {
	// .envファイルがあれば読み込み、OSの環境変数にセットする
	// ※ 本番環境など .env が存在しない場合もあるため、エラーは無視（_）します
	_ = godotenv.Load()

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return nil, fmt.Errorf("認証情報の読み込みエラー (.env に TOPSTEPX_USERNAME / TOPSTEPX_API_KEY を設定してください): %w", err)
	}
	return &creds, nil
}

// Settings はセッションをまたいで保存する実行設定です
type Settings struct {
	WatchedSymbols      []string `yaml:"watched_symbols"`
	Timeframe           string   `yaml:"timeframe"`
	AutoUpdateInterval  int      `yaml:"auto_update_interval"` // 秒
	DebugMode           bool     `yaml:"debug_mode"`
	SqueezeThreshold    float64  `yaml:"squeeze_threshold"`
	TrendThreshold      float64  `yaml:"trend_threshold"`
	ROCSqueezeThreshold float64  `yaml:"roc_squeeze_threshold"`
	ROCTrendThreshold   float64  `yaml:"roc_trend_threshold"`
}

// DefaultSettings は既定の実行設定です
func DefaultSettings() *Settings {
	th := market.DefaultThresholds()
	return &Settings{
		WatchedSymbols:      []string{"ES", "NQ", "GC", "CL"},
		Timeframe:           string(market.DefaultTimeframe),
		AutoUpdateInterval:  60,
		DebugMode:           false,
		SqueezeThreshold:    th.Squeeze,
		TrendThreshold:      th.Trend,
		ROCSqueezeThreshold: th.ROCSqueeze,
		ROCTrendThreshold:   th.ROCTrend,
	}
}

// Thresholds は設定値を判定しきい値に変換します
func (s *Settings) Thresholds() market.Thresholds {
	return market.Thresholds{
		Squeeze:    s.SqueezeThreshold,
		Trend:      s.TrendThreshold,
		ROCSqueeze: s.ROCSqueezeThreshold,
		ROCTrend:   s.ROCTrendThreshold,
	}
}

// Store は設定ファイルの読み書きを担当します。
// 認識しないキーも保持したまま保存し直します（後方・前方互換のため）。
type Store struct {
	path  string
	extra map[string]any // ファイルにあったままの生データ
}

func NewStore(path string) *Store {
	return &Store{path: path, extra: make(map[string]any)}
}

// Load は設定ファイルを読み込みます。
// ファイルが無い場合と壊れている場合はどちらも既定値を返します
// （壊れている場合のみエラーも一緒に返すので、呼び出し側で警告ログを出してください）。
func (s *Store) Load() (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("設定ファイルの読み込みエラー: %w", err)
	}

	// 生のマップも保持しておく（未知キーの温存用）
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("設定ファイルの解析エラー: %w", err)
	}
	s.extra = raw

	if err := yaml.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("設定ファイルの解析エラー: %w", err)
	}
	s.applyDefaults(settings)
	return settings, nil
}

// Save は設定を書き戻します。未知キーは読み込んだときの値のまま残します。
func (s *Store) Save(settings *Settings) error {
	// 認識しているキーを生マップに上書きしてから書き出す
	known, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("設定のYAML変換エラー: %w", err)
	}
	knownMap := make(map[string]any)
	if err := yaml.Unmarshal(known, &knownMap); err != nil {
		return fmt.Errorf("設定のYAML変換エラー: %w", err)
	}

	if s.extra == nil {
		s.extra = make(map[string]any)
	}
	for k, v := range knownMap {
		s.extra[k] = v
	}

	out, err := yaml.Marshal(s.extra)
	if err != nil {
		return fmt.Errorf("設定のYAML変換エラー: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("設定ファイルの保存エラー: %w", err)
	}
	return nil
}

// applyDefaults は欠けているキーや不正な値を既定値で補います
func (s *Store) applyDefaults(settings *Settings) {
	defaults := DefaultSettings()

	if len(settings.WatchedSymbols) == 0 {
		settings.WatchedSymbols = defaults.WatchedSymbols
	}
	if _, err := market.ParseTimeframe(settings.Timeframe); err != nil {
		settings.Timeframe = defaults.Timeframe
	}
	if settings.AutoUpdateInterval <= 0 {
		settings.AutoUpdateInterval = defaults.AutoUpdateInterval
	}
}
