package config

import "time"

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey         string
	ImageModelName string // 画像生成用モデル名
	Temperature    float32
	TopP           float32
}

// DiscordConfig は、Discord関連の設定を定義します
type DiscordConfig struct {
	BotToken string
	Enabled  bool
}

// HTTPConfig は、HTTPサーバー関連の設定を定義します
type HTTPConfig struct {
	Addr            string
	Enabled         bool
	ShutdownTimeout time.Duration
}

// StudioConfig は、セッションと生成処理の設定を定義します
type StudioConfig struct {
	MaxUploadBytes    int64
	DefaultCategory   string
	DefaultLocale     string
	GenerationTimeout time.Duration // 0の場合は外部APIのタイムアウトに任せる
}

// SentryConfig は、Sentry関連の設定を定義します
type SentryConfig struct {
	DSN         string
	Environment string
}

// DefaultGeminiConfig は、デフォルトのGemini設定を返します
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		ImageModelName: "gemini-2.5-flash-image",
		Temperature:    0.7,
		TopP:           0.9,
	}
}
