package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"productstudio/internal/infrastructure/config"
	"productstudio/internal/infrastructure/i18n"

	"github.com/joho/godotenv"
)

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Discord config.DiscordConfig
	Gemini  config.GeminiConfig
	HTTP    config.HTTPConfig
	Studio  config.StudioConfig
	Sentry  config.SentryConfig
}

// LoadConfig は、環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		// .envファイルが存在しない場合は警告のみ出力（エラーにはしない）
		fmt.Printf("警告: .envファイルの読み込みに失敗しました: %v\n", err)
	}

	config := &Config{
		Discord: config.DiscordConfig{
			BotToken: getEnvOrDefault("DISCORD_BOT_TOKEN", ""),
			Enabled:  getEnvAsBoolOrDefault("DISCORD_ENABLED", true),
		},
		Gemini: config.GeminiConfig{
			APIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
			ImageModelName: getEnvOrDefault("GEMINI_IMAGE_MODEL_NAME", "gemini-2.5-flash-image"),
			Temperature:    float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7)),
			TopP:           float32(getEnvAsFloatOrDefault("GEMINI_TOP_P", 0.9)),
		},
		HTTP: config.HTTPConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
			Enabled:         getEnvAsBoolOrDefault("HTTP_ENABLED", true),
			ShutdownTimeout: getEnvAsDurationOrDefault("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Studio: config.StudioConfig{
			MaxUploadBytes:    getEnvAsInt64OrDefault("STUDIO_MAX_UPLOAD_BYTES", 10*1024*1024),
			DefaultCategory:   getEnvOrDefault("STUDIO_DEFAULT_CATEGORY", "product"),
			DefaultLocale:     getEnvOrDefault("STUDIO_DEFAULT_LOCALE", "ja"),
			GenerationTimeout: getEnvAsDurationOrDefault("GENERATION_TIMEOUT", 0),
		},
		Sentry: config.SentryConfig{
			DSN:         getEnvOrDefault("SENTRY_DSN", ""),
			Environment: getEnvOrDefault("SENTRY_ENVIRONMENT", "development"),
		},
	}

	// 必須設定の検証
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate は、設定の妥当性を検証します
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}

	if c.Gemini.ImageModelName == "" {
		return fmt.Errorf("GEMINI_IMAGE_MODEL_NAME が設定されていません")
	}

	if c.Studio.MaxUploadBytes <= 0 {
		return fmt.Errorf("STUDIO_MAX_UPLOAD_BYTES は正の整数である必要があります")
	}

	if c.Studio.DefaultCategory != "product" && c.Studio.DefaultCategory != "fashion" {
		return fmt.Errorf("STUDIO_DEFAULT_CATEGORY は product または fashion である必要があります")
	}

	if !i18n.IsSupportedLocale(c.Studio.DefaultLocale) {
		return fmt.Errorf("STUDIO_DEFAULT_LOCALE は %s のいずれかである必要があります", strings.Join(i18n.SupportedLocales, ", "))
	}

	if c.Studio.GenerationTimeout < 0 {
		return fmt.Errorf("GENERATION_TIMEOUT は0以上である必要があります")
	}

	return nil
}

// ValidateForServe は、サーバーとして起動する場合の追加の検証を行います
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if !c.Discord.Enabled && !c.HTTP.Enabled {
		return fmt.Errorf("DISCORD_ENABLED と HTTP_ENABLED の少なくとも一方を有効にしてください")
	}

	if c.Discord.Enabled && c.Discord.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN が設定されていません")
	}

	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR が設定されていません")
	}

	return nil
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64OrDefault は、環境変数を整数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault は、環境変数を浮動小数点数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は、環境変数を真偽値として取得し、存在しない場合はデフォルト値を返します
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
