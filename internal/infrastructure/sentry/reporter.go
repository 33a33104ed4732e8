package sentry

import (
	"context"
	"fmt"
	"log"
	"time"

	"productstudio/internal/infrastructure/config"

	"github.com/getsentry/sentry-go"
)

// flushTimeout は、終了時にSentryへ送信待ちのイベントを流す最大時間です
const flushTimeout = 2 * time.Second

// Reporter は、Sentryへ技術的なエラーを送信するErrorReporterの実装です
type Reporter struct {
	hub *sentry.Hub
}

// Init は、Sentryクライアントを初期化します
// DSNが空の場合は初期化せず、falseを返します
func Init(cfg config.SentryConfig, release string) (bool, error) {
	if cfg.DSN == "" {
		log.Printf("SENTRY_DSNが未設定のため、エラーはログにのみ出力します")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return false, fmt.Errorf("Sentryの初期化に失敗: %w", err)
	}

	log.Printf("Sentryを初期化しました: 環境=%s", cfg.Environment)
	return true, nil
}

// Flush は、送信待ちのイベントを送信します
func Flush() {
	sentry.Flush(flushTimeout)
}

// NewReporter は、現在のハブを使う新しいReporterインスタンスを作成します
func NewReporter() *Reporter {
	return &Reporter{hub: sentry.CurrentHub()}
}

// newReporterWithHub は、指定したハブを使うReporterを作成します
func newReporterWithHub(hub *sentry.Hub) *Reporter {
	return &Reporter{hub: hub}
}

// Report は、タグを付けてエラーをSentryへ送信します
func (r *Reporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	hub := r.hub
	if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
		hub = ctxHub
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetLevel(sentry.LevelError)
		hub.CaptureException(err)
	})
}

// LogReporter は、Sentryを使わずにログへ出力するErrorReporterの実装です
type LogReporter struct{}

// NewLogReporter は新しいLogReporterインスタンスを作成します
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// Report は、タグ付きでエラーをログに出力します
func (r *LogReporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	log.Printf("エラーを記録: %v, タグ=%v", err, tags)
}
