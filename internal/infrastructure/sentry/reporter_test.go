package sentry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"productstudio/internal/infrastructure/config"

	"github.com/getsentry/sentry-go"
)

// capturedEvents は、BeforeSendで受け取ったイベントを記録します
type capturedEvents struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *capturedEvents) beforeSend(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func newTestHub(t *testing.T, captured *capturedEvents) *sentry.Hub {
	t.Helper()
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: captured.beforeSend,
	})
	if err != nil {
		t.Fatalf("Sentryクライアントの作成に失敗: %v", err)
	}
	return sentry.NewHub(client, sentry.NewScope())
}

func TestReporter_Report(t *testing.T) {
	captured := &capturedEvents{}
	reporter := newReporterWithHub(newTestHub(t, captured))

	reporter.Report(context.Background(), errors.New("接続がリセットされました"), map[string]string{
		"component": "orchestrator",
		"mode":      "model_try_on",
	})

	if len(captured.events) != 1 {
		t.Fatalf("送信されたイベント数が不正: 期待値 1, 実際 %d", len(captured.events))
	}
	event := captured.events[0]
	if event.Tags["component"] != "orchestrator" {
		t.Errorf("componentタグが不正: %q", event.Tags["component"])
	}
	if event.Tags["mode"] != "model_try_on" {
		t.Errorf("modeタグが不正: %q", event.Tags["mode"])
	}
	if event.Level != sentry.LevelError {
		t.Errorf("レベルが不正: %v", event.Level)
	}
}

func TestReporter_Report_NilError(t *testing.T) {
	captured := &capturedEvents{}
	reporter := newReporterWithHub(newTestHub(t, captured))

	reporter.Report(context.Background(), nil, nil)

	if len(captured.events) != 0 {
		t.Errorf("nilエラーは送信されるべきではありません: %d件", len(captured.events))
	}
}

func TestReporter_Report_ScopeIsolated(t *testing.T) {
	captured := &capturedEvents{}
	reporter := newReporterWithHub(newTestHub(t, captured))

	reporter.Report(context.Background(), errors.New("1回目"), map[string]string{"attempt": "1"})
	reporter.Report(context.Background(), errors.New("2回目"), nil)

	if len(captured.events) != 2 {
		t.Fatalf("送信されたイベント数が不正: 期待値 2, 実際 %d", len(captured.events))
	}
	if _, ok := captured.events[1].Tags["attempt"]; ok {
		t.Error("前回のタグが次のイベントに残っています")
	}
}

func TestInit_EmptyDSN(t *testing.T) {
	enabled, err := Init(config.SentryConfig{Environment: "test"}, "dev")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if enabled {
		t.Error("DSNが空の場合は無効になるべきです")
	}
}

func TestLogReporter_Report(t *testing.T) {
	// パニックせずに完了することを確認
	reporter := NewLogReporter()
	reporter.Report(context.Background(), errors.New("テスト"), map[string]string{"component": "test"})
	reporter.Report(context.Background(), nil, nil)
}
