package i18n

import (
	"fmt"
	"strings"
	"testing"

	"productstudio/internal/domain"
)

func newTestCatalog(t *testing.T, locale string) *Catalog {
	t.Helper()
	c, err := NewCatalog(locale)
	if err != nil {
		t.Fatalf("カタログの作成に失敗: %v", err)
	}
	return c
}

func TestNewCatalog_UnsupportedLocale(t *testing.T) {
	if _, err := NewCatalog("fr"); err == nil {
		t.Error("サポートされていない言語でエラーが返されるべきです")
	}
	if _, err := NewCatalog("!!"); err == nil {
		t.Error("解析できない言語でエラーが返されるべきです")
	}
}

func TestCatalog_For(t *testing.T) {
	c := newTestCatalog(t, "ja")

	tests := []struct {
		name           string
		acceptLanguage string
		want           string
	}{
		{"空の場合は既定言語", "", "ja"},
		{"英語", "en-US,en;q=0.9", "en"},
		{"アラビア語", "ar-EG", "ar"},
		{"優先度順", "fr-FR, ar;q=0.8, en;q=0.5", "ar"},
		{"未対応言語は既定言語", "de-DE", "ja"},
		{"不正な値は既定言語", ";;;=", "ja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.For(tt.acceptLanguage).Language()
			if got != tt.want {
				t.Errorf("言語が不正: 期待値 %s, 実際 %s", tt.want, got)
			}
		})
	}
}

func TestCatalog_Default(t *testing.T) {
	c := newTestCatalog(t, "en")
	if got := c.Default().Language(); got != "en" {
		t.Errorf("既定言語が不正: %s", got)
	}
	if got := c.Default().Message(KeyNoImage); got != "Please upload an image first." {
		t.Errorf("メッセージが不正: %q", got)
	}
}

func TestMessagesAreComplete(t *testing.T) {
	ja := messages[supportedTags[0]]
	for _, tag := range supportedTags {
		entries := messages[tag]
		if len(entries) != len(ja) {
			t.Errorf("%s のメッセージ数が不正: 期待値 %d, 実際 %d", tag, len(ja), len(entries))
		}
		for key := range ja {
			if entries[key] == "" {
				t.Errorf("%s にメッセージ %s がありません", tag, key)
			}
		}
	}
}

func TestLocalizer_Error(t *testing.T) {
	l := newTestCatalog(t, "en").Default()

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "形式エラー",
			err:      &domain.ValidationError{Kind: domain.UnsupportedType, MIMEType: "application/pdf"},
			contains: "Unsupported file type (application/pdf)",
		},
		{
			name:     "サイズ超過",
			err:      &domain.ValidationError{Kind: domain.TooLarge, MIMEType: "image/png", Size: 12 * 1024 * 1024, MaxBytes: domain.DefaultMaxUploadBytes},
			contains: "(12 MiB). Please choose an image up to 10 MiB.",
		},
		{
			name:     "ラップされたサイズ超過",
			err:      fmt.Errorf("アップロード失敗: %w", &domain.ValidationError{Kind: domain.TooLarge, Size: 2048, MaxBytes: 1024}),
			contains: "up to 1.0 KiB",
		},
		{"プロンプトなし", domain.ErrEmptyPrompt, "choose a background"},
		{"生成中", domain.ErrGenerationInFlight, "already running"},
		{"状態不正", domain.ErrInvalidTransition, "not available"},
		{"セッションなし", fmt.Errorf("%w: abc", domain.ErrSessionNotFound), "Session not found"},
		{"プリセットなし", fmt.Errorf("%w: beach", domain.ErrPresetNotFound), "Preset not found (beach)"},
		{"カテゴリ不一致", fmt.Errorf("%w: model-studio (product)", domain.ErrPresetCategoryMismatch), "does not belong"},
		{"不明なエラー", fmt.Errorf("接続がリセットされました"), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Error(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("メッセージに %q が含まれていません: %q", tt.contains, got)
			}
		})
	}

	if got := l.Error(nil); got != "" {
		t.Errorf("nilエラーは空文字になるべきです: %q", got)
	}
}

func TestLocalizer_Error_DoesNotLeakProviderText(t *testing.T) {
	l := newTestCatalog(t, "ja").Default()
	got := l.Error(fmt.Errorf("googleapi: Error 500: backend exploded"))
	if strings.Contains(got, "backend") {
		t.Errorf("技術的な内容が含まれています: %q", got)
	}
}

func TestLocalizer_Outcome(t *testing.T) {
	l := newTestCatalog(t, "ja").Default()

	failure := domain.FailureOutcome(domain.FailureProviderError, domain.GenericFailureMessage)
	if got := l.Outcome(failure); got != domain.GenericFailureMessage {
		t.Errorf("失敗メッセージが不正: %q", got)
	}

	noImage := domain.FailureOutcome(domain.FailureNoImageProduced, domain.ErrNoImageProduced.Error())
	if got := l.Outcome(noImage); got != domain.GenericFailureMessage {
		t.Errorf("画像なしメッセージが不正: %q", got)
	}

	success := domain.SuccessOutcome(&domain.EncodedImage{Data: []byte{1}, MIMEType: "image/png"})
	if got := l.Outcome(success); got != l.Message(KeyGenerationDone) {
		t.Errorf("成功メッセージが不正: %q", got)
	}
}

func TestLocalizer_GenerationFailuresShareOneMessage(t *testing.T) {
	for _, locale := range SupportedLocales {
		t.Run(locale, func(t *testing.T) {
			l := newTestCatalog(t, locale).Default()

			noImage := l.Outcome(domain.FailureOutcome(domain.FailureNoImageProduced, domain.ErrNoImageProduced.Error()))
			provider := l.Outcome(domain.FailureOutcome(domain.FailureProviderError, domain.GenericFailureMessage))
			if noImage != provider {
				t.Errorf("生成失敗のメッセージが一致しません: 画像なし=%q, APIエラー=%q", noImage, provider)
			}
			if noImage != l.Message(KeyGenerationFailed) {
				t.Errorf("汎用メッセージではありません: %q", noImage)
			}

			wrapped := fmt.Errorf("応答の解析: %w", domain.ErrNoImageProduced)
			if got := l.Error(wrapped); got != provider {
				t.Errorf("エラーからのメッセージが一致しません: %q", got)
			}
		})
	}
}

func TestLocalizer_Label(t *testing.T) {
	l := newTestCatalog(t, "en").Default()
	if got := l.Label(KeyCategoryLabel); got != "Category" {
		t.Errorf("ラベルが不正: %q", got)
	}
}

func TestIsSupportedLocale(t *testing.T) {
	for _, locale := range []string{"ja", "EN", "ar"} {
		if !IsSupportedLocale(locale) {
			t.Errorf("%s はサポートされているべきです", locale)
		}
	}
	if IsSupportedLocale("fr") {
		t.Error("fr はサポートされていないはずです")
	}
}
