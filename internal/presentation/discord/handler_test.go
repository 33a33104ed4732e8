package discord

import (
	"testing"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	infra "productstudio/internal/infrastructure/discord"
	"productstudio/internal/infrastructure/i18n"
	"productstudio/internal/infrastructure/memory"

	"github.com/bwmarrin/discordgo"
)

// newTestStudio は、メモリ上のリポジトリとスタブの生成クライアントでサービスを作成します
func newTestStudio(t *testing.T, generator application.ImageGenerator) *application.StudioApplicationService {
	t.Helper()

	studio, err := application.NewStudioApplicationService(
		memory.NewSessionRepository(),
		memory.NewPreviewRegistry(),
		application.NewGenerationOrchestrator(generator, nil),
		domain.NewUploadValidator(0),
		application.StudioOptions{},
	)
	if err != nil {
		t.Fatalf("サービスの作成に失敗しました: %v", err)
	}
	return studio
}

func newTestCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()

	catalog, err := i18n.NewCatalog("ja")
	if err != nil {
		t.Fatalf("カタログの作成に失敗しました: %v", err)
	}
	return catalog
}

func TestNewDiscordHandler(t *testing.T) {
	session := &discordgo.Session{}
	botID := "bot123"
	studio := newTestStudio(t, &stubGenerator{})
	attachments := infra.NewDiscordAttachmentRepository(session, 0)

	handler := NewDiscordHandler(session, studio, attachments, newTestCatalog(t), botID, domain.CategoryProduct)

	if handler.session != session {
		t.Error("セッションが正しく設定されていません")
	}
	if handler.botID != botID {
		t.Error("BotIDが正しく設定されていません")
	}
	if handler.mentionHandler == nil || handler.componentHandler == nil || handler.slashCommandHandler == nil {
		t.Fatal("サブハンドラーが作成されていません")
	}
	if handler.mentionHandler.defaultCategory != domain.CategoryProduct {
		t.Errorf("既定カテゴリが正しく設定されていません: %s", handler.mentionHandler.defaultCategory)
	}
}

func TestMentionHandler_IsMentioned_WithMentions(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "StudioBot",
	}

	// メンション配列がある場合
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content: "<@bot123> 大理石の上に置いて",
			Mentions: []*discordgo.User{
				{ID: "bot123"},
			},
		},
	}

	if !handler.isMentioned(message) {
		t.Error("メンション配列での判定が失敗しました")
	}
}

func TestMentionHandler_IsMentioned_WithUsername(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "StudioBot",
	}

	// メンション配列が空で、ユーザー名でのメンション
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:  "@studiobot この写真をお願い",
			Mentions: []*discordgo.User{},
		},
	}

	if !handler.isMentioned(message) {
		t.Error("ユーザー名でのメンション判定が失敗しました")
	}
}

func TestMentionHandler_IsMentioned_NotMentioned(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "StudioBot",
	}

	tests := []struct {
		name     string
		content  string
		mentions []*discordgo.User
	}{
		{
			name:     "メンションなし",
			content:  "こんにちは",
			mentions: []*discordgo.User{},
		},
		{
			name:     "他のユーザーへのメンション",
			content:  "<@other> @studiobot",
			mentions: []*discordgo.User{{ID: "other"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := &discordgo.MessageCreate{
				Message: &discordgo.Message{Content: tt.content, Mentions: tt.mentions},
			}
			if handler.isMentioned(message) {
				t.Error("メンションされていないのに判定されました")
			}
		})
	}
}

func TestInteractionSessionKey(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.Interaction
		expected    string
	}{
		{
			name: "サーバー内のインタラクション",
			interaction: &discordgo.Interaction{
				ChannelID: "channel1",
				Member:    &discordgo.Member{User: &discordgo.User{ID: "user1"}},
			},
			expected: "channel1:user1",
		},
		{
			name: "DMのインタラクション",
			interaction: &discordgo.Interaction{
				ChannelID: "dm1",
				User:      &discordgo.User{ID: "user2"},
			},
			expected: "dm1:user2",
		},
		{
			name:        "ユーザー不明",
			interaction: &discordgo.Interaction{ChannelID: "channel1"},
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interactionSessionKey(&discordgo.InteractionCreate{Interaction: tt.interaction})
			if got != tt.expected {
				t.Errorf("期待値: %q, 実際: %q", tt.expected, got)
			}
		})
	}
}

func TestInteractionLocalizer(t *testing.T) {
	catalog := newTestCatalog(t)

	tests := []struct {
		locale   discordgo.Locale
		expected string
	}{
		{locale: discordgo.Japanese, expected: "ja"},
		{locale: discordgo.EnglishUS, expected: "en"},
		{locale: discordgo.German, expected: "ja"},
		{locale: "", expected: "ja"},
	}

	for _, tt := range tests {
		t.Run(string(tt.locale), func(t *testing.T) {
			i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Locale: tt.locale}}
			if got := interactionLocalizer(catalog, i).Language(); got != tt.expected {
				t.Errorf("期待値: %s, 実際: %s", tt.expected, got)
			}
		})
	}
}
