package discord

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"productstudio/internal/domain"

	"github.com/bwmarrin/discordgo"
)

func TestNewDiscordAttachmentRepository(t *testing.T) {
	session := &discordgo.Session{Client: &http.Client{}}
	repo := NewDiscordAttachmentRepository(session, 0)

	if repo.session != session {
		t.Error("セッションが正しく設定されていません")
	}
	if repo.client != session.Client {
		t.Error("セッションのHTTPクライアントが使われていません")
	}
	if repo.maxBytes != domain.DefaultMaxUploadBytes {
		t.Errorf("既定の上限が設定されていません: %d", repo.maxBytes)
	}
}

func TestDiscordAttachmentRepository_ToMention(t *testing.T) {
	repo := NewDiscordAttachmentRepository(nil, 1024)
	msg := &discordgo.Message{
		ID:        "msg-1",
		ChannelID: "ch-1",
		Content:   "<@bot> 白い背景でお願いします",
		Author:    &discordgo.User{ID: "user-1", Username: "alice"},
		Member:    &discordgo.Member{Nick: "アリス"},
		Mentions:  []*discordgo.User{{ID: "bot"}},
		Attachments: []*discordgo.MessageAttachment{
			{ID: "a1", Filename: "shoe.png", ContentType: "image/png", Size: 512, URL: "https://cdn.example/shoe.png"},
		},
	}

	mention := repo.ToMention(msg, "bot")

	if mention.Content != "白い背景でお願いします" {
		t.Errorf("メンションが除去されていません: %q", mention.Content)
	}
	if mention.User.GetDisplayName() != "アリス" {
		t.Errorf("表示名が不正: %q", mention.User.GetDisplayName())
	}
	if mention.SessionKey() != "ch-1:user-1" {
		t.Errorf("セッションキーが不正: %q", mention.SessionKey())
	}
	att, ok := mention.FirstImage()
	if !ok {
		t.Fatal("添付ファイルが変換されていません")
	}
	if att.Size != 512 || att.ContentType != "image/png" || att.URL != "https://cdn.example/shoe.png" {
		t.Errorf("添付ファイルの変換が不正: %+v", att)
	}
}

func TestStripMentions(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		mentions []*discordgo.User
		want     string
	}{
		{"メンションなし", "  こんにちは ", nil, "こんにちは"},
		{"通常メンション", "<@123> 海辺", []*discordgo.User{{ID: "123"}}, "海辺"},
		{"ニックネームメンション", "<@!bot> 海辺", nil, "海辺"},
		{"メンションのみ", "<@bot>", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMentions(tt.content, tt.mentions, "bot"); got != tt.want {
				t.Errorf("期待値 %q, 実際 %q", tt.want, got)
			}
		})
	}
}

func TestIsImageAttachment(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/png", true},
		{"IMAGE/JPEG; charset=binary", true},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsImageAttachment(domain.Attachment{ContentType: tt.contentType}); got != tt.want {
			t.Errorf("%q: 期待値 %v, 実際 %v", tt.contentType, tt.want, got)
		}
	}
}

func TestDiscordAttachmentRepository_Download(t *testing.T) {
	payload := bytes.Repeat([]byte{0x89}, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(payload)
		case "/huge.png":
			w.Write(bytes.Repeat([]byte{0x01}, 300))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	repo := NewDiscordAttachmentRepository(&discordgo.Session{Client: server.Client()}, 200)
	ctx := context.Background()

	t.Run("正常系", func(t *testing.T) {
		data, err := repo.Download(ctx, domain.Attachment{Filename: "ok.png", ContentType: "image/png", Size: 100, URL: server.URL + "/ok.png"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("ダウンロード内容が不正: %dバイト", len(data))
		}
	})

	t.Run("申告サイズが上限超過", func(t *testing.T) {
		_, err := repo.Download(ctx, domain.Attachment{Filename: "big.png", ContentType: "image/png", Size: 201, URL: server.URL + "/ok.png"})
		if !errors.Is(err, domain.ErrTooLarge) {
			t.Errorf("ErrTooLargeが返されるべきです: %v", err)
		}
	})

	t.Run("実サイズが上限超過", func(t *testing.T) {
		_, err := repo.Download(ctx, domain.Attachment{Filename: "huge.png", ContentType: "image/png", Size: 10, URL: server.URL + "/huge.png"})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ValidationErrorが返されるべきです: %v", err)
		}
		if verr.Size != 201 {
			t.Errorf("読み込みは上限+1バイトで打ち切られるべきです: %d", verr.Size)
		}
	})

	t.Run("ステータスエラー", func(t *testing.T) {
		_, err := repo.Download(ctx, domain.Attachment{Filename: "missing.png", ContentType: "image/png", Size: 10, URL: server.URL + "/missing.png"})
		if err == nil {
			t.Error("エラーが返されるべきです")
		}
	})

	t.Run("キャンセル済みコンテキスト", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.Download(cancelled, domain.Attachment{Filename: "ok.png", ContentType: "image/png", Size: 100, URL: server.URL + "/ok.png"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("context.Canceledが返されるべきです: %v", err)
		}
	})
}
