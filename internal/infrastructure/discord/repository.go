package discord

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"productstudio/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// DefaultRecentMessageLimit は、直近の画像を探すときに取得するメッセージ数です
const DefaultRecentMessageLimit = 20

// DiscordAttachmentRepository は、Discordのメッセージから添付画像を取得するリポジトリです
type DiscordAttachmentRepository struct {
	session  *discordgo.Session
	client   *http.Client
	maxBytes int64
}

// NewDiscordAttachmentRepository は新しいDiscordAttachmentRepositoryインスタンスを作成します
// maxBytes を超える添付ファイルはダウンロードしません
func NewDiscordAttachmentRepository(session *discordgo.Session, maxBytes int64) *DiscordAttachmentRepository {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxUploadBytes
	}
	client := http.DefaultClient
	if session != nil && session.Client != nil {
		client = session.Client
	}
	return &DiscordAttachmentRepository{
		session:  session,
		client:   client,
		maxBytes: maxBytes,
	}
}

// ToMention は、DiscordメッセージをStudioMentionに変換します
// 画像以外の添付ファイルも含めて変換し、検証は呼び出し側で行います
func (r *DiscordAttachmentRepository) ToMention(msg *discordgo.Message, botID string) domain.StudioMention {
	user := domain.User{}
	if msg.Author != nil {
		user = domain.User{
			ID:          msg.Author.ID,
			Username:    msg.Author.Username,
			DisplayName: r.getDisplayName(msg),
			IsBot:       msg.Author.Bot,
		}
	}

	return domain.StudioMention{
		ChannelID:   msg.ChannelID,
		GuildID:     msg.GuildID,
		User:        user,
		Content:     StripMentions(msg.Content, msg.Mentions, botID),
		MessageID:   msg.ID,
		Attachments: convertAttachments(msg.Attachments),
	}
}

// FindLatestImage は、指定したユーザーが直近に投稿した画像添付を探します
func (r *DiscordAttachmentRepository) FindLatestImage(ctx context.Context, channelID, userID string, limit int) (domain.Attachment, bool, error) {
	if limit <= 0 {
		limit = DefaultRecentMessageLimit
	}
	log.Printf("Discordから直近%d件のメッセージを取得中: %s", limit, channelID)

	messages, err := r.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return domain.Attachment{}, false, fmt.Errorf("Discord APIからメッセージ取得に失敗: %w", err)
	}

	// ChannelMessages は新しい順に返す
	for _, msg := range messages {
		if msg.Author == nil || msg.Author.Bot || msg.Author.ID != userID {
			continue
		}
		for _, att := range convertAttachments(msg.Attachments) {
			if IsImageAttachment(att) {
				return att, true, nil
			}
		}
	}
	return domain.Attachment{}, false, nil
}

// Download は、添付ファイルをダウンロードします
// 上限を超える場合は TooLarge の検証エラーを返します
func (r *DiscordAttachmentRepository) Download(ctx context.Context, att domain.Attachment) ([]byte, error) {
	if att.Size > r.maxBytes {
		return nil, &domain.ValidationError{
			Kind:     domain.TooLarge,
			MIMEType: domain.NormalizeMIMEType(att.ContentType),
			Size:     att.Size,
			MaxBytes: r.maxBytes,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("ダウンロードリクエストの作成に失敗: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("添付ファイルのダウンロードに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("添付ファイルのダウンロードに失敗: ステータス %d", resp.StatusCode)
	}

	// 申告サイズが実際と異なる場合に備えて上限+1バイトまで読む
	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("添付ファイルの読み込みに失敗: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, &domain.ValidationError{
			Kind:     domain.TooLarge,
			MIMEType: domain.NormalizeMIMEType(att.ContentType),
			Size:     int64(len(data)),
			MaxBytes: r.maxBytes,
		}
	}

	log.Printf("添付ファイルをダウンロードしました: %s (%dバイト)", att.Filename, len(data))
	return data, nil
}

// IsImageAttachment は、添付ファイルが画像かどうかをContent-Typeで判定します
func IsImageAttachment(att domain.Attachment) bool {
	return strings.HasPrefix(domain.NormalizeMIMEType(att.ContentType), "image/")
}

// StripMentions は、メッセージ本文からメンション部分を除去します
func StripMentions(content string, mentions []*discordgo.User, botID string) string {
	for _, mention := range mentions {
		content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", mention.ID), "")
		content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", mention.ID), "")
	}
	if botID != "" {
		content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", botID), "")
		content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", botID), "")
	}
	return strings.TrimSpace(content)
}

func convertAttachments(attachments []*discordgo.MessageAttachment) []domain.Attachment {
	result := make([]domain.Attachment, 0, len(attachments))
	for _, a := range attachments {
		if a == nil {
			continue
		}
		result = append(result, domain.Attachment{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        int64(a.Size),
			URL:         a.URL,
		})
	}
	return result
}

// getDisplayName は、Discordメッセージから表示名を取得します
func (r *DiscordAttachmentRepository) getDisplayName(msg *discordgo.Message) string {
	// メンバー情報がある場合はニックネームを優先
	if msg.Member != nil && msg.Member.Nick != "" {
		return msg.Member.Nick
	}

	// メンバー情報がない場合は、Discord APIからメンバー情報を取得を試行
	if msg.GuildID != "" && r.session != nil && r.session.State != nil {
		member, err := r.session.State.Member(msg.GuildID, msg.Author.ID)
		if err == nil && member.Nick != "" {
			return member.Nick
		}
	}

	// ニックネームがない場合はユーザー名を使用
	return msg.Author.Username
}
