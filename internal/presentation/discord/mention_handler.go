package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	infra "productstudio/internal/infrastructure/discord"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// MentionHandler は、画像付きメンションを受け取りセッションを開始するハンドラーです
type MentionHandler struct {
	session         *discordgo.Session
	studio          *application.StudioApplicationService
	attachments     *infra.DiscordAttachmentRepository
	catalog         *i18n.Catalog
	botID           string
	botUsername     string
	defaultCategory domain.Category
	responseHandler *ResponseHandler
}

// NewMentionHandler は新しいMentionHandlerインスタンスを作成します
func NewMentionHandler(
	session *discordgo.Session,
	studio *application.StudioApplicationService,
	attachments *infra.DiscordAttachmentRepository,
	catalog *i18n.Catalog,
	botID string,
	defaultCategory domain.Category,
	responseHandler *ResponseHandler,
) *MentionHandler {
	return &MentionHandler{
		session:         session,
		studio:          studio,
		attachments:     attachments,
		catalog:         catalog,
		botID:           botID,
		defaultCategory: defaultCategory,
		responseHandler: responseHandler,
	}
}

// SetupHandlers は、メンション関連のイベントハンドラを設定します
func (h *MentionHandler) SetupHandlers() {
	h.session.AddHandler(h.handleMessageCreate)
	h.session.AddHandler(h.handleReady)
}

// SetBotUsername は、Botのユーザー名を設定します
func (h *MentionHandler) SetBotUsername(username string) {
	h.botUsername = username
}

// handleReady は、Botが準備完了した際のイベントを処理します
func (h *MentionHandler) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Botが準備完了しました: %s#%s", event.User.Username, event.User.Discriminator)
	h.botUsername = event.User.Username
}

// handleMessageCreate は、メッセージ作成イベントを処理します
func (h *MentionHandler) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Bot自身のメッセージは無視
	if m.Author == nil || m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	// メンションされているかチェック
	if !h.isMentioned(m) {
		return
	}

	mention := h.attachments.ToMention(m.Message, h.botID)
	log.Printf("Botへのメンションを検出: %s", mention)

	// 非同期でメンションを処理
	go h.processMentionAsync(s, m, mention)
}

// isMentioned は、メッセージがBotへのメンションかどうかを判定します
func (h *MentionHandler) isMentioned(m *discordgo.MessageCreate) bool {
	// メンション配列をチェック
	for _, mention := range m.Mentions {
		if mention.ID == h.botID {
			return true
		}
	}

	// メンション配列が空の場合、コンテンツをチェック
	if len(m.Mentions) == 0 && h.botUsername != "" {
		content := strings.ToLower(m.Content)
		botMention := fmt.Sprintf("@%s", strings.ToLower(h.botUsername))
		return strings.Contains(content, botMention)
	}

	return false
}

// processMentionAsync は、添付画像をアップロードして操作パネルを返信します
func (h *MentionHandler) processMentionAsync(s *discordgo.Session, m *discordgo.MessageCreate, mention domain.StudioMention) {
	ctx := context.Background()
	l := h.catalog.Default()
	reference := &discordgo.MessageReference{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	}

	attachment, err := h.resolveAttachment(ctx, mention)
	if err != nil {
		log.Printf("添付画像の取得に失敗: %v", err)
		h.reply(s, m, h.responseHandler.formatError(err, l), reference)
		return
	}

	snap, err := h.startUpload(ctx, mention, attachment)
	if err != nil {
		log.Printf("画像のアップロードに失敗: %v", err)
		h.reply(s, m, h.responseHandler.formatError(err, l), reference)
		return
	}

	h.responseHandler.sendPanel(s, m.ChannelID, snap, l, reference)
}

// resolveAttachment は、メンションの添付画像を返します
// 添付がない場合は、同じユーザーが直近に投稿した画像を探します
func (h *MentionHandler) resolveAttachment(ctx context.Context, mention domain.StudioMention) (domain.Attachment, error) {
	for _, att := range mention.Attachments {
		if infra.IsImageAttachment(att) {
			return att, nil
		}
	}
	if att, ok := mention.FirstImage(); ok {
		// 画像以外の添付は形式エラーとして扱う
		return att, nil
	}

	att, found, err := h.attachments.FindLatestImage(ctx, mention.ChannelID, mention.User.ID, 0)
	if err != nil {
		return domain.Attachment{}, err
	}
	if !found {
		return domain.Attachment{}, domain.ErrNoImage
	}
	log.Printf("直近の画像を使用します: %s", att.Filename)
	return att, nil
}

// startUpload は、セッションを用意して画像をアップロードします
// メンション本文があればカスタム説明として設定します
func (h *MentionHandler) startUpload(ctx context.Context, mention domain.StudioMention, att domain.Attachment) (domain.SessionSnapshot, error) {
	info := att.FileInfo()
	if err := h.studio.Validator().Validate(info); err != nil {
		return domain.SessionSnapshot{}, err
	}

	key := mention.SessionKey()
	snap, err := h.studio.EnsureSession(ctx, key, h.defaultCategory)
	if err != nil {
		return snap, err
	}

	// 新しい画像で始め直す
	switch snap.Phase {
	case domain.PhaseIdle:
	case domain.PhaseGenerating:
		return snap, domain.ErrGenerationInFlight
	default:
		if snap, err = h.studio.Reset(ctx, key); err != nil {
			return snap, err
		}
	}

	data, err := h.attachments.Download(ctx, att)
	if err != nil {
		return snap, err
	}

	snap, err = h.studio.Upload(ctx, key, info, data)
	if err != nil {
		return snap, err
	}

	if mention.Content != "" {
		return h.studio.SetCustomText(ctx, key, mention.Content)
	}
	return snap, nil
}

func (h *MentionHandler) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string, reference *discordgo.MessageReference) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, reference); err != nil {
		log.Printf("応答メッセージの送信に失敗: %v", err)
	}
}
