package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessageLimit は、Discordのメッセージ文字数制限です
const DiscordMessageLimit = 2000

// ResponseHandler は、Discordのレスポンス送信・フォーマット処理を担当するハンドラーです
type ResponseHandler struct{}

// NewResponseHandler は新しいResponseHandlerインスタンスを作成します
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// sendPanel は、操作パネルをチャンネルに送信します
// reference が指定された場合は元のメッセージへのリプライになります
func (h *ResponseHandler) sendPanel(s *discordgo.Session, channelID string, snap domain.SessionSnapshot, l *i18n.Localizer, reference *discordgo.MessageReference) {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    panelContent(snap, l),
		Components: panelComponents(snap),
		Reference:  reference,
	})
	if err != nil {
		log.Printf("操作パネルの送信に失敗: %v", err)
	}
}

// sendResult は、生成画像をファイルとして送信します
func (h *ResponseHandler) sendResult(s *discordgo.Session, channelID string, snap domain.SessionSnapshot, dl domain.Download, l *i18n.Localizer) error {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: h.createResultMessage(snap, l),
		Files: []*discordgo.File{
			{
				Name:        dl.Filename,
				ContentType: dl.MIMEType,
				Reader:      bytes.NewReader(dl.Data),
			},
		},
		Components: panelComponents(snap),
	})
	if err != nil {
		return fmt.Errorf("Discordへのファイルアップロードに失敗: %w", err)
	}

	log.Printf("生成画像のアップロードが完了しました: %s (%dバイト)", dl.Filename, len(dl.Data))
	return nil
}

// sendCompare は、元画像と生成画像を並べて送信します
func (h *ResponseHandler) sendCompare(s *discordgo.Session, channelID string, view domain.ResultView) error {
	if view.Original == nil || view.Generated == nil {
		return domain.ErrNoResult
	}

	originalName := view.Original.Filename
	if originalName == "" {
		originalName = "original" + extensionFor(view.Original.MIMEType)
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("🔍 **%s**", domain.ViewCompare.DisplayName()),
		Files: []*discordgo.File{
			{
				Name:        "before-" + originalName,
				ContentType: view.Original.MIMEType,
				Reader:      bytes.NewReader(view.Original.Data),
			},
			{
				Name:        domain.DownloadFilename,
				ContentType: view.Generated.ContentType(),
				Reader:      bytes.NewReader(view.Generated.Data),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("比較画像の送信に失敗: %w", err)
	}
	return nil
}

// createResultMessage は、生成結果に添えるメッセージを作成します
func (h *ResponseHandler) createResultMessage(snap domain.SessionSnapshot, l *i18n.Localizer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎨 **%s**\n", l.Message(i18n.KeyGenerationDone))
	fmt.Fprintf(&b, "**%s:** %s\n", l.Label(i18n.KeyCategoryLabel), snap.Category.DisplayName())
	if snap.ChoiceKind == domain.ChoiceCustom {
		fmt.Fprintf(&b, "**%s:** ✏️ %s", l.Label(i18n.KeyPresetLabel), truncateRunes(snap.CustomText, 200))
	} else if p, ok := domain.FindPreset(snap.PresetID); ok {
		fmt.Fprintf(&b, "**%s:** %s %s", l.Label(i18n.KeyPresetLabel), p.Icon, p.DisplayName)
	}
	return b.String()
}

// respondToInteraction は、インタラクションに応答します
func (h *ResponseHandler) respondToInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}

	if !ephemeral {
		response.Data.Flags = 0
	}

	err := s.InteractionRespond(i.Interaction, response)
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
	}
}

// updatePanel は、ボタンが押されたパネルを最新の状態に書き換えます
func (h *ResponseHandler) updatePanel(s *discordgo.Session, i *discordgo.InteractionCreate, snap domain.SessionSnapshot, l *i18n.Localizer) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    panelContent(snap, l),
			Components: panelComponents(snap),
		},
	})
	if err != nil {
		log.Printf("操作パネルの更新に失敗: %v", err)
	}
}

// sendTextContent は、テキストを分割してチャンネルに送信します
func (h *ResponseHandler) sendTextContent(s *discordgo.Session, channelID string, content string) {
	chunks := h.splitMessage(content)
	for i, chunk := range chunks {
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			log.Printf("メッセージの送信に失敗 (チャンク %d): %v", i+1, err)
			break
		}
	}
}

// splitMessage は、長いメッセージをDiscordの制限に合わせて分割します
func (h *ResponseHandler) splitMessage(message string) []string {
	if len(message) <= DiscordMessageLimit {
		return []string{message}
	}

	var chunks []string
	remaining := message

	for len(remaining) > 0 {
		if len(remaining) <= DiscordMessageLimit {
			chunks = append(chunks, remaining)
			break
		}

		// 制限以内で最も近い改行位置を探す
		splitIndex := strings.LastIndex(remaining[:DiscordMessageLimit], "\n")
		if splitIndex <= 0 {
			splitIndex = strings.LastIndex(remaining[:DiscordMessageLimit], " ")
		}
		if splitIndex <= 0 {
			splitIndex = runeBoundary(remaining, DiscordMessageLimit)
		}

		chunks = append(chunks, remaining[:splitIndex])
		remaining = strings.TrimLeft(remaining[splitIndex:], " \n")
	}

	return chunks
}

// runeBoundary は、limit バイト以下で文字の途中にならない位置を返します
func runeBoundary(s string, limit int) int {
	idx := 0
	for i := range s {
		if i > limit {
			break
		}
		idx = i
	}
	if idx == 0 {
		return limit
	}
	return idx
}

// isTimeoutError は、エラーがタイムアウトエラーかどうかを判定します
func (h *ResponseHandler) isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// タイムアウト関連のエラーメッセージを検出
	errorMsg := strings.ToLower(err.Error())
	timeoutKeywords := []string{
		"timeout",
		"タイムアウト",
		"deadline exceeded",
	}

	for _, keyword := range timeoutKeywords {
		if strings.Contains(errorMsg, keyword) {
			return true
		}
	}

	return false
}

// formatError は、エラーを利用者向けのメッセージにフォーマットします
func (h *ResponseHandler) formatError(err error, l *i18n.Localizer) string {
	if h.isTimeoutError(err) {
		return "⏰ " + l.Message(i18n.KeyGenerationFailed)
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "📏 " + l.Error(err)
	case errors.Is(err, domain.ErrGenerationInFlight):
		return "⏳ " + l.Error(err)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNoImage):
		return "📎 " + l.Error(err)
	default:
		return "❌ " + l.Error(err)
	}
}

func extensionFor(mimeType string) string {
	switch domain.NormalizeMIMEType(mimeType) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}
