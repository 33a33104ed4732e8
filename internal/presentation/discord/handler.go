package discord

import (
	"log"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	infra "productstudio/internal/infrastructure/discord"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// DiscordHandler は、Discordのイベントハンドラです
type DiscordHandler struct {
	session             *discordgo.Session
	studio              *application.StudioApplicationService
	botID               string
	mentionHandler      *MentionHandler
	componentHandler    *ComponentHandler
	slashCommandHandler *SlashCommandHandler
}

// NewDiscordHandler は新しいDiscordHandlerインスタンスを作成します
func NewDiscordHandler(
	session *discordgo.Session,
	studio *application.StudioApplicationService,
	attachments *infra.DiscordAttachmentRepository,
	catalog *i18n.Catalog,
	botID string,
	defaultCategory domain.Category,
) *DiscordHandler {
	// ResponseHandlerを作成
	responseHandler := NewResponseHandler()

	return &DiscordHandler{
		session:             session,
		studio:              studio,
		botID:               botID,
		mentionHandler:      NewMentionHandler(session, studio, attachments, catalog, botID, defaultCategory, responseHandler),
		componentHandler:    NewComponentHandler(studio, catalog, responseHandler),
		slashCommandHandler: NewSlashCommandHandler(session, studio, catalog, defaultCategory, responseHandler),
	}
}

// SetupHandlers は、Discordのイベントハンドラを設定します
func (h *DiscordHandler) SetupHandlers() {
	// メンションハンドラーを設定
	h.mentionHandler.SetupHandlers()

	// インタラクションは種類ごとに振り分ける
	h.session.AddHandler(h.handleInteractionCreate)
}

// SetupSlashCommands は、スラッシュコマンドを登録します
func (h *DiscordHandler) SetupSlashCommands() error {
	return h.slashCommandHandler.SetupSlashCommands()
}

// handleInteractionCreate は、インタラクション作成イベントを処理します
func (h *DiscordHandler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.slashCommandHandler.handleInteractionCreate(s, i)
	case discordgo.InteractionMessageComponent:
		h.componentHandler.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		h.componentHandler.handleModalSubmit(s, i)
	default:
		log.Printf("未対応のインタラクション: %v", i.Type)
	}
}

// interactionUser は、インタラクションを実行したユーザーを返します
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// interactionSessionKey は、インタラクションを実行したユーザーのセッションIDを返します
func interactionSessionKey(i *discordgo.InteractionCreate) string {
	user := interactionUser(i)
	if user == nil {
		return ""
	}
	return domain.SessionKey(i.ChannelID, user.ID)
}

// interactionLocalizer は、利用者のクライアント言語に合わせたLocalizerを返します
func interactionLocalizer(catalog *i18n.Catalog, i *discordgo.InteractionCreate) *i18n.Localizer {
	return catalog.For(string(i.Locale))
}
