package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// SlashCommandHandler は、Discordのスラッシュコマンドを処理するハンドラーです
type SlashCommandHandler struct {
	session         *discordgo.Session
	studio          *application.StudioApplicationService
	catalog         *i18n.Catalog
	defaultCategory domain.Category
	responseHandler *ResponseHandler
}

// NewSlashCommandHandler は新しいSlashCommandHandlerインスタンスを作成します
func NewSlashCommandHandler(
	session *discordgo.Session,
	studio *application.StudioApplicationService,
	catalog *i18n.Catalog,
	defaultCategory domain.Category,
	responseHandler *ResponseHandler,
) *SlashCommandHandler {
	return &SlashCommandHandler{
		session:         session,
		studio:          studio,
		catalog:         catalog,
		defaultCategory: defaultCategory,
		responseHandler: responseHandler,
	}
}

// slashCommands は、登録するスラッシュコマンドの定義です
func slashCommands() []*discordgo.ApplicationCommand {
	categoryChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		categoryChoices = append(categoryChoices, &discordgo.ApplicationCommandOptionChoice{Name: c.DisplayName(), Value: string(c)})
	}
	genderChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllGenders()))
	for _, g := range domain.AllGenders() {
		genderChoices = append(genderChoices, &discordgo.ApplicationCommandOptionChoice{Name: g.DisplayName(), Value: string(g)})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "studio",
			Description: "このチャンネルでの商品写真スタジオの状態と操作パネルを表示します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "新しく始める場合のカテゴリ",
					Required:    false,
					Choices:     categoryChoices,
				},
			},
		},
		{
			Name:        "presets",
			Description: "背景プリセットの一覧を表示します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "カテゴリ",
					Required:    false,
					Choices:     categoryChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "gender",
					Description: "モデル（モデル着用のみ）",
					Required:    false,
					Choices:     genderChoices,
				},
			},
		},
		{
			Name:        "reset",
			Description: "アップロードした画像と生成結果を破棄して最初からやり直します",
		},
	}
}

// SetupSlashCommands は、スラッシュコマンドを設定します
func (h *SlashCommandHandler) SetupSlashCommands() error {
	// BotのユーザーIDを取得
	user, err := h.session.User("@me")
	if err != nil {
		return fmt.Errorf("Botユーザー情報の取得に失敗: %w", err)
	}

	// グローバルコマンドとして登録
	for _, command := range slashCommands() {
		_, err := h.session.ApplicationCommandCreate(user.ID, "", command)
		if err != nil {
			log.Printf("スラッシュコマンド %s の登録に失敗: %v", command.Name, err)
			return err
		}
		log.Printf("スラッシュコマンド %s を登録しました", command.Name)
	}

	return nil
}

// handleInteractionCreate は、スラッシュコマンドを処理します
func (h *SlashCommandHandler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "studio":
		h.handleStudioCommand(s, i)
	case "presets":
		h.handlePresetsCommand(s, i)
	case "reset":
		h.handleResetCommand(s, i)
	default:
		log.Printf("未知のスラッシュコマンド: %s", i.ApplicationCommandData().Name)
	}
}

// handleStudioCommand は、/studioコマンドを処理します
func (h *SlashCommandHandler) handleStudioCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	l := interactionLocalizer(h.catalog, i)
	options := optionMap(i.ApplicationCommandData().Options)

	category := h.defaultCategory
	if v, ok := options["category"]; ok {
		category = domain.Category(v)
	}

	snap, err := h.studio.EnsureSession(context.Background(), interactionSessionKey(i), category)
	if err != nil {
		log.Printf("セッションの取得に失敗: %v", err)
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    panelContent(snap, l),
			Components: panelComponents(snap),
		},
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
	}
}

// handlePresetsCommand は、/presetsコマンドを処理します
func (h *SlashCommandHandler) handlePresetsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	l := interactionLocalizer(h.catalog, i)
	options := optionMap(i.ApplicationCommandData().Options)

	presets, err := filterPresets(options["category"], options["gender"])
	if err != nil {
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}

	content := formatPresetList(presets)
	chunks := h.responseHandler.splitMessage(content)
	h.responseHandler.respondToInteraction(s, i, chunks[0], true)
	for _, chunk := range chunks[1:] {
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: chunk,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			log.Printf("フォローアップメッセージの送信に失敗: %v", err)
			break
		}
	}
}

// handleResetCommand は、/resetコマンドを処理します
func (h *SlashCommandHandler) handleResetCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	l := interactionLocalizer(h.catalog, i)

	if _, err := h.studio.Reset(context.Background(), interactionSessionKey(i)); err != nil {
		log.Printf("リセットに失敗: %v", err)
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}
	h.responseHandler.respondToInteraction(s, i, "🔄 "+l.Message(i18n.KeyResetDone), true)
}

// optionMap は、コマンドのオプションを名前で引けるようにします
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	m := make(map[string]string, len(options))
	for _, o := range options {
		if o.Type == discordgo.ApplicationCommandOptionString {
			m[o.Name] = o.StringValue()
		}
	}
	return m
}

// filterPresets は、カテゴリと性別でプリセットを絞り込みます
func filterPresets(category, gender string) ([]domain.Preset, error) {
	if category == "" {
		return domain.AllPresets(), nil
	}
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	var g domain.Gender
	if gender != "" {
		if g, err = domain.ParseGender(gender); err != nil {
			return nil, err
		}
	}
	return domain.PresetsFor(cat, g), nil
}

// formatPresetList は、プリセットの一覧をカテゴリごとにまとめます
func formatPresetList(presets []domain.Preset) string {
	var b strings.Builder
	var current string
	for _, p := range presets {
		heading := p.Category.DisplayName()
		if p.Gender != domain.GenderNone {
			heading += " / " + p.Gender.DisplayName()
		}
		if heading != current {
			if current != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "📂 **%s**\n", heading)
			current = heading
		}
		fmt.Fprintf(&b, "%s `%s` %s\n", p.Icon, p.ID, p.DisplayName)
	}
	return strings.TrimRight(b.String(), "\n")
}
