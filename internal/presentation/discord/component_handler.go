package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// ComponentHandler は、操作パネルのボタン・メニュー・モーダルを処理するハンドラーです
type ComponentHandler struct {
	studio          *application.StudioApplicationService
	catalog         *i18n.Catalog
	responseHandler *ResponseHandler
}

// NewComponentHandler は新しいComponentHandlerインスタンスを作成します
func NewComponentHandler(
	studio *application.StudioApplicationService,
	catalog *i18n.Catalog,
	responseHandler *ResponseHandler,
) *ComponentHandler {
	return &ComponentHandler{
		studio:          studio,
		catalog:         catalog,
		responseHandler: responseHandler,
	}
}

// handleComponent は、ボタンとセレクトメニューの操作を処理します
func (h *ComponentHandler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	action, ok := parseCustomID(data.CustomID)
	if !ok {
		return
	}

	l := interactionLocalizer(h.catalog, i)
	key := interactionSessionKey(i)
	ctx := context.Background()

	switch action.Name {
	case customIDCustom:
		snap, err := h.studio.Snapshot(ctx, key)
		if err != nil {
			h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
			return
		}
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: customTextModal(snap.CustomText),
		})
		if err != nil {
			log.Printf("モーダルの表示に失敗: %v", err)
		}
	case customIDGenerate:
		h.startGeneration(s, i, key, l)
	case customIDCompare:
		h.sendCompare(s, i, key, l)
	default:
		snap, err := h.apply(ctx, key, action, data.Values)
		if err != nil {
			log.Printf("パネル操作に失敗: %s, %v", data.CustomID, err)
			h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
			return
		}
		if action.Name == customIDReset {
			err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseUpdateMessage,
				Data: &discordgo.InteractionResponseData{
					Content:    "🔄 " + l.Message(i18n.KeyResetDone),
					Components: []discordgo.MessageComponent{},
				},
			})
			if err != nil {
				log.Printf("リセットの応答に失敗: %v", err)
			}
			return
		}
		h.responseHandler.updatePanel(s, i, snap, l)
	}
}

// handleModalSubmit は、カスタム説明のモーダル送信を処理します
func (h *ComponentHandler) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	action, ok := parseCustomID(data.CustomID)
	if !ok || action.Name != customIDCustomModal {
		return
	}

	l := interactionLocalizer(h.catalog, i)
	text := modalText(data.Components, customIDCustomInput)

	snap, err := h.studio.SetCustomText(context.Background(), interactionSessionKey(i), text)
	if err != nil {
		log.Printf("カスタム説明の設定に失敗: %v", err)
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}

	// モーダルを開いたパネルのメッセージを更新する
	if i.Message != nil {
		h.responseHandler.updatePanel(s, i, snap, l)
		return
	}
	h.responseHandler.respondToInteraction(s, i, "✏️ "+l.Message(i18n.KeyCustomApplied), true)
}

// apply は、パネル操作をセッションに反映します
func (h *ComponentHandler) apply(ctx context.Context, key string, action customAction, values []string) (domain.SessionSnapshot, error) {
	switch action.Name {
	case customIDCategory:
		category, err := domain.ParseCategory(action.Value)
		if err != nil {
			return domain.SessionSnapshot{}, err
		}
		return h.studio.SetCategory(ctx, key, category)
	case customIDGender:
		gender, err := domain.ParseGender(action.Value)
		if err != nil {
			return domain.SessionSnapshot{}, err
		}
		return h.studio.SetGender(ctx, key, gender)
	case customIDPreset:
		if len(values) == 0 {
			return domain.SessionSnapshot{}, fmt.Errorf("%w: 未選択", domain.ErrPresetNotFound)
		}
		return h.studio.SelectPreset(ctx, key, values[0])
	case customIDReset:
		return h.studio.Reset(ctx, key)
	}
	return domain.SessionSnapshot{}, fmt.Errorf("未知のパネル操作です: %s", action.Name)
}

// startGeneration は、生成中メッセージで応答してから非同期で画像を生成します
func (h *ComponentHandler) startGeneration(s *discordgo.Session, i *discordgo.InteractionCreate, key string, l *i18n.Localizer) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "🎨 " + l.Message(i18n.KeyGenerating),
		},
	})
	if err != nil {
		log.Printf("処理中メッセージの送信に失敗: %v", err)
		return
	}

	go h.processGenerationAsync(s, i, key, l)
}

// processGenerationAsync は、画像を生成して結果を送信します
func (h *ComponentHandler) processGenerationAsync(s *discordgo.Session, i *discordgo.InteractionCreate, key string, l *i18n.Localizer) {
	ctx := context.Background()
	result, err := h.studio.Generate(ctx, key, "")

	// 処理中メッセージを削除
	if delErr := s.InteractionResponseDelete(i.Interaction); delErr != nil {
		log.Printf("処理中メッセージの削除に失敗: %v", delErr)
	}

	if err != nil {
		log.Printf("画像生成を開始できませんでした: %v", err)
		if errors.Is(err, domain.ErrEmptyPrompt) {
			h.responseHandler.sendPanel(s, i.ChannelID, result.Snapshot, l, nil)
			return
		}
		h.responseHandler.sendTextContent(s, i.ChannelID, h.responseHandler.formatError(err, l))
		return
	}

	if !result.Applied {
		log.Printf("リセットされたため生成結果を送信しません: %s", key)
		return
	}

	if !result.Outcome.IsSuccess() {
		h.responseHandler.sendPanel(s, i.ChannelID, result.Snapshot, l, nil)
		return
	}

	dl, err := h.studio.Download(ctx, key)
	if err != nil {
		log.Printf("生成画像の取得に失敗: %v", err)
		h.responseHandler.sendTextContent(s, i.ChannelID, h.responseHandler.formatError(err, l))
		return
	}

	if err := h.responseHandler.sendResult(s, i.ChannelID, result.Snapshot, dl, l); err != nil {
		log.Printf("生成画像の送信に失敗: %v", err)
	}
}

// sendCompare は、元画像と生成画像を並べて送信します
func (h *ComponentHandler) sendCompare(s *discordgo.Session, i *discordgo.InteractionCreate, key string, l *i18n.Localizer) {
	ctx := context.Background()

	if _, err := h.studio.SetView(ctx, key, domain.ViewCompare); err != nil {
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}
	view, err := h.studio.Result(ctx, key)
	if err != nil {
		h.responseHandler.respondToInteraction(s, i, h.responseHandler.formatError(err, l), true)
		return
	}

	// ファイル送信に時間がかかるため先に応答しておく
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("インタラクションへの応答に失敗: %v", err)
	}

	if err := h.responseHandler.sendCompare(s, i.ChannelID, view); err != nil {
		log.Printf("比較画像の送信に失敗: %v", err)
	}
}
