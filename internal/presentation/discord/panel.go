package discord

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/bwmarrin/discordgo"
)

// コンポーネントのカスタムID
const (
	customIDPrefix      = "studio"
	customIDCategory    = "category"
	customIDGender      = "gender"
	customIDPreset      = "preset"
	customIDCustom      = "custom"
	customIDCustomModal = "custom_modal"
	customIDCustomInput = "custom_text"
	customIDGenerate    = "generate"
	customIDReset       = "reset"
	customIDCompare     = "compare"
)

// selectMenuOptionLimit は、Discordのセレクトメニューに表示できる選択肢の上限です
const selectMenuOptionLimit = 25

// customAction は、カスタムIDを分解した操作です
type customAction struct {
	Name  string
	Value string
}

// buildCustomID は、操作名と値からカスタムIDを作成します
func buildCustomID(name string, value ...string) string {
	parts := append([]string{customIDPrefix, name}, value...)
	return strings.Join(parts, ":")
}

// parseCustomID は、カスタムIDを操作に分解します
// このBotのカスタムIDでない場合はfalseを返します
func parseCustomID(id string) (customAction, bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) < 2 || parts[0] != customIDPrefix || parts[1] == "" {
		return customAction{}, false
	}
	action := customAction{Name: parts[1]}
	if len(parts) == 3 {
		action.Value = parts[2]
	}
	return action, true
}

// panelContent は、セッションの状態を表示する本文を作成します
func panelContent(snap domain.SessionSnapshot, l *i18n.Localizer) string {
	var b strings.Builder

	b.WriteString("🖼️ **Product AI Studio**\n")
	fmt.Fprintf(&b, "**%s:** %s", l.Label(i18n.KeyCategoryLabel), snap.Category.DisplayName())
	if snap.Category == domain.CategoryFashion {
		fmt.Fprintf(&b, " / %s", snap.Gender.DisplayName())
	}
	b.WriteString("\n")

	switch snap.ChoiceKind {
	case domain.ChoicePreset:
		if p, ok := domain.FindPreset(snap.PresetID); ok {
			fmt.Fprintf(&b, "**%s:** %s %s\n", l.Label(i18n.KeyPresetLabel), p.Icon, p.DisplayName)
		}
	case domain.ChoiceCustom:
		fmt.Fprintf(&b, "**%s:** ✏️ %s\n> %s\n", l.Label(i18n.KeyPresetLabel), l.Message(i18n.KeyManualBadge), truncateRunes(snap.CustomText, 200))
	default:
		fmt.Fprintf(&b, "**%s:** -\n", l.Label(i18n.KeyPresetLabel))
	}

	if snap.HasImage {
		fmt.Fprintf(&b, "📎 %s (%s)\n", snap.ImageFilename, l.Size(snap.ImageSize))
	}

	switch snap.Phase {
	case domain.PhaseIdle:
		fmt.Fprintf(&b, "\n%s", l.Message(i18n.KeyNoImage))
	case domain.PhaseGenerating:
		fmt.Fprintf(&b, "\n🎨 %s", l.Message(i18n.KeyGenerating))
	case domain.PhaseSuccess:
		fmt.Fprintf(&b, "\n✅ %s", l.Message(i18n.KeyGenerationDone))
	case domain.PhaseError:
		fmt.Fprintf(&b, "\n❌ %s", l.Outcome(domain.FailureOutcome(snap.Failure, snap.ErrorMessage)))
	}

	if snap.Notice == domain.NoticeEmptyPrompt {
		fmt.Fprintf(&b, "\n⚠️ %s", l.Message(i18n.KeyEmptyPrompt))
	}

	return b.String()
}

// panelComponents は、セッションの状態に応じたボタンとメニューを作成します
func panelComponents(snap domain.SessionSnapshot) []discordgo.MessageComponent {
	locked := snap.Phase == domain.PhaseGenerating || snap.Phase == domain.PhaseSuccess
	canEditChoice := snap.Phase == domain.PhaseConfiguring || snap.Phase == domain.PhaseError

	// カテゴリと性別
	filterRow := discordgo.ActionsRow{}
	for _, c := range domain.AllCategories() {
		filterRow.Components = append(filterRow.Components, discordgo.Button{
			Label:    c.DisplayName(),
			Style:    activeStyle(snap.Category == c),
			Disabled: locked,
			CustomID: buildCustomID(customIDCategory, string(c)),
		})
	}
	if snap.Category == domain.CategoryFashion {
		for _, g := range domain.AllGenders() {
			filterRow.Components = append(filterRow.Components, discordgo.Button{
				Label:    g.DisplayName(),
				Style:    activeStyle(snap.Gender == g),
				Disabled: locked,
				CustomID: buildCustomID(customIDGender, string(g)),
			})
		}
	}

	components := []discordgo.MessageComponent{filterRow}

	presetOptions := presetMenuOptions(snap.VisiblePresets, snap.PresetID)
	if len(presetOptions) > 0 {
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    buildCustomID(customIDPreset),
					Placeholder: "背景を選択",
					Options:     presetOptions,
					Disabled:    !canEditChoice,
				},
			},
		})
	}

	actionRow := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "説明を入力",
				Style:    discordgo.SecondaryButton,
				Emoji:    discordgo.ComponentEmoji{Name: "✏️"},
				Disabled: !canEditChoice,
				CustomID: buildCustomID(customIDCustom),
			},
			discordgo.Button{
				Label:    "生成",
				Style:    discordgo.SuccessButton,
				Emoji:    discordgo.ComponentEmoji{Name: "🎨"},
				Disabled: !canEditChoice,
				CustomID: buildCustomID(customIDGenerate),
			},
		},
	}
	if snap.HasResult {
		actionRow.Components = append(actionRow.Components, discordgo.Button{
			Label:    domain.ViewCompare.DisplayName(),
			Style:    discordgo.PrimaryButton,
			Emoji:    discordgo.ComponentEmoji{Name: "🔍"},
			CustomID: buildCustomID(customIDCompare),
		})
	}
	actionRow.Components = append(actionRow.Components, discordgo.Button{
		Label:    "リセット",
		Style:    discordgo.DangerButton,
		Emoji:    discordgo.ComponentEmoji{Name: "🔄"},
		Disabled: snap.Phase == domain.PhaseIdle,
		CustomID: buildCustomID(customIDReset),
	})

	return append(components, actionRow)
}

// presetMenuOptions は、プリセットをセレクトメニューの選択肢に変換します
func presetMenuOptions(presets []domain.Preset, selectedID string) []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, len(presets))
	for _, p := range presets {
		if len(options) == selectMenuOptionLimit {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       p.DisplayName,
			Value:       p.ID,
			Description: truncateRunes(p.PromptFragment, 100),
			Emoji:       discordgo.ComponentEmoji{Name: p.Icon},
			Default:     p.ID == selectedID,
		})
	}
	return options
}

// customTextModal は、カスタム説明の入力モーダルを作成します
func customTextModal(current string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: buildCustomID(customIDCustomModal),
		Title:    "背景・シーンの説明",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    customIDCustomInput,
						Label:       "説明（空にするとプリセットに戻せます）",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "例: 夕暮れの海辺、木製のデッキの上",
						Value:       current,
						Required:    false,
						MaxLength:   domain.MaxCustomTextLength,
					},
				},
			},
		},
	}
}

// modalText は、モーダルの送信内容から指定IDの入力値を取り出します
func modalText(components []discordgo.MessageComponent, customID string) string {
	for _, c := range components {
		var row []discordgo.MessageComponent
		switch r := c.(type) {
		case *discordgo.ActionsRow:
			row = r.Components
		case discordgo.ActionsRow:
			row = r.Components
		default:
			continue
		}
		for _, inner := range row {
			switch input := inner.(type) {
			case *discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			case discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			}
		}
	}
	return ""
}

func activeStyle(active bool) discordgo.ButtonStyle {
	if active {
		return discordgo.PrimaryButton
	}
	return discordgo.SecondaryButton
}

// truncateRunes は、文字列を指定した文字数に切り詰めます
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
