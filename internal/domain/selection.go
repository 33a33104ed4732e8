package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCustomTextLength は、カスタム説明の最大文字数（ルーン数）です
const MaxCustomTextLength = 1000

// ChoiceKind は、現在有効な選択の種類です
type ChoiceKind int

const (
	ChoiceNone ChoiceKind = iota
	ChoicePreset
	ChoiceCustom
)

// String はChoiceKindの名前を返します
func (k ChoiceKind) String() string {
	switch k {
	case ChoicePreset:
		return "preset"
	case ChoiceCustom:
		return "custom"
	default:
		return "none"
	}
}

// Choice は、プリセットかカスタム説明のどちらか一方だけを保持します
type Choice struct {
	kind     ChoiceKind
	presetID string
	text     string
}

// NoChoice は何も選択されていない状態を返します
func NoChoice() Choice { return Choice{kind: ChoiceNone} }

// PresetChoice はプリセット選択を返します
func PresetChoice(id string) Choice { return Choice{kind: ChoicePreset, presetID: id} }

// CustomChoice はカスタム説明の選択を返します
func CustomChoice(text string) Choice { return Choice{kind: ChoiceCustom, text: text} }

// Kind は選択の種類を返します
func (c Choice) Kind() ChoiceKind { return c.kind }

// PresetID はプリセットIDを返します。プリセット選択でない場合は空文字です
func (c Choice) PresetID() string { return c.presetID }

// Text はカスタム説明を返します。カスタム選択でない場合は空文字です
func (c Choice) Text() string { return c.text }

// Selection は、カテゴリ・性別フィルター・有効な選択を管理します
type Selection struct {
	category Category
	gender   Gender
	choice   Choice
}

// NewSelection は、カテゴリの既定プリセットを選択した状態で作成します
func NewSelection(category Category) Selection {
	s := Selection{category: category, gender: GenderFemale}
	s.ResetToDefault()
	return s
}

// Category は現在のカテゴリを返します
func (s Selection) Category() Category { return s.category }

// Gender はファッションプリセットの表示フィルターを返します
func (s Selection) Gender() Gender { return s.gender }

// Choice は現在の選択を返します
func (s Selection) Choice() Choice { return s.choice }

// ChosenPresetID は選択中のプリセットIDを返します
func (s Selection) ChosenPresetID() string { return s.choice.PresetID() }

// CustomText は入力中のカスタム説明を返します
func (s Selection) CustomText() string { return s.choice.Text() }

// IsCustom はカスタム説明が有効かどうかを返します
func (s Selection) IsCustom() bool { return s.choice.Kind() == ChoiceCustom }

// ActivePreset は選択中のプリセットを返します
func (s *Selection) ActivePreset() (Preset, bool) {
	if s.choice.Kind() != ChoicePreset {
		return Preset{}, false
	}
	return FindPreset(s.choice.PresetID())
}

// VisiblePresets は、現在のカテゴリと性別フィルターで表示されるプリセットを返します
func (s *Selection) VisiblePresets() []Preset {
	return PresetsFor(s.category, s.gender)
}

// SetCategory は、カテゴリを切り替えて最初のプリセットを自動選択します
// カスタム説明は破棄されます
func (s *Selection) SetCategory(category Category) error {
	if _, err := ParseCategory(string(category)); err != nil {
		return err
	}
	s.category = category
	s.ResetToDefault()
	return nil
}

// SetGender は、ファッションプリセットの表示フィルターを切り替えます
// 現在の選択は変更しません
func (s *Selection) SetGender(gender Gender) error {
	if _, err := ParseGender(string(gender)); err != nil {
		return err
	}
	s.gender = gender
	return nil
}

// SelectPreset は、プリセットを選択しカスタム説明を破棄します
func (s *Selection) SelectPreset(preset Preset) error {
	if _, ok := FindPreset(preset.ID); !ok {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, preset.ID)
	}
	if preset.Category != s.category {
		return fmt.Errorf("%w: %s (%s)", ErrPresetCategoryMismatch, preset.ID, s.category)
	}
	s.choice = PresetChoice(preset.ID)
	return nil
}

// SetCustomText は、カスタム説明を設定します
// 空でない場合はプリセット選択を破棄し、空の場合はカスタム説明だけを取り消します
func (s *Selection) SetCustomText(text string) {
	text = TruncateCustomText(strings.TrimSpace(text))
	if text != "" {
		s.choice = CustomChoice(text)
		return
	}
	if s.choice.Kind() == ChoiceCustom {
		s.choice = NoChoice()
	}
}

// EffectivePrompt は、外部APIに送る背景・シーンの説明を返します
// プリセットもカスタム説明もない場合は空文字です
func (s *Selection) EffectivePrompt() string {
	switch s.choice.Kind() {
	case ChoicePreset:
		if p, ok := FindPreset(s.choice.PresetID()); ok {
			return p.PromptFragment
		}
		return ""
	case ChoiceCustom:
		return s.choice.Text()
	default:
		return ""
	}
}

// ResetToDefault は、カテゴリを維持したまま既定プリセットに戻します
func (s *Selection) ResetToDefault() {
	if p, ok := DefaultPreset(s.category); ok {
		s.choice = PresetChoice(p.ID)
		return
	}
	s.choice = NoChoice()
}

// Mode は、カテゴリに対応する生成モードを返します
func (s *Selection) Mode() GenerationMode {
	if s.category == CategoryFashion {
		return ModeModelTryOn
	}
	return ModeProductBackground
}

// TruncateCustomText は、カスタム説明を最大文字数に制限します
func TruncateCustomText(text string) string {
	if utf8.RuneCountInString(text) <= MaxCustomTextLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:MaxCustomTextLength]))
}
