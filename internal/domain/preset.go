package domain

import (
	"fmt"
	"strings"
)

// Category は、プリセットと生成モードの分類です
type Category string

const (
	// CategoryProduct は一般商品の背景差し替えです
	CategoryProduct Category = "product"
	// CategoryFashion は衣類をモデルに着せるバーチャル試着です
	CategoryFashion Category = "fashion"
)

// Gender は、ファッションプリセットのモデルの性別です
type Gender string

const (
	GenderNone   Gender = ""
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParseCategory は、文字列をCategoryに変換します
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryProduct:
		return CategoryProduct, nil
	case CategoryFashion:
		return CategoryFashion, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseGender は、文字列をGenderに変換します
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderFemale:
		return GenderFemale, nil
	case GenderMale:
		return GenderMale, nil
	}
	return GenderNone, fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

// Preset は、事前に用意された背景・スタイリングの選択肢です
type Preset struct {
	ID             string
	DisplayName    string
	PromptFragment string
	Icon           string
	AccentColor    string
	PreviewFilter  string // プレビュー用のCSSフィルター
	Category       Category
	Gender         Gender // Category が fashion の場合のみ設定
}

// presetCatalog は起動時に固定されるプリセット一覧です。順序はカテゴリ切り替え時のデフォルト選択に使われます
var presetCatalog = []Preset{
	// 商品背景
	{
		ID:             "studio-white",
		DisplayName:    "Pure White Studio",
		PromptFragment: "on a clean, pure white infinity background, professional studio lighting, soft shadows, 8k resolution, commercial product photography",
		Icon:           "⬜",
		AccentColor:    "#e2e8f0",
		PreviewFilter:  "brightness(1.05) contrast(1.05)",
		Category:       CategoryProduct,
	},
	{
		ID:             "wooden-table",
		DisplayName:    "Warm Wooden Table",
		PromptFragment: "placed on a rustic textured wooden table, warm sunlight coming from a window, shallow depth of field, cozy atmosphere, photorealistic",
		Icon:           "🪵",
		AccentColor:    "#78350f",
		PreviewFilter:  "sepia(0.2) contrast(1.1) brightness(0.95)",
		Category:       CategoryProduct,
	},
	{
		ID:             "marble-luxury",
		DisplayName:    "Luxury Marble",
		PromptFragment: "on a luxurious white marble countertop with grey veins, soft elegant lighting, high-end fashion vibe, sharp focus",
		Icon:           "🏛️",
		AccentColor:    "#94a3b8",
		PreviewFilter:  "grayscale(0.1) brightness(1.05) contrast(0.95)",
		Category:       CategoryProduct,
	},
	{
		ID:             "nature-outdoor",
		DisplayName:    "Outdoor Nature",
		PromptFragment: "placed on a rock in a blurred forest background, natural sunlight, bokeh effect, fresh and organic feel",
		Icon:           "🌿",
		AccentColor:    "#15803d",
		PreviewFilter:  "saturate(1.2) brightness(1.05)",
		Category:       CategoryProduct,
	},
	{
		ID:             "beach-sunset",
		DisplayName:    "Beach at Sunset",
		PromptFragment: "on clean sand at the beach during golden hour sunset, soft sea waves in the background, warm orange glow",
		Icon:           "🌅",
		AccentColor:    "#f59e0b",
		PreviewFilter:  "sepia(0.3) saturate(1.2) brightness(1.1)",
		Category:       CategoryProduct,
	},
	{
		ID:             "urban-street",
		DisplayName:    "Urban Street",
		PromptFragment: "on a concrete surface in a modern city street, blurred urban lights in background, streetwear style, edgy lighting",
		Icon:           "🏙️",
		AccentColor:    "#374151",
		PreviewFilter:  "contrast(1.2) saturate(0.9) brightness(0.9)",
		Category:       CategoryProduct,
	},
	{
		ID:             "kitchen-modern",
		DisplayName:    "Modern Kitchen",
		PromptFragment: "placed on a modern kitchen island counter, blurred kitchen appliances in background, bright morning daylight, interior design photography",
		Icon:           "🍳",
		AccentColor:    "#cbd5e1",
		PreviewFilter:  "brightness(1.1) contrast(0.95)",
		Category:       CategoryProduct,
	},
	{
		ID:             "spa-water",
		DisplayName:    "Spa & Water",
		PromptFragment: "placed on a wet dark stone surface near calm water ripples and green bamboo leaves, spa atmosphere, zen, soft lighting, reflection",
		Icon:           "💧",
		AccentColor:    "#06b6d4",
		PreviewFilter:  "brightness(1.1) hue-rotate(180deg) opacity(0.9) saturate(0.8)",
		Category:       CategoryProduct,
	},
	{
		ID:             "pastel-podium",
		DisplayName:    "Pastel Podium",
		PromptFragment: "placed on a minimal pastel pink geometric podium, soft studio lighting, abstract shapes in background, trendy art direction",
		Icon:           "🎨",
		AccentColor:    "#f9a8d4",
		PreviewFilter:  "brightness(1.1) saturate(0.8) sepia(0.1)",
		Category:       CategoryProduct,
	},
	{
		ID:             "coffee-shop",
		DisplayName:    "Cozy Coffee Shop",
		PromptFragment: "on a wooden table in a cozy coffee shop, blurred cafe background with warm lights, steam, lifestyle photography",
		Icon:           "☕",
		AccentColor:    "#92400e",
		PreviewFilter:  "sepia(0.4) contrast(1.1) brightness(0.9)",
		Category:       CategoryProduct,
	},
	{
		ID:             "neon-cyberpunk",
		DisplayName:    "Cyberpunk Neon",
		PromptFragment: "on a reflective surface with neon blue and purple lights, cyberpunk city background, futuristic tech vibe, cinematic lighting",
		Icon:           "🎮",
		AccentColor:    "#7c3aed",
		PreviewFilter:  "contrast(1.3) hue-rotate(240deg) saturate(1.5)",
		Category:       CategoryProduct,
	},

	// ファッション（女性）
	{
		ID:             "model-studio",
		DisplayName:    "Female Model - Studio",
		PromptFragment: "worn by a professional female fashion model standing in a clean studio with soft lighting, neutral background, high fashion photography, realistic skin texture",
		Icon:           "💃",
		AccentColor:    "#e2e8f0",
		PreviewFilter:  "brightness(1.02) contrast(1.02)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-street",
		DisplayName:    "Female Model - Street",
		PromptFragment: "worn by a stylish woman walking down a blurred city street, daylight, urban fashion, candid shot, photorealistic",
		Icon:           "🕶️",
		AccentColor:    "#4b5563",
		PreviewFilter:  "contrast(1.1) saturate(0.9)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-nature",
		DisplayName:    "Female Model - Nature",
		PromptFragment: "worn by a female model standing in a sunlit garden, soft bokeh nature background, fresh atmosphere, lifestyle photography",
		Icon:           "🌳",
		AccentColor:    "#166534",
		PreviewFilter:  "saturate(1.1) brightness(1.05)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-casual",
		DisplayName:    "Female Model - Casual",
		PromptFragment: "worn by a happy woman in a modern bright living room, casual lifestyle vibe, warm lighting, authentic look",
		Icon:           "🏠",
		AccentColor:    "#d97706",
		PreviewFilter:  "sepia(0.1) brightness(1.05)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-fitness",
		DisplayName:    "Female Model - Fitness",
		PromptFragment: "worn by a fit female model in a modern gym environment, active pose, bright artificial lighting, sports photography, dynamic angle",
		Icon:           "🏋️‍♀️",
		AccentColor:    "#3b82f6",
		PreviewFilter:  "contrast(1.2) brightness(1.05)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-business",
		DisplayName:    "Female Model - Business",
		PromptFragment: "worn by a professional woman in a modern office with glass windows, city skyline view, corporate look, confident pose",
		Icon:           "💼",
		AccentColor:    "#1e293b",
		PreviewFilter:  "contrast(1.05) saturate(0.8)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-winter",
		DisplayName:    "Female Model - Winter",
		PromptFragment: "worn by a female model in a snowy winter landscape, soft falling snowflakes, cold cinematic lighting, cozy atmosphere",
		Icon:           "❄️",
		AccentColor:    "#bae6fd",
		PreviewFilter:  "brightness(1.1) contrast(0.9) hue-rotate(190deg) opacity(0.9)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-desert",
		DisplayName:    "Female Model - Desert",
		PromptFragment: "worn by a female model in a golden desert dune at sunset, warm cinematic lighting, bohemian vibe, high fashion magazine style",
		Icon:           "🏜️",
		AccentColor:    "#c2410c",
		PreviewFilter:  "sepia(0.6) saturate(1.4) contrast(1.1)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},
	{
		ID:             "model-hijab-chic",
		DisplayName:    "Modest Fashion",
		PromptFragment: "worn by a stylish modern modest fashion model with hijab, elegant urban architectural background, chic style, soft natural lighting",
		Icon:           "🧕",
		AccentColor:    "#be185d",
		PreviewFilter:  "contrast(1.05) brightness(1.05)",
		Category:       CategoryFashion,
		Gender:         GenderFemale,
	},

	// ファッション（男性）
	{
		ID:             "male-model-studio",
		DisplayName:    "Male Model - Studio",
		PromptFragment: "worn by a handsome male fashion model in a clean minimal studio, professional lighting, sharp focus, masculine pose, high-end catalog look",
		Icon:           "🤵",
		AccentColor:    "#1e293b",
		PreviewFilter:  "contrast(1.1) brightness(0.95) grayscale(0.2)",
		Category:       CategoryFashion,
		Gender:         GenderMale,
	},
	{
		ID:             "male-model-street",
		DisplayName:    "Male Model - Casual",
		PromptFragment: "worn by a stylish man standing in a blurred city street, casual urban fashion, daytime, photorealistic, depth of field",
		Icon:           "🧢",
		AccentColor:    "#4b5563",
		PreviewFilter:  "contrast(1.15) saturate(0.9)",
		Category:       CategoryFashion,
		Gender:         GenderMale,
	},
	{
		ID:             "male-model-suit",
		DisplayName:    "Male Model - Formal",
		PromptFragment: "worn by a professional man in a luxury office environment, business style, wearing a suit, confident pose, cinematic lighting",
		Icon:           "👔",
		AccentColor:    "#0f172a",
		PreviewFilter:  "sepia(0.1) contrast(1.1)",
		Category:       CategoryFashion,
		Gender:         GenderMale,
	},
	{
		ID:             "male-model-gym",
		DisplayName:    "Male Model - Sport",
		PromptFragment: "worn by a fit male model in a modern gym, athletic build, dramatic sports lighting, energetic atmosphere",
		Icon:           "🏋️‍♂️",
		AccentColor:    "#2563eb",
		PreviewFilter:  "contrast(1.2) brightness(1.05)",
		Category:       CategoryFashion,
		Gender:         GenderMale,
	},
	{
		ID:             "male-model-beach",
		DisplayName:    "Male Model - Summer",
		PromptFragment: "worn by a man on a sunny beach, summer vibes, blue sky and ocean background, relaxed lifestyle photography",
		Icon:           "🏖️",
		AccentColor:    "#0ea5e9",
		PreviewFilter:  "saturate(1.2) brightness(1.1)",
		Category:       CategoryFashion,
		Gender:         GenderMale,
	},
}

// AllPresets はすべてのプリセットをカタログ順で返します
func AllPresets() []Preset {
	out := make([]Preset, len(presetCatalog))
	copy(out, presetCatalog)
	return out
}

// FindPreset は、IDでプリセットを検索します
func FindPreset(id string) (Preset, bool) {
	for _, p := range presetCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetsByCategory は、指定カテゴリのプリセットをカタログ順で返します
func PresetsByCategory(category Category) []Preset {
	return PresetsFor(category, GenderNone)
}

// PresetsFor は、カテゴリと性別で絞り込んだプリセットを返します
// 性別の絞り込みはファッションカテゴリにのみ適用されます
func PresetsFor(category Category, gender Gender) []Preset {
	var out []Preset
	for _, p := range presetCatalog {
		if p.Category != category {
			continue
		}
		if category == CategoryFashion && gender != GenderNone && p.Gender != gender {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DefaultPreset は、カテゴリ内でカタログ順が最初のプリセットを返します
func DefaultPreset(category Category) (Preset, bool) {
	for _, p := range presetCatalog {
		if p.Category == category {
			return p, true
		}
	}
	return Preset{}, false
}

// ValidateCatalog は、カタログの整合性（IDの一意性、性別とカテゴリの対応）を検証します
func ValidateCatalog() error {
	seen := make(map[string]struct{}, len(presetCatalog))
	for _, p := range presetCatalog {
		if p.ID == "" {
			return fmt.Errorf("IDが空のプリセットがあります")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("プリセットIDが重複しています: %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		switch p.Category {
		case CategoryFashion:
			if p.Gender == GenderNone {
				return fmt.Errorf("ファッションプリセット %s に性別が設定されていません", p.ID)
			}
		case CategoryProduct:
			if p.Gender != GenderNone {
				return fmt.Errorf("商品プリセット %s に性別が設定されています", p.ID)
			}
		default:
			return fmt.Errorf("プリセット %s のカテゴリが不明です: %s", p.ID, p.Category)
		}

		if p.PromptFragment == "" {
			return fmt.Errorf("プリセット %s のプロンプトが空です", p.ID)
		}
	}
	return nil
}
