package domain

// optionData は、Discordの選択肢に表示する値と表示名を保持します
type optionData struct {
	Value       string
	DisplayName string
}

// categoryOptions は各Categoryのデータを定義します
var categoryOptions = []optionData{
	{string(CategoryProduct), "商品背景"},
	{string(CategoryFashion), "モデル着用"},
}

// genderOptions は各Genderのデータを定義します
var genderOptions = []optionData{
	{string(GenderFemale), "女性モデル"},
	{string(GenderMale), "男性モデル"},
}

// viewModeOptions は各ViewModeのデータを定義します
var viewModeOptions = []optionData{
	{string(ViewSingle), "生成画像のみ"},
	{string(ViewCompare), "比較表示"},
}

func lookupDisplayName(options []optionData, value, fallback string) string {
	for _, o := range options {
		if o.Value == value {
			return o.DisplayName
		}
	}
	return fallback
}

// DisplayName はCategoryの日本語名を返します
func (c Category) DisplayName() string {
	return lookupDisplayName(categoryOptions, string(c), "商品背景")
}

// DisplayName はGenderの日本語名を返します
func (g Gender) DisplayName() string {
	return lookupDisplayName(genderOptions, string(g), "")
}

// DisplayName はViewModeの日本語名を返します
func (v ViewMode) DisplayName() string {
	return lookupDisplayName(viewModeOptions, string(v), "生成画像のみ")
}

// AllCategories はすべてのCategoryを返します
func AllCategories() []Category {
	return []Category{
		CategoryProduct,
		CategoryFashion,
	}
}

// AllGenders はすべてのGenderを返します
func AllGenders() []Gender {
	return []Gender{
		GenderFemale,
		GenderMale,
	}
}
