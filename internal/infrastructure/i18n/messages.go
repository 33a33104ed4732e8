package i18n

import (
	"golang.org/x/text/language"
)

// Key は、利用者向けメッセージの識別子です
type Key string

const (
	KeyUnsupportedType   Key = "upload.unsupported_type"
	KeyTooLarge          Key = "upload.too_large"
	KeyNoImage           Key = "session.no_image"
	KeyEmptyPrompt       Key = "generation.empty_prompt"
	KeyGenerationFailed  Key = "generation.failed"
	KeyGenerating        Key = "generation.in_progress"
	KeyGenerationDone    Key = "generation.done"
	KeyInFlight          Key = "session.in_flight"
	KeyInvalidTransition Key = "session.invalid_transition"
	KeyNoResult          Key = "result.none"
	KeySessionNotFound   Key = "session.not_found"
	KeyPresetNotFound    Key = "preset.not_found"
	KeyInvalidCategory   Key = "preset.invalid_category"
	KeyInvalidGender     Key = "preset.invalid_gender"
	KeyPresetMismatch    Key = "preset.category_mismatch"
	KeyInvalidRequest    Key = "request.invalid"
	KeyInternal          Key = "internal"
	KeyResetDone         Key = "session.reset"
	KeyUploadAccepted    Key = "upload.accepted"
	KeyCustomApplied     Key = "selection.custom"
	KeyManualBadge       Key = "selection.manual_badge"
	KeyCategoryLabel     Key = "label.category"
	KeyGenderLabel       Key = "label.gender"
	KeyPresetLabel       Key = "label.preset"
)

// messages は、言語ごとのメッセージ定義です
// %s などの書式は fmt と同じ規則で展開されます
var messages = map[language.Tag]map[Key]string{
	language.Japanese: {
		KeyUnsupportedType:   "サポートされていないファイル形式です（%s）。JPEG・PNG・WEBP・HEICの画像を選んでください。",
		KeyTooLarge:          "ファイルサイズが大きすぎます（%s）。%s以下の画像を選んでください。",
		KeyNoImage:           "先に画像をアップロードしてください。",
		KeyEmptyPrompt:       "背景を選択するか、説明を入力してください。",
		KeyGenerationFailed:  "画像の生成中にエラーが発生しました。もう一度お試しください。",
		KeyGenerating:        "画像を生成しています…",
		KeyGenerationDone:    "画像を生成しました。",
		KeyInFlight:          "画像の生成が進行中です。完了までお待ちください。",
		KeyInvalidTransition: "現在の状態ではこの操作を実行できません。",
		KeyNoResult:          "生成結果がありません。",
		KeySessionNotFound:   "セッションが見つかりません。最初からやり直してください。",
		KeyPresetNotFound:    "プリセットが見つかりません（%s）。",
		KeyInvalidCategory:   "無効なカテゴリです（%s）。",
		KeyInvalidGender:     "無効な性別です（%s）。",
		KeyPresetMismatch:    "このプリセットは現在のカテゴリでは使えません。",
		KeyInvalidRequest:    "リクエストが不正です。",
		KeyInternal:          "内部エラーが発生しました。",
		KeyResetDone:         "リセットしました。新しい画像をアップロードしてください。",
		KeyUploadAccepted:    "画像を受け付けました（%s）。背景を選んで生成してください。",
		KeyCustomApplied:     "カスタム説明を設定しました。",
		KeyManualBadge:       "手動カスタマイズ",
		KeyCategoryLabel:     "カテゴリ",
		KeyGenderLabel:       "モデル",
		KeyPresetLabel:       "背景",
	},
	language.English: {
		KeyUnsupportedType:   "Unsupported file type (%s). Please choose a JPEG, PNG, WEBP or HEIC image.",
		KeyTooLarge:          "The file is too large (%s). Please choose an image up to %s.",
		KeyNoImage:           "Please upload an image first.",
		KeyEmptyPrompt:       "Please choose a background or enter a description.",
		KeyGenerationFailed:  "Something went wrong while generating the image. Please try again.",
		KeyGenerating:        "Generating your image…",
		KeyGenerationDone:    "Your image is ready.",
		KeyInFlight:          "A generation is already running. Please wait for it to finish.",
		KeyInvalidTransition: "This action is not available right now.",
		KeyNoResult:          "There is no result yet.",
		KeySessionNotFound:   "Session not found. Please start over.",
		KeyPresetNotFound:    "Preset not found (%s).",
		KeyInvalidCategory:   "Invalid category (%s).",
		KeyInvalidGender:     "Invalid gender (%s).",
		KeyPresetMismatch:    "This preset does not belong to the current category.",
		KeyInvalidRequest:    "Invalid request.",
		KeyInternal:          "An internal error occurred.",
		KeyResetDone:         "Reset complete. Upload a new image to start again.",
		KeyUploadAccepted:    "Image received (%s). Choose a background and generate.",
		KeyCustomApplied:     "Custom description applied.",
		KeyManualBadge:       "manual customization",
		KeyCategoryLabel:     "category",
		KeyGenderLabel:       "model",
		KeyPresetLabel:       "background",
	},
	language.Arabic: {
		KeyUnsupportedType:   "نوع الملف غير مدعوم (%s). يرجى اختيار صورة JPEG أو PNG أو WEBP أو HEIC.",
		KeyTooLarge:          "حجم الملف كبير جداً (%s). يرجى اختيار صورة لا يتجاوز حجمها %s.",
		KeyNoImage:           "يرجى رفع صورة أولاً.",
		KeyEmptyPrompt:       "يرجى اختيار خلفية أو كتابة وصف.",
		KeyGenerationFailed:  "حدث خطأ أثناء إنشاء الصورة. يرجى المحاولة مرة أخرى.",
		KeyGenerating:        "جاري إنشاء الصورة…",
		KeyGenerationDone:    "تم إنشاء الصورة.",
		KeyInFlight:          "عملية الإنشاء جارية. يرجى الانتظار حتى تنتهي.",
		KeyInvalidTransition: "لا يمكن تنفيذ هذا الإجراء الآن.",
		KeyNoResult:          "لا توجد نتيجة بعد.",
		KeySessionNotFound:   "الجلسة غير موجودة. يرجى البدء من جديد.",
		KeyPresetNotFound:    "الخلفية غير موجودة (%s).",
		KeyInvalidCategory:   "فئة غير صالحة (%s).",
		KeyInvalidGender:     "جنس غير صالح (%s).",
		KeyPresetMismatch:    "هذه الخلفية لا تنتمي إلى الفئة الحالية.",
		KeyInvalidRequest:    "طلب غير صالح.",
		KeyInternal:          "حدث خطأ داخلي.",
		KeyResetDone:         "تمت إعادة التعيين. ارفع صورة جديدة للبدء.",
		KeyUploadAccepted:    "تم استلام الصورة (%s). اختر خلفية ثم ابدأ الإنشاء.",
		KeyCustomApplied:     "تم تطبيق الوصف المخصص.",
		KeyManualBadge:       "تخصيص يدوي",
		KeyCategoryLabel:     "الفئة",
		KeyGenderLabel:       "العارض",
		KeyPresetLabel:       "الخلفية",
	},
}
