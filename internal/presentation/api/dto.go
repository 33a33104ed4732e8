package api

import (
	"time"

	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/go-playground/validator"
)

// Request structs for validation
type CreateSessionIn struct {
	Category string `json:"category" validate:"omitempty,category"`
}

type SetCategoryIn struct {
	Category string `json:"category" validate:"required,category"`
}

type SetGenderIn struct {
	Gender string `json:"gender" validate:"required,gender"`
}

type SelectPresetIn struct {
	PresetID string `json:"preset_id" validate:"required,max=100"`
}

// カスタム説明は空文字で取り消せるため required にしない
type SetCustomTextIn struct {
	Text string `json:"text" validate:"max=4000"`
}

type GenerateIn struct {
	Instruction string `json:"instruction" validate:"omitempty,max=4000"`
}

type SetViewIn struct {
	Mode string `json:"mode" validate:"required,viewmode"`
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := domain.ParseCategory(fl.Field().String())
	return err == nil
}

func validateGender(fl validator.FieldLevel) bool {
	_, err := domain.ParseGender(fl.Field().String())
	return err == nil
}

func validateViewMode(fl validator.FieldLevel) bool {
	_, err := domain.ParseViewMode(fl.Field().String())
	return err == nil
}

// Response structs
type PresetResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Prompt        string `json:"prompt"`
	Icon          string `json:"icon"`
	AccentColor   string `json:"accent_color"`
	PreviewFilter string `json:"preview_filter"`
	Category      string `json:"category"`
	Gender        string `json:"gender,omitempty"`
}

type PresetListResponse struct {
	Presets []PresetResponse `json:"presets"`
}

type ImageResponse struct {
	MIMEType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	SizeLabel  string `json:"size_label"`
	Filename   string `json:"filename"`
	PreviewURL string `json:"preview_url"`
}

type SessionResponse struct {
	ID              string           `json:"id"`
	Phase           string           `json:"phase"`
	Category        string           `json:"category"`
	Gender          string           `json:"gender"`
	Choice          string           `json:"choice"`
	PresetID        string           `json:"preset_id,omitempty"`
	CustomText      string           `json:"custom_text,omitempty"`
	Manual          bool             `json:"manual"`
	EffectivePrompt string           `json:"effective_prompt"`
	Presets         []PresetResponse `json:"presets"`
	Image           *ImageResponse   `json:"image,omitempty"`
	Attempt         uint64           `json:"attempt"`
	View            string           `json:"view"`
	Notice          string           `json:"notice,omitempty"`
	NoticeMessage   string           `json:"notice_message,omitempty"`
	Status          string           `json:"status"`
	Failure         string           `json:"failure,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	HasResult       bool             `json:"has_result"`
	ResultURL       string           `json:"result_url,omitempty"`
	DownloadURL     string           `json:"download_url,omitempty"`
	UpdatedAt       string           `json:"updated_at"`
}

type GenerateResponse struct {
	Session SessionResponse `json:"session"`
	Applied bool            `json:"applied"`
	Message string          `json:"message"`
}

type ResultResponse struct {
	Mode      string `json:"mode"`
	Original  string `json:"original"`
	Generated string `json:"generated"`
	Filename  string `json:"filename"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Code    string           `json:"code"`
	Session *SessionResponse `json:"session,omitempty"`
}

func toPresetResponse(p domain.Preset) PresetResponse {
	return PresetResponse{
		ID:            p.ID,
		Name:          p.DisplayName,
		Prompt:        p.PromptFragment,
		Icon:          p.Icon,
		AccentColor:   p.AccentColor,
		PreviewFilter: p.PreviewFilter,
		Category:      string(p.Category),
		Gender:        string(p.Gender),
	}
}

func toPresetResponses(presets []domain.Preset) []PresetResponse {
	result := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		result = append(result, toPresetResponse(p))
	}
	return result
}

// toSessionResponse は、スナップショットをレスポンスに変換します
// 利用者向けのメッセージはLocalizerで翻訳し、外部APIの内容は含めません
func toSessionResponse(snap domain.SessionSnapshot, l *i18n.Localizer) SessionResponse {
	resp := SessionResponse{
		ID:              snap.ID,
		Phase:           snap.Phase.String(),
		Category:        string(snap.Category),
		Gender:          string(snap.Gender),
		Choice:          snap.ChoiceKind.String(),
		PresetID:        snap.PresetID,
		CustomText:      snap.CustomText,
		Manual:          snap.ChoiceKind == domain.ChoiceCustom,
		EffectivePrompt: snap.EffectivePrompt,
		Presets:         toPresetResponses(snap.VisiblePresets),
		Attempt:         uint64(snap.Attempt),
		View:            string(snap.View),
		Notice:          string(snap.Notice),
		Status:          snap.Status.String(),
		Failure:         snap.Failure.String(),
		HasResult:       snap.HasResult,
		UpdatedAt:       snap.UpdatedAt.Format(time.RFC3339),
	}

	if snap.Notice == domain.NoticeEmptyPrompt {
		resp.NoticeMessage = l.Message(i18n.KeyEmptyPrompt)
	}

	if snap.HasImage {
		resp.Image = &ImageResponse{
			MIMEType:   snap.ImageMIMEType,
			Size:       snap.ImageSize,
			SizeLabel:  l.Size(snap.ImageSize),
			Filename:   snap.ImageFilename,
			PreviewURL: "/api/previews/" + string(snap.PreviewHandle),
		}
	}

	if snap.Phase == domain.PhaseError {
		resp.ErrorMessage = l.Outcome(domain.FailureOutcome(snap.Failure, snap.ErrorMessage))
	}

	if snap.HasResult {
		resp.ResultURL = "/api/sessions/" + snap.ID + "/result"
		resp.DownloadURL = "/api/sessions/" + snap.ID + "/download"
	}

	return resp
}
