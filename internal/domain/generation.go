package domain

import (
	"encoding/base64"
	"time"
)

// GenerationMode は、外部APIへの指示の種類です
type GenerationMode int

const (
	// ModeProductBackground は商品の背景だけを差し替えます
	ModeProductBackground GenerationMode = iota
	// ModeModelTryOn は衣類をモデルに着せた画像を生成します
	ModeModelTryOn
)

// String はGenerationModeの名前を返します
func (m GenerationMode) String() string {
	switch m {
	case ModeModelTryOn:
		return "model_try_on"
	default:
		return "product_background"
	}
}

// GenerationRequest は、1回の生成試行ごとに選択とアップロード画像から組み立てられます
type GenerationRequest struct {
	Image             *UploadedImage
	EffectivePrompt   string
	CustomInstruction string
	Mode              GenerationMode
}

// NewGenerationRequest は、アップロード画像と選択から生成リクエストを組み立てます
// 有効プロンプトが空の場合は ErrEmptyPrompt、画像がない場合は ErrNoImage を返します
func NewGenerationRequest(image *UploadedImage, selection Selection, customInstruction string) (GenerationRequest, error) {
	prompt := selection.EffectivePrompt()
	if prompt == "" {
		return GenerationRequest{}, ErrEmptyPrompt
	}
	if image == nil || len(image.Data) == 0 {
		return GenerationRequest{}, ErrNoImage
	}
	return GenerationRequest{
		Image:             image,
		EffectivePrompt:   prompt,
		CustomInstruction: customInstruction,
		Mode:              selection.Mode(),
	}, nil
}

// EncodedImage は、外部APIから返された画像データです
type EncodedImage struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// DefaultResultMIMEType は、MIMEタイプが返されなかった場合に使うタイプです
const DefaultResultMIMEType = "image/png"

// ContentType は、画像のMIMEタイプを返します
func (e *EncodedImage) ContentType() string {
	if e == nil || e.MIMEType == "" {
		return DefaultResultMIMEType
	}
	return e.MIMEType
}

// DataURL は、画像をdata URLとして返します
func (e *EncodedImage) DataURL() string {
	if e == nil {
		return ""
	}
	return "data:" + e.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// OutcomeStatus は、生成試行の状態です
type OutcomeStatus int

const (
	StatusPending OutcomeStatus = iota
	StatusSuccess
	StatusFailure
)

// String はOutcomeStatusの名前を返します
func (s OutcomeStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "pending"
	}
}

// FailureKind は、生成失敗の分類です
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureEmptyPrompt
	FailureNoImageProduced
	FailureProviderError
)

// String はFailureKindの名前を返します
func (k FailureKind) String() string {
	switch k {
	case FailureEmptyPrompt:
		return "empty_prompt"
	case FailureNoImageProduced:
		return "no_image_produced"
	case FailureProviderError:
		return "provider_error"
	default:
		return ""
	}
}

// GenericFailureMessage は、利用者に表示する汎用のエラーメッセージです
const GenericFailureMessage = "画像の生成中にエラーが発生しました。もう一度お試しください。"

// GenerationOutcome は、1回の生成試行の結果です。次の試行で置き換えられます
type GenerationOutcome struct {
	Status       OutcomeStatus
	ResultImage  *EncodedImage
	ErrorMessage string
	Failure      FailureKind
	GeneratedAt  time.Time
}

// PendingOutcome は、生成中の結果を返します
func PendingOutcome() GenerationOutcome {
	return GenerationOutcome{Status: StatusPending}
}

// SuccessOutcome は、成功した結果を返します
func SuccessOutcome(img *EncodedImage) GenerationOutcome {
	return GenerationOutcome{
		Status:      StatusSuccess,
		ResultImage: img,
		GeneratedAt: time.Now(),
	}
}

// FailureOutcome は、失敗した結果を返します
func FailureOutcome(kind FailureKind, message string) GenerationOutcome {
	return GenerationOutcome{
		Status:       StatusFailure,
		Failure:      kind,
		ErrorMessage: message,
	}
}

// IsSuccess は成功したかどうかを返します
func (o GenerationOutcome) IsSuccess() bool {
	return o.Status == StatusSuccess && o.ResultImage != nil
}
