package domain

import (
	"errors"
	"fmt"
)

// ドメイン固有のエラー型を定義
var (
	// ErrUnsupportedType は、許可されていないMIMEタイプのファイルがアップロードされた場合のエラーです
	ErrUnsupportedType = errors.New("サポートされていないファイル形式です")

	// ErrTooLarge は、ファイルサイズが上限を超えている場合のエラーです
	ErrTooLarge = errors.New("ファイルサイズが大きすぎます")

	// ErrEmptyPrompt は、プリセットもカスタム説明も選択されていない場合のエラーです
	ErrEmptyPrompt = errors.New("背景を選択するか説明を入力してください")

	// ErrNoImageProduced は、外部APIの応答に画像が含まれていなかった場合のエラーです
	ErrNoImageProduced = errors.New("no image produced")

	// ErrGenerationInFlight は、生成中に別の操作が要求された場合のエラーです
	ErrGenerationInFlight = errors.New("画像生成が進行中です")

	// ErrInvalidTransition は、現在のフェーズで許可されていない操作の場合のエラーです
	ErrInvalidTransition = errors.New("現在の状態ではこの操作を実行できません")

	// ErrNoImage は、画像がアップロードされていない場合のエラーです
	ErrNoImage = errors.New("画像がアップロードされていません")

	// ErrNoResult は、生成結果が存在しない場合のエラーです
	ErrNoResult = errors.New("生成結果がありません")

	// ErrSessionNotFound は、セッションが存在しない場合のエラーです
	ErrSessionNotFound = errors.New("セッションが見つかりません")

	// ErrPreviewNotFound は、プレビューが存在しないか解放済みの場合のエラーです
	ErrPreviewNotFound = errors.New("プレビューが見つかりません")

	// ErrPresetNotFound は、指定されたプリセットが存在しない場合のエラーです
	ErrPresetNotFound = errors.New("プリセットが見つかりません")

	// ErrInvalidCategory は、不明なカテゴリが指定された場合のエラーです
	ErrInvalidCategory = errors.New("無効なカテゴリです")

	// ErrInvalidGender は、不明な性別が指定された場合のエラーです
	ErrInvalidGender = errors.New("無効な性別です")

	// ErrPresetCategoryMismatch は、現在のカテゴリに属さないプリセットが選択された場合のエラーです
	ErrPresetCategoryMismatch = errors.New("プリセットが現在のカテゴリに属していません")
)

// ValidationErrorKind は、アップロード検証エラーの種類です
type ValidationErrorKind int

const (
	// UnsupportedType は、MIMEタイプが許可リストにないことを示します
	UnsupportedType ValidationErrorKind = iota
	// TooLarge は、ファイルサイズが上限を超えていることを示します
	TooLarge
)

// String はValidationErrorKindの名前を返します
func (k ValidationErrorKind) String() string {
	switch k {
	case UnsupportedType:
		return "unsupported_type"
	case TooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// ValidationError は、アップロード検証の失敗を表します
type ValidationError struct {
	Kind     ValidationErrorKind
	MIMEType string
	Size     int64
	MaxBytes int64
}

// Error はエラーメッセージを返します
func (e *ValidationError) Error() string {
	switch e.Kind {
	case UnsupportedType:
		return fmt.Sprintf("%v: %q", ErrUnsupportedType, e.MIMEType)
	case TooLarge:
		return fmt.Sprintf("%v: %dバイト (上限 %dバイト)", ErrTooLarge, e.Size, e.MaxBytes)
	default:
		return "アップロードの検証に失敗しました"
	}
}

// Is は、errors.Is で種類ごとのセンチネルエラーと一致させます
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case UnsupportedType:
		return target == ErrUnsupportedType
	case TooLarge:
		return target == ErrTooLarge
	}
	return false
}
