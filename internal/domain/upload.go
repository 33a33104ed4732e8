package domain

import (
	"mime"
	"strings"
)

// DefaultMaxUploadBytes は、アップロード可能なファイルサイズの既定上限（10MiB）です
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

// DefaultAllowedTypes は、アップロードを許可するMIMEタイプです
var DefaultAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
}

// FileInfo は、検証対象のファイルのメタデータです
type FileInfo struct {
	Name     string
	MIMEType string
	Size     int64
}

// PreviewHandle は、アップロード画像のプレビュー用リソースへの参照です
// リセット時に解放する必要があります
type PreviewHandle string

// UploadValidator は、アップロードされたファイルの形式とサイズを検証します
type UploadValidator struct {
	MaxBytes     int64
	AllowedTypes []string
}

// NewUploadValidator は、新しいUploadValidatorを作成します
// maxBytes が0以下の場合は既定の上限を使用します
func NewUploadValidator(maxBytes int64) *UploadValidator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	allowed := make([]string, len(DefaultAllowedTypes))
	copy(allowed, DefaultAllowedTypes)
	return &UploadValidator{
		MaxBytes:     maxBytes,
		AllowedTypes: allowed,
	}
}

// Validate は、ファイルのMIMEタイプとサイズを順に検証します
// 内容の検査は行いません
func (v *UploadValidator) Validate(file FileInfo) error {
	mimeType := NormalizeMIMEType(file.MIMEType)
	if !v.isAllowed(mimeType) {
		return &ValidationError{
			Kind:     UnsupportedType,
			MIMEType: file.MIMEType,
			Size:     file.Size,
			MaxBytes: v.MaxBytes,
		}
	}

	if file.Size > v.MaxBytes {
		return &ValidationError{
			Kind:     TooLarge,
			MIMEType: mimeType,
			Size:     file.Size,
			MaxBytes: v.MaxBytes,
		}
	}

	return nil
}

func (v *UploadValidator) isAllowed(mimeType string) bool {
	for _, allowed := range v.AllowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// NormalizeMIMEType は、MIMEタイプを小文字化しパラメータを取り除きます
func NormalizeMIMEType(mimeType string) string {
	trimmed := strings.TrimSpace(mimeType)
	if trimmed == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(trimmed); err == nil {
		return strings.ToLower(mediaType)
	}
	if i := strings.Index(trimmed, ";"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToLower(strings.TrimSpace(trimmed))
}

// UploadedImage は、検証済みのアップロード画像です
type UploadedImage struct {
	Data          []byte
	MIMEType      string
	Filename      string
	PreviewHandle PreviewHandle
}

// NewUploadedImage は、新しいUploadedImageを作成します
func NewUploadedImage(data []byte, mimeType, filename string, handle PreviewHandle) *UploadedImage {
	return &UploadedImage{
		Data:          data,
		MIMEType:      NormalizeMIMEType(mimeType),
		Filename:      filename,
		PreviewHandle: handle,
	}
}

// Size は画像のバイト数を返します
func (u *UploadedImage) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}
