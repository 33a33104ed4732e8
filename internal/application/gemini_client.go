package application

import (
	"context"

	"productstudio/internal/domain"
)

// ImageGenerator は、画像生成APIとの通信を行うクライアントのインターフェースです
type ImageGenerator interface {
	// GenerateImage は、入力画像と指示文から画像を1枚生成します
	// 応答に画像が含まれない場合は domain.ErrNoImageProduced を返します
	GenerateImage(ctx context.Context, request ImageEditRequest) (*domain.EncodedImage, error)
}

// ImageEditRequest は、画像生成APIに送るリクエストです
type ImageEditRequest struct {
	ImageData   []byte
	MIMEType    string
	Instruction string
	Mode        domain.GenerationMode
}

// ErrorReporter は、技術的なエラーを外部に通知するためのインターフェースです
type ErrorReporter interface {
	// Report は、エラーを付随情報とともに通知します
	Report(ctx context.Context, err error, tags map[string]string)
}

// nopReporter は何もしないErrorReporterです
type nopReporter struct{}

func (nopReporter) Report(context.Context, error, map[string]string) {}
