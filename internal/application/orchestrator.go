package application

import (
	"context"
	"errors"
	"log"

	"productstudio/internal/domain"
)

// GenerateInput は、生成1回分の入力です
type GenerateInput struct {
	Image             *domain.UploadedImage
	Selection         domain.Selection
	CustomInstruction string
}

// GenerationOrchestrator は、選択とアップロード画像から1件のリクエストを組み立て、画像生成APIを1回だけ呼び出します
type GenerationOrchestrator struct {
	generator ImageGenerator
	builder   *domain.InstructionBuilder
	reporter  ErrorReporter
}

// NewGenerationOrchestrator は新しいGenerationOrchestratorインスタンスを作成します
func NewGenerationOrchestrator(generator ImageGenerator, reporter ErrorReporter) *GenerationOrchestrator {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &GenerationOrchestrator{
		generator: generator,
		builder:   domain.NewInstructionBuilder(),
		reporter:  reporter,
	}
}

// Generate は、画像を1枚生成して結果を返します
// セッションを持たない呼び出し向けの入口で、リクエストの組み立てはセッションと同じ
// domain.NewGenerationRequest を使い、その後は Execute と同じ処理になります
// 失敗はすべて GenerationOutcome に変換され、リトライは行いません
func (o *GenerationOrchestrator) Generate(ctx context.Context, input GenerateInput) domain.GenerationOutcome {
	req, err := domain.NewGenerationRequest(input.Image, input.Selection, input.CustomInstruction)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPrompt) {
			return domain.FailureOutcome(domain.FailureEmptyPrompt, domain.ErrEmptyPrompt.Error())
		}
		return domain.FailureOutcome(domain.FailureProviderError, domain.GenericFailureMessage)
	}
	return o.Execute(ctx, req)
}

// Execute は、domain.NewGenerationRequest で組み立てたリクエストで画像生成APIを1回呼び出します
// セッションは BeginGeneration で得たリクエストをそのまま渡します
func (o *GenerationOrchestrator) Execute(ctx context.Context, req domain.GenerationRequest) domain.GenerationOutcome {
	if req.Image == nil {
		return domain.FailureOutcome(domain.FailureProviderError, domain.GenericFailureMessage)
	}

	instruction := o.builder.Build(req)
	log.Printf("画像生成を開始: モード=%s, 画像=%dバイト, 指示文=%d文字", req.Mode, req.Image.Size(), len(instruction))

	img, err := o.generator.GenerateImage(ctx, ImageEditRequest{
		ImageData:   req.Image.Data,
		MIMEType:    req.Image.MIMEType,
		Instruction: instruction,
		Mode:        req.Mode,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoImageProduced) {
			log.Printf("画像生成APIの応答に画像が含まれていませんでした: %v", err)
			return domain.FailureOutcome(domain.FailureNoImageProduced, domain.ErrNoImageProduced.Error())
		}

		log.Printf("画像生成に失敗: %v", err)
		o.reporter.Report(ctx, err, map[string]string{
			"mode": req.Mode.String(),
		})
		return domain.FailureOutcome(domain.FailureProviderError, domain.GenericFailureMessage)
	}

	if img == nil || len(img.Data) == 0 {
		log.Printf("画像生成APIから空の画像が返されました")
		return domain.FailureOutcome(domain.FailureNoImageProduced, domain.ErrNoImageProduced.Error())
	}

	log.Printf("画像生成完了: %dバイト (%s)", len(img.Data), img.ContentType())
	return domain.SuccessOutcome(img)
}
