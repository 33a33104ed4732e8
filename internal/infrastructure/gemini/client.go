package gemini

import (
	"context"
	"fmt"
	"log"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/config"

	"google.golang.org/genai"
)

// contentGenerator は、genai.Models のうち画像生成で使うメソッドだけを抜き出したインターフェースです
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageClient は、Gemini APIで画像を生成するクライアントです
type ImageClient struct {
	models contentGenerator
	config *config.GeminiConfig
}

var _ application.ImageGenerator = (*ImageClient)(nil)

// NewImageClient は新しいImageClientインスタンスを作成します
func NewImageClient(ctx context.Context, geminiConfig *config.GeminiConfig) (*ImageClient, error) {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	return newImageClient(client.Models, geminiConfig), nil
}

func newImageClient(models contentGenerator, geminiConfig *config.GeminiConfig) *ImageClient {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}
	return &ImageClient{
		models: models,
		config: geminiConfig,
	}
}

// ModelName は、画像生成に使うモデル名を返します
func (c *ImageClient) ModelName() string {
	return c.config.ImageModelName
}

// GenerateImage は、入力画像と指示文を1回だけ送信し、最初の画像を返します
func (c *ImageClient) GenerateImage(ctx context.Context, request application.ImageEditRequest) (*domain.EncodedImage, error) {
	if len(request.ImageData) == 0 {
		return nil, fmt.Errorf("入力画像が空です")
	}

	log.Printf("Gemini APIに画像生成をリクエスト中: モデル=%s, モード=%s, 画像=%dバイト",
		c.config.ImageModelName, request.Mode, len(request.ImageData))

	contents := buildContents(request)
	resp, err := c.models.GenerateContent(ctx, c.config.ImageModelName, contents, c.createImageGenerateConfig())
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("Gemini APIへのリクエストがタイムアウトしました: %w", err)
		}
		return nil, fmt.Errorf("Gemini APIからの応答取得に失敗: %w", err)
	}

	return c.processImageResponse(resp)
}

// buildContents は、画像パートと指示文パートを持つ1件のリクエストを作成します
func buildContents(request application.ImageEditRequest) []*genai.Content {
	mimeType := domain.NormalizeMIMEType(request.MIMEType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: request.ImageData, MIMEType: mimeType}},
				{Text: request.Instruction},
			},
		},
	}
}

// createImageGenerateConfig は、画像生成用の設定を作成します
func (c *ImageClient) createImageGenerateConfig() *genai.GenerateContentConfig {
	temperature := c.config.Temperature
	topP := c.config.TopP

	cfg := &genai.GenerateContentConfig{
		SafetySettings: createSafetySettings(),
	}
	if temperature > 0 {
		cfg.Temperature = &temperature
	}
	if topP > 0 {
		cfg.TopP = &topP
	}
	return cfg
}

// createSafetySettings は、安全フィルターの設定を作成します（中程度の制限）
func createSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		},
	}
}
