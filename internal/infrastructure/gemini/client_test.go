package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/config"

	"google.golang.org/genai"
)

// scriptedModels は、決められた応答を返すテスト用のcontentGeneratorです
type scriptedModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (s *scriptedModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	s.model = model
	s.contents = contents
	s.config = cfg
	return s.resp, s.err
}

func imageResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Role: "model", Parts: parts},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
}

func testRequest() application.ImageEditRequest {
	return application.ImageEditRequest{
		ImageData:   []byte("jpeg-bytes"),
		MIMEType:    "image/jpeg",
		Instruction: "Change the background to: a beach.",
		Mode:        domain.ModeProductBackground,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultGeminiConfig()

	if cfg.ImageModelName != "gemini-2.5-flash-image" {
		t.Errorf("期待されるImageModelName: gemini-2.5-flash-image, 実際: %s", cfg.ImageModelName)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("期待されるTemperature: 0.7, 実際: %f", cfg.Temperature)
	}
	if cfg.TopP != 0.9 {
		t.Errorf("期待されるTopP: 0.9, 実際: %f", cfg.TopP)
	}
}

func TestNewImageClient_RequiresAPIKey(t *testing.T) {
	_, err := NewImageClient(context.Background(), &config.GeminiConfig{ImageModelName: "gemini-2.5-flash-image"})
	if err == nil {
		t.Error("APIキーが空の場合はエラーが期待されました")
	}
}

func TestImageClient_GenerateImage_Success(t *testing.T) {
	models := &scriptedModels{
		resp: imageResponse(
			&genai.Part{Text: "Here is your image"},
			&genai.Part{InlineData: &genai.Blob{Data: []byte("png-bytes"), MIMEType: "image/png"}},
			&genai.Part{InlineData: &genai.Blob{Data: []byte("second"), MIMEType: "image/png"}},
		),
	}
	client := newImageClient(models, config.DefaultGeminiConfig())

	img, err := client.GenerateImage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("予期しないエラーが発生しました: %v", err)
	}
	if string(img.Data) != "png-bytes" {
		t.Errorf("最初の画像パートが返される必要があります: %s", img.Data)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("期待されるMIMEタイプ: image/png, 実際: %s", img.MIMEType)
	}
	if models.calls != 1 {
		t.Errorf("GenerateContent はちょうど1回呼び出される必要があります: %d", models.calls)
	}
	if models.model != "gemini-2.5-flash-image" {
		t.Errorf("期待されるモデル: gemini-2.5-flash-image, 実際: %s", models.model)
	}
}

func TestImageClient_GenerateImage_RequestShape(t *testing.T) {
	models := &scriptedModels{
		resp: imageResponse(&genai.Part{InlineData: &genai.Blob{Data: []byte("png")}}),
	}
	client := newImageClient(models, config.DefaultGeminiConfig())

	req := testRequest()
	req.MIMEType = "IMAGE/JPEG"
	if _, err := client.GenerateImage(context.Background(), req); err != nil {
		t.Fatalf("予期しないエラーが発生しました: %v", err)
	}

	if len(models.contents) != 1 {
		t.Fatalf("Content はちょうど1件である必要があります: %d", len(models.contents))
	}
	parts := models.contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("Part は画像と指示文の2件である必要があります: %d", len(parts))
	}
	if parts[0].InlineData == nil || string(parts[0].InlineData.Data) != "jpeg-bytes" {
		t.Error("最初のPartが入力画像ではありません")
	}
	if parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("MIMEタイプが正規化されていません: %s", parts[0].InlineData.MIMEType)
	}
	if !strings.Contains(parts[1].Text, "a beach") {
		t.Errorf("2番目のPartが指示文ではありません: %s", parts[1].Text)
	}
	if models.config == nil || len(models.config.SafetySettings) != 4 {
		t.Error("安全フィルターの設定が渡されていません")
	}
}

func TestImageClient_GenerateImage_NoImage(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{
			name: "レスポンスがnil",
			resp: nil,
		},
		{
			name: "候補がない",
			resp: &genai.GenerateContentResponse{},
		},
		{
			name: "プロンプトがブロックされた",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
		},
		{
			name: "コンテンツがない",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
		},
		{
			name: "パートがない",
			resp: imageResponse(),
		},
		{
			name: "テキストのみ",
			resp: imageResponse(&genai.Part{Text: "I cannot edit this image."}),
		},
		{
			name: "空の画像データ",
			resp: imageResponse(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png"}}),
		},
		{
			name: "安全フィルター",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{
						Content:      &genai.Content{Parts: []*genai.Part{}},
						FinishReason: genai.FinishReasonSafety,
						SafetyRatings: []*genai.SafetyRating{
							{Category: genai.HarmCategoryHarassment, Probability: genai.HarmProbabilityHigh},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newImageClient(&scriptedModels{resp: tt.resp}, nil)

			img, err := client.GenerateImage(context.Background(), testRequest())
			if img != nil {
				t.Errorf("画像が返されないことが期待されました: %+v", img)
			}
			if !errors.Is(err, domain.ErrNoImageProduced) {
				t.Errorf("ErrNoImageProduced が期待されましたが %v でした", err)
			}
		})
	}
}

func TestImageClient_GenerateImage_TransportError(t *testing.T) {
	models := &scriptedModels{err: errors.New("Error 401, Message: API key not valid")}
	client := newImageClient(models, nil)

	_, err := client.GenerateImage(context.Background(), testRequest())
	if err == nil {
		t.Fatal("エラーが期待されましたが、発生しませんでした")
	}
	if errors.Is(err, domain.ErrNoImageProduced) {
		t.Error("通信エラーを画像なしとして扱ってはいけません")
	}
	if models.calls != 1 {
		t.Errorf("リトライせず1回だけ呼び出す必要があります: %d", models.calls)
	}
}

func TestImageClient_GenerateImage_EmptyInput(t *testing.T) {
	models := &scriptedModels{}
	client := newImageClient(models, nil)

	req := testRequest()
	req.ImageData = nil
	if _, err := client.GenerateImage(context.Background(), req); err == nil {
		t.Error("入力画像が空の場合はエラーが期待されました")
	}
	if models.calls != 0 {
		t.Errorf("入力画像が空の場合は呼び出してはいけません: %d", models.calls)
	}
}

func TestFormatSafetyRatings(t *testing.T) {
	if got := formatSafetyRatings(nil); got != "評価なし" {
		t.Errorf("期待される値: 評価なし, 実際: %s", got)
	}

	got := formatSafetyRatings([]*genai.SafetyRating{
		{Category: genai.HarmCategoryHarassment, Probability: genai.HarmProbabilityLow},
	})
	if !strings.Contains(got, string(genai.HarmCategoryHarassment)) {
		t.Errorf("カテゴリが含まれていません: %s", got)
	}
}
