package gemini

import (
	"fmt"
	"log"
	"strings"

	"productstudio/internal/domain"

	"google.golang.org/genai"
)

// processImageResponse は、画像生成レスポンスから最初の画像パートを取り出します
func (c *ImageClient) processImageResponse(resp *genai.GenerateContentResponse) (*domain.EncodedImage, error) {
	if resp == nil {
		return nil, fmt.Errorf("レスポンスが空です: %w", domain.ErrNoImageProduced)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			log.Printf("プロンプトがブロックされました: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("候補がありません: %w", domain.ErrNoImageProduced)
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil, fmt.Errorf("候補にコンテンツが含まれていません: %w", domain.ErrNoImageProduced)
	}

	// 詳細なログ出力
	log.Printf("画像生成レスポンス詳細:")
	log.Printf("  FinishReason: %s", candidate.FinishReason)
	log.Printf("  Parts数: %d", len(candidate.Content.Parts))

	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		log.Printf("安全フィルターにより生成がブロックされました: %s", formatSafetyRatings(candidate.SafetyRatings))
	case genai.FinishReasonRecitation:
		log.Printf("Gemini APIが著作権保護された内容を検出しました")
	}

	for i, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			log.Printf("  Part[%d]: 画像 %dバイト (%s)", i, len(part.InlineData.Data), part.InlineData.MIMEType)
			return &domain.EncodedImage{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}, nil
		}
		if part.Text != "" {
			log.Printf("  Part[%d]: Text長=%d", i, len(part.Text))
		}
	}

	return nil, fmt.Errorf("応答に画像パートがありません (FinishReason=%s): %w", candidate.FinishReason, domain.ErrNoImageProduced)
}

// formatSafetyRatings は、安全性評価をログ用の文字列にします
func formatSafetyRatings(ratings []*genai.SafetyRating) string {
	if len(ratings) == 0 {
		return "評価なし"
	}

	var parts []string
	for _, rating := range ratings {
		if rating == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", rating.Category, rating.Probability))
	}
	return strings.Join(parts, ", ")
}
