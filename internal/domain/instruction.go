package domain

import (
	"fmt"
	"strings"
)

// InstructionBuilder は、生成リクエストから外部APIに送る指示文を組み立てるドメインサービスです
type InstructionBuilder struct{}

// NewInstructionBuilder は新しいInstructionBuilderインスタンスを作成します
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{}
}

// Build は、生成モードに応じた指示文を1つだけ生成します
func (ib *InstructionBuilder) Build(req GenerationRequest) string {
	extra := additionalDirective(req.EffectivePrompt, req.CustomInstruction)

	switch req.Mode {
	case ModeModelTryOn:
		return ib.buildTryOn(req.EffectivePrompt, extra)
	default:
		return ib.buildProductBackground(req.EffectivePrompt, extra)
	}
}

// buildTryOn は、衣類をモデルに着せる指示文を生成します
func (ib *InstructionBuilder) buildTryOn(prompt, extra string) string {
	var builder strings.Builder

	builder.WriteString("You are an expert fashion photographer and AI stylist.\n")
	builder.WriteString("Input: An image of a clothing item (flat lay, mannequin, or ghost).\n")
	builder.WriteString("Task: Generate a photorealistic image of a real human model wearing this EXACT clothing item.\n\n")

	builder.WriteString("CRITICAL GUIDELINES:\n")
	builder.WriteString("1. The clothing item from the input must be the PRIMARY focus.\n")
	builder.WriteString("2. You MUST preserve the clothing's color, pattern, logo, and texture 100%.\n")
	builder.WriteString("3. Fit the clothing naturally onto the model's body (draping, lighting, fit). Do not distort the branding.\n")
	builder.WriteString(fmt.Sprintf("4. Scene/Context: %s.\n", prompt))
	if extra != "" {
		builder.WriteString(fmt.Sprintf("5. Additional details: %s\n", extra))
	}

	builder.WriteString("\nOutput: A high-quality, 4k, photorealistic fashion shot.")

	return builder.String()
}

// buildProductBackground は、商品を保ったまま背景だけを差し替える指示文を生成します
func (ib *InstructionBuilder) buildProductBackground(prompt, extra string) string {
	var builder strings.Builder

	builder.WriteString("You are an expert product photographer and photo editor.\n")
	builder.WriteString("Task: Keep the main product/subject in this image EXACTLY as it is.\n")
	builder.WriteString("Do not change the shape, color, or details of the foreground object.\n")
	builder.WriteString(fmt.Sprintf("Change the background to: %s.\n", prompt))
	if extra != "" {
		builder.WriteString(fmt.Sprintf("Additional details: %s\n", extra))
	}
	builder.WriteString("Ensure realistic lighting and shadows that match the new background.\n")
	builder.WriteString("The result should be high-quality, 4k, photorealistic.")

	return builder.String()
}

// additionalDirective は、追加指示が有効プロンプトと異なる場合だけそれを返します
func additionalDirective(prompt, instruction string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" || instruction == strings.TrimSpace(prompt) {
		return ""
	}
	return instruction
}
