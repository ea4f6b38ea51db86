package language

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/jiseom/mojilab/modules/common/config"
)

// Client - 언어 서비스 클라이언트 (번역/분류용 Gemini 텍스트 모델)
type Client struct {
	genaiClient *genai.Client
	model       string
}

// NewClient - 언어 서비스 클라이언트 생성
func NewClient(ctx context.Context) *Client {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("❌ Failed to create Genai client: %v", err)
		return nil
	}

	return &Client{
		genaiClient: genaiClient,
		model:       cfg.GeminiTextModel,
	}
}

// Complete - 자유 형식 지시문을 보내고 텍스트 응답을 받음
func (c *Client) Complete(ctx context.Context, instruction string) (string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(instruction),
		},
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{content},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("language service call failed: %w", err)
	}

	// 응답 텍스트 추출
	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no text in language service response")
	}

	return text, nil
}
