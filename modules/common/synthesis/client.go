package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jiseom/mojilab/modules/common/config"
)

// Request - 이미지 생성 요청
type Request struct {
	Prompt      string  `json:"prompt"`
	SourceImage string  `json:"sourceImage,omitempty"` // https URL 또는 data URL
	Strength    float64 `json:"strength,omitempty"`    // 소스 이미지 영향력 (0이면 텍스트 전용)
}

// apiRequest - 외부 합성 API 요청 바디 (고정 렌더링 파라미터 포함)
type apiRequest struct {
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	SourceImage  string  `json:"sourceImage,omitempty"`
	Strength     float64 `json:"strength,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	OutputFormat string  `json:"outputFormat"`
}

// Client - 외부 이미지 합성 서비스 클라이언트
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

// NewClient - Synthesis 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	if cfg.SynthesisAPIKey == "" {
		log.Println("⚠️ [Synthesis] SYNTHESIS_API_KEY not configured")
		return nil
	}

	return &Client{
		// 합성 호출은 수십 초까지 걸릴 수 있음
		httpClient: &http.Client{Timeout: 180 * time.Second},
		apiURL:     cfg.SynthesisAPIURL,
		apiKey:     cfg.SynthesisAPIKey,
		model:      cfg.SynthesisModel,
	}
}

// Generate - 이미지 생성 호출, 결과 이미지 URL 반환
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	apiReq := apiRequest{
		Model:        c.model,
		Prompt:       req.Prompt,
		SourceImage:  req.SourceImage,
		Strength:     req.Strength,
		Width:        1024,
		Height:       1024,
		OutputFormat: "PNG",
	}

	jsonBody, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("synthesis API error: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("❌ [Synthesis] API error: status=%d, body=%s", resp.StatusCode, truncateString(string(bodyBytes), 200))
		return "", fmt.Errorf("synthesis API error: status %d", resp.StatusCode)
	}

	imageURL, err := ExtractImageURL(bodyBytes)
	if err != nil {
		return "", err
	}

	log.Printf("✅ [Synthesis] Image generated: %s", truncateString(imageURL, 60))
	return imageURL, nil
}

// truncateString - 로그용 문자열 자르기 (룬 경계 기준)
func truncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
