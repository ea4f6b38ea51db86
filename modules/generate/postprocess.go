package generate

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jiseom/mojilab/modules/common/utils"
)

// maxImageBytes - 다운로드 허용 최대 크기 (20MB)
const maxImageBytes = 20 * 1024 * 1024

// PostProcessor - 합성 결과 후처리기
// 결과 URL에서 이미지를 내려받아 512x512 흰 배경 PNG로 정규화함.
type PostProcessor struct {
	httpClient *http.Client
}

// NewPostProcessor - 후처리기 생성
func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Process - 이미지 다운로드 + 캐논 래스터 정규화
func (p *PostProcessor) Process(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	log.Printf("📤 [PostProcess] Downloaded %d bytes from synthesis result", len(imageData))

	normalized, err := utils.NormalizeSticker(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize image: %w", err)
	}

	return normalized, nil
}
