package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jiseom/mojilab/modules/common/config"
	"github.com/jiseom/mojilab/modules/common/utils"
)

type Client struct {
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadStickerImage - 정규화된 스티커 이미지를 Supabase Storage에 업로드 (WebP 변환 포함)
// 경로는 세트 ID와 순번으로 스코프됨. 같은 경로로 재업로드하면 덮어씀.
func (c *Client) UploadStickerImage(ctx context.Context, setID string, seq int, pngData []byte) (string, error) {
	cfg := config.GetConfig()

	// PNG를 WebP로 변환 (quality: 90)
	webpData, err := utils.ConvertPNGToWebP(pngData, 90.0)
	if err != nil {
		return "", fmt.Errorf("failed to convert PNG to WebP: %w", err)
	}

	// 파일 경로 생성 (세트 스코프)
	filePath := fmt.Sprintf("sticker-sets/set-%s/sticker-%02d.webp", setID, seq)

	log.Printf("📤 Uploading sticker image to storage: %s", filePath)

	// Supabase Storage API URL
	uploadURL := fmt.Sprintf("%s/storage/v1/object/stickers/%s",
		cfg.SupabaseURL, filePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "image/webp")
	req.Header.Set("x-upsert", "true") // 같은 경로 덮어쓰기 허용

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("✅ Sticker image uploaded: %s (%d bytes)", filePath, len(webpData))
	return filePath, nil
}
