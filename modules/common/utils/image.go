package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"log"
	"math"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// CanonicalSize - 스티커 정규화 해상도 (정사각형)
const CanonicalSize = 512

// NormalizeSticker - 합성 결과물을 캐논 래스터로 정규화
// 512x512 불투명 흰 배경 정사각형에 비율 유지하며 fit, PNG 인코딩
func NormalizeSticker(imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	log.Printf("🔍 Decoded image format: %s (%dx%d)", format, img.Bounds().Dx(), img.Bounds().Dy())

	canonical := fitOnWhiteCanvas(img, CanonicalSize, CanonicalSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canonical); err != nil {
		return nil, fmt.Errorf("failed to encode canonical image: %w", err)
	}

	log.Printf("✅ Image normalized: %d bytes → %dx%d canonical PNG (%d bytes)",
		len(imageData), CanonicalSize, CanonicalSize, buf.Len())

	return buf.Bytes(), nil
}

// FlattenWhite - 이미지 배경을 불투명 흰색으로 합성 (크기 유지)
func FlattenWhite(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	flattened := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flattened, flattened.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flattened, flattened.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flattened); err != nil {
		return nil, fmt.Errorf("failed to encode flattened image: %w", err)
	}

	return buf.Bytes(), nil
}

// fitOnWhiteCanvas - 이미지를 지정된 크기 캔버스에 resize (비율 유지하며 fit, 흰 배경)
func fitOnWhiteCanvas(src image.Image, targetWidth, targetHeight int) image.Image {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	// 비율 계산
	scaleX := float64(targetWidth) / float64(srcWidth)
	scaleY := float64(targetHeight) / float64(srcHeight)
	scale := math.Min(scaleX, scaleY)

	// 스케일된 크기 계산
	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)

	// 새 이미지 생성 (목표 크기, 흰 배경)
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// 중앙 정렬을 위한 오프셋 계산
	xOffset := (targetWidth - newWidth) / 2
	yOffset := (targetHeight - newHeight) / 2

	// Nearest Neighbor 방식으로 리사이즈
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := srcBounds.Min.X + int(float64(x)/scale)
			srcY := srcBounds.Min.Y + int(float64(y)/scale)
			dst.Set(x+xOffset, y+yOffset, src.At(srcX, srcY))
		}
	}

	return dst
}

// ConvertPNGToWebP - PNG 바이너리를 WebP로 변환
func ConvertPNGToWebP(pngData []byte, quality float32) ([]byte, error) {
	pngReader := bytes.NewReader(pngData)
	img, err := png.Decode(pngReader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	err = webp.Encode(&webpBuffer, img, options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()

	log.Printf("✅ PNG converted to WebP: %d bytes → %d bytes (%.1f%% reduction)",
		len(pngData), len(webpData),
		float64(len(pngData)-len(webpData))/float64(len(pngData))*100)

	return webpData, nil
}

// ConvertImageToBase64 - 이미지 바이너리를 base64로 변환
func ConvertImageToBase64(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// DataURL - 이미지 바이너리를 data URL로 변환 (합성 API 소스 이미지용)
func DataURL(mimeType string, imageData []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(imageData)
}
