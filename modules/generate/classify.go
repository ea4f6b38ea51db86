package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// 카테고리 택소노미 (고정)
var categoryTags = []string{
	"greeting", "emotion", "daily", "love",
	"celebration", "work", "food", "seasonal",
}

// DefaultCategory - 분류 실패/미매칭 시 폴백 태그
const DefaultCategory = "daily"

// Classifier - 스티커 세트 카테고리 분류기
type Classifier struct {
	language LanguageClient
}

// NewClassifier - 분류기 생성
func NewClassifier(language LanguageClient) *Classifier {
	return &Classifier{language: language}
}

// Classify - 캐릭터 묘사와 테마로 세트 카테고리 태그를 분류 (배치당 1회 호출)
// 분류는 메타데이터 품질 문제일 뿐이므로 실패해도 배치를 막지 않고
// 기본 태그 하나로 폴백함.
func (c *Classifier) Classify(ctx context.Context, theme string, character string) []string {
	fallback := []string{DefaultCategory}

	instruction := fmt.Sprintf(`A sticker set features this character: %s
Theme: %s

Pick the categories that fit this sticker set.
Allowed categories: %s

Return ONLY a JSON array of category strings.
Example: ["greeting","daily"]`, character, theme, strings.Join(categoryTags, ", "))

	response, err := c.language.Complete(ctx, instruction)
	if err != nil {
		log.Printf("⚠️ [Classify] Classification failed, using default category: %v", err)
		return fallback
	}

	parsed, err := extractTagArray(response)
	if err != nil {
		log.Printf("⚠️ [Classify] Failed to parse classification response: %v", err)
		return fallback
	}

	// 택소노미에 있는 태그만 통과 (중복 제거)
	seen := make(map[string]bool)
	var tags []string
	for _, raw := range parsed {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if isKnownCategory(tag) && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		log.Printf("⚠️ [Classify] No valid categories in response, using default")
		return fallback
	}

	log.Printf("✅ [Classify] Categories: %v", tags)
	return tags
}

// extractTagArray - 응답 텍스트에서 JSON 배열 추출
// 모델이 마크다운 코드펜스나 설명을 붙이는 경우가 있어 대괄호 범위만 잘라냄.
func extractTagArray(response string) ([]string, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var parsed []string
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("invalid category array: %w", err)
	}

	return parsed, nil
}

// isKnownCategory - 택소노미에 포함된 태그인지 확인
func isKnownCategory(tag string) bool {
	for _, known := range categoryTags {
		if tag == known {
			return true
		}
	}
	return false
}
