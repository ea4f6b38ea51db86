package generate

import (
	"context"
	"fmt"
	"log"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// LanguageClient - 번역/분류에 사용하는 언어 서비스 인터페이스
type LanguageClient interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// Translator - 프롬프트 번역기 (인메모리 캐시 포함)
// 같은 문구가 배치마다 반복되므로 성공 결과를 캐싱해 중복 호출을 막음.
type Translator struct {
	language LanguageClient
	cache    *gocache.Cache
}

// NewTranslator - 번역기 생성
func NewTranslator(language LanguageClient) *Translator {
	return &Translator{
		language: language,
		// 프로세스 수명 동안 유지. 만료/정리 없음: 같은 문구는 프로세스당
		// 언어 서비스 호출 1회만 발생해야 함.
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Translate - 사용자 문구를 영어로 번역. 이미 영어면 그대로 반환.
// 번역 실패는 배치를 막지 않음: 원문을 그대로 반환하고 캐시하지 않음.
func (t *Translator) Translate(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}

	// 1. 캐시 조회
	if cached, found := t.cache.Get(trimmed); found {
		log.Printf("🔍 [Translate] Cache hit: %s", truncateForLog(trimmed, 40))
		return cached.(string)
	}

	// 2. 언어 서비스 호출
	instruction := fmt.Sprintf(`Translate the following phrase to English for use in an image generation prompt.
If the phrase is already in English, return it unchanged.
Return ONLY the translated phrase, no explanation, no quotes.

Phrase: %s`, trimmed)

	translated, err := t.language.Complete(ctx, instruction)
	if err != nil {
		log.Printf("⚠️ [Translate] Translation failed, using original text: %v", err)
		return text
	}

	translated = strings.TrimSpace(strings.Trim(strings.TrimSpace(translated), `"`))
	if translated == "" {
		log.Printf("⚠️ [Translate] Empty translation, using original text")
		return text
	}

	// 3. 성공 결과만 캐시 (만료 없음)
	t.cache.Set(trimmed, translated, gocache.NoExpiration)
	log.Printf("✅ [Translate] %s → %s", truncateForLog(trimmed, 30), truncateForLog(translated, 30))

	return translated
}

// truncateForLog - 로그용 문자열 자르기 (룬 경계 기준, 한글 문구 안전)
func truncateForLog(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
