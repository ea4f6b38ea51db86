package synthesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// 외부 합성 서비스는 응답 형태가 일정하지 않음:
// URL 문자열 하나, URL 리스트, 또는 URL 필드를 가진 객체가 모두 올 수 있음.
// ExtractImageURL 하나로 모든 형태를 해석하고, 어느 것에도 맞지 않으면
// 구체적인 에러를 반환함.

// urlFields - 객체 응답에서 URL을 담는 필드 후보 (확인 순서대로)
var urlFields = []string{"imageURL", "image_url", "imageUrl", "url", "output", "images", "data"}

// ExtractImageURL - 합성 API 응답에서 이미지 URL 추출
func ExtractImageURL(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty synthesis response")
	}

	switch trimmed[0] {
	case '"':
		// 단일 URL 문자열
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("failed to parse string response: %w", err)
		}
		return validateImageURL(s)

	case '[':
		// URL 리스트 - 첫 번째 항목 사용
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", fmt.Errorf("failed to parse list response: %w", err)
		}
		if len(items) == 0 {
			return "", fmt.Errorf("synthesis response list is empty")
		}
		return ExtractImageURL(items[0])

	case '{':
		// URL 필드를 가진 객체
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", fmt.Errorf("failed to parse object response: %w", err)
		}
		for _, field := range urlFields {
			raw, ok := obj[field]
			if !ok {
				continue
			}
			if url, err := ExtractImageURL(raw); err == nil {
				return url, nil
			}
		}
		return "", fmt.Errorf("no image URL field in synthesis response object")
	}

	return "", fmt.Errorf("unrecognized synthesis response shape: %s", previewBody(trimmed))
}

// validateImageURL - 추출된 값이 실제 URL인지 확인
func validateImageURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s, nil
	}
	return "", fmt.Errorf("synthesis result is not a URL: %q", truncateString(s, 60))
}

// previewBody - 에러 메시지용 바디 미리보기
func previewBody(body []byte) string {
	return truncateString(string(body), 80)
}
