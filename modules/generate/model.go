package generate

import (
	"encoding/base64"
	"fmt"
)

// Mode - 생성 모드
type Mode string

const (
	ModeTextToImage  Mode = "text-to-image"
	ModeImageToImage Mode = "image-to-image"
)

// PersistDirective - 영속화 요청 (소유자와 캐릭터 묘사는 함께 필수)
type PersistDirective struct {
	MemberID  string `json:"memberId"`
	Character string `json:"character"`
}

// GenerationRequest - 배치 생성 요청
type GenerationRequest struct {
	Mode       Mode              `json:"mode"`
	Prompts    []string          `json:"prompts,omitempty"` // text-to-image 모드 전용
	Images     []string          `json:"images,omitempty"`  // image-to-image 모드 전용 (base64)
	Theme      string            `json:"theme,omitempty"`
	Style      string            `json:"style,omitempty"`
	Monochrome bool              `json:"monochrome"`
	Preview    bool              `json:"preview,omitempty"`
	Persist    *PersistDirective `json:"persist,omitempty"`
}

// Validate - 요청 검증. 실패하면 전체 요청이 즉시 거부됨 (부분 처리 없음)
func (r *GenerationRequest) Validate() error {
	switch r.Mode {
	case ModeTextToImage:
		if len(r.Prompts) == 0 {
			return fmt.Errorf("prompts is required for %s mode", ModeTextToImage)
		}
		if len(r.Images) > 0 {
			return fmt.Errorf("images must be empty in %s mode", ModeTextToImage)
		}
	case ModeImageToImage:
		if len(r.Images) == 0 {
			return fmt.Errorf("images is required for %s mode", ModeImageToImage)
		}
		if len(r.Prompts) > 0 {
			return fmt.Errorf("prompts must be empty in %s mode", ModeImageToImage)
		}
	default:
		return fmt.Errorf("invalid mode: %q", r.Mode)
	}

	if r.Persist != nil {
		if r.Persist.MemberID == "" || r.Persist.Character == "" {
			return fmt.Errorf("persist requires both memberId and character")
		}
	}

	return nil
}

// ItemCount - 요청에 포함된 아이템 개수
func (r *GenerationRequest) ItemCount() int {
	if r.Mode == ModeImageToImage {
		return len(r.Images)
	}
	return len(r.Prompts)
}

// GenerationItem - 배치 내 아이템 하나 (생성 후 불변)
type GenerationItem struct {
	Index  int
	Prompt string
	Image  []byte
}

// buildItems - 요청을 아이템 리스트로 변환. image-to-image 모드의 base64
// 디코딩 실패는 요청 수준 검증 에러로 처리함.
func buildItems(req *GenerationRequest) ([]GenerationItem, error) {
	if req.Mode == ModeImageToImage {
		items := make([]GenerationItem, len(req.Images))
		for i, encoded := range req.Images {
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 image at index %d: %w", i, err)
			}
			items[i] = GenerationItem{Index: i, Image: data}
		}
		return items, nil
	}

	items := make([]GenerationItem, len(req.Prompts))
	for i, prompt := range req.Prompts {
		items[i] = GenerationItem{Index: i, Prompt: prompt}
	}
	return items, nil
}

// ItemResult - 아이템 처리 결과. 원본 인덱스를 보존함.
type ItemResult struct {
	Index       int    `json:"index"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`    // 합성 서비스 원본 출력
	ImageBase64 string `json:"imageBase64,omitempty"` // 정규화된 512x512 PNG (인라인 포함용)

	// 정규화된 PNG 바이너리. 영속화 단계에서 사용. 응답에는 ImageBase64로 나감.
	normalized []byte
	prompt     string // 컴파일 전 원본 문구 (스티커 제목용)
	compiled   string // 합성에 실제 사용된 컴파일된 프롬프트
}

// BatchResult - 배치 전체 결과. Items는 입력 순서와 1:1 정렬됨.
type BatchResult struct {
	Items        []ItemResult `json:"items"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
	SetID        *string      `json:"setId,omitempty"`
}

// successItem - 성공 결과 생성
func successItem(index int, prompt string, compiled string, imageURL string, normalized []byte) ItemResult {
	res := ItemResult{
		Index:      index,
		Success:    true,
		ImageURL:   imageURL,
		normalized: normalized,
		prompt:     prompt,
		compiled:   compiled,
	}
	if normalized != nil {
		res.ImageBase64 = base64.StdEncoding.EncodeToString(normalized)
	}
	return res
}

// failureItem - 실패 결과 생성
func failureItem(index int, prompt string, err error) ItemResult {
	return ItemResult{
		Index:   index,
		Success: false,
		Error:   err.Error(),
		prompt:  prompt,
	}
}
