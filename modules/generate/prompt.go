package generate

import (
	"fmt"
	"strings"
)

// stylePrefixes - 스타일 키별 프롬프트 프리픽스 테이블
var stylePrefixes = map[string]string{
	"pen": "[STYLE: PEN]\n" +
		"Clean black fineliner pen illustration, confident single-stroke lines, minimal hatching.\n",
	"marker": "[STYLE: MARKER]\n" +
		"Bold marker illustration, thick rounded strokes, flat fills, slight ink bleed at edges.\n",
	"crayon": "[STYLE: CRAYON]\n" +
		"Soft crayon illustration, grainy waxy texture, gentle uneven pressure strokes.\n",
	"watercolor": "[STYLE: WATERCOLOR]\n" +
		"Light watercolor illustration, soft washes, visible paper texture, loose edges.\n",
}

// fallbackStylePrefix - 스타일 미지정/미등록 시 기본 프리픽스
const fallbackStylePrefix = "[STYLE: SKETCH]\n" +
	"Simple hand-drawn sketch illustration, loose pencil lines, casual doodle feel.\n"

// consistencyBlock - 배치 내 모든 스티커의 캐릭터 일관성을 유지하는 고정 제약 블록.
// 모든 아이템에 동일하게 들어가야 같은 캐릭터로 보임.
const consistencyBlock = "\n[CHARACTER CONSISTENCY - REQUIRED]\n" +
	"✓ Uniform outline weight on every stroke - same pen pressure across the whole image\n" +
	"✓ Chibi proportions: 2.5 heads tall, oversized round head, stubby limbs\n" +
	"✓ Eyes: simple solid dot eyes, no sparkle highlights, both eyes identical size\n" +
	"✓ If the character has a tail, keep it short - no longer than one quarter of body height\n" +
	"✓ ONE character only, full body visible, centered composition\n" +
	"❌ NO photorealistic rendering\n" +
	"❌ NO text, letters, or watermarks in the image\n" +
	"❌ NO panel splits or collage layouts\n"

// 컬러 클로즈 - monochrome 플래그로 선택
const (
	monochromeClause = "\n[COLOR]\n" +
		"Grayscale only: black ink lines with light gray shading, pure white background.\n"
	pastelClause = "\n[COLOR]\n" +
		"Soft pastel color palette, low saturation, flat coloring, pure white background.\n"
)

// CompilePrompt - 최종 생성 프롬프트 조립. 결정적 문자열 합성이며 무작위성 없음.
// 2단계 합성에서 같은 프롬프트를 재사용하려면 같은 입력 → 같은 출력이 보장되어야 함.
func CompilePrompt(subject string, mode Mode, style string, theme string, monochrome bool) string {
	var sb strings.Builder

	// 스타일 프리픽스 (미등록 키는 sketch로 폴백)
	prefix, ok := stylePrefixes[style]
	if !ok {
		prefix = fallbackStylePrefix
	}
	sb.WriteString(prefix)

	// 캐릭터/포즈 묘사 (image-to-image 모드에서는 비어있을 수 있음)
	if subject != "" {
		sb.WriteString("\n[SUBJECT]\n")
		sb.WriteString(subject)
		sb.WriteString("\n")
	}

	// 테마 클로즈 - 배치(text-to-image) 모드에서만
	if theme != "" && mode == ModeTextToImage {
		sb.WriteString(fmt.Sprintf("\n[THEME CONTEXT]\nScene setting: %s\n", theme))
	}

	// 고정 시각 일관성 제약
	sb.WriteString(consistencyBlock)

	// 컬러 클로즈
	if monochrome {
		sb.WriteString(monochromeClause)
	} else {
		sb.WriteString(pastelClause)
	}

	return sb.String()
}
