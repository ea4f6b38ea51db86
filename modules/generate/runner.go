package generate

import (
	"context"
	"fmt"
	"log"

	"github.com/jiseom/mojilab/modules/common/synthesis"
	"github.com/jiseom/mojilab/modules/common/utils"
)

// refineStrength - 2단계 정제 및 image-to-image 소스 영향력
const refineStrength = 0.35

// Synthesizer - 이미지 합성 서비스 인터페이스
type Synthesizer interface {
	Generate(ctx context.Context, req synthesis.Request) (string, error)
}

// Normalizer - 합성 결과 URL을 받아 캐논 래스터로 후처리하는 인터페이스
type Normalizer interface {
	Process(ctx context.Context, imageURL string) ([]byte, error)
}

// Engine - 2단계 합성 엔진
// 1단계: 초안 생성 (text-to-image 또는 소스 이미지 기반)
// 2단계: 1단계 결과를 소스로 같은 프롬프트로 정제 (preview 모드는 생략)
// 모든 합성 호출은 Pacer를 거쳐 외부 서비스 레이트 리밋을 지킴.
type Engine struct {
	synth Synthesizer
	post  Normalizer
	pacer *Pacer
}

// NewEngine - 합성 엔진 생성
func NewEngine(synth Synthesizer, post Normalizer, pacer *Pacer) *Engine {
	return &Engine{
		synth: synth,
		post:  post,
		pacer: pacer,
	}
}

// RenderItem - 아이템 하나를 최종 이미지로 렌더링
// image-to-image는 단일 패스, text-to-image는 2단계 (preview면 1단계만).
// 합성 실패는 아이템 실패. 후처리 실패는 아이템을 실패시키지 않고
// URL만 있는 성공(정규화 데이터 없음)으로 강등함.
func (e *Engine) RenderItem(ctx context.Context, item GenerationItem, compiledPrompt string, preview bool) (string, []byte, error) {
	sourceMode := len(item.Image) > 0

	// 1단계: 초안 생성
	stage1Req := synthesis.Request{Prompt: compiledPrompt}
	if sourceMode {
		// 소스 이미지는 먼저 흰 배경으로 합성 (투명 영역이 결과를 오염시킴)
		flattened, err := utils.FlattenWhite(item.Image)
		if err != nil {
			return "", nil, fmt.Errorf("invalid source image: %w", err)
		}
		stage1Req.SourceImage = utils.DataURL("image/png", flattened)
		stage1Req.Strength = refineStrength
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return "", nil, fmt.Errorf("pacing interrupted: %w", err)
	}

	log.Printf("🎨 [Engine] Item %d: stage 1 (draft)", item.Index)
	draftURL, err := e.synth.Generate(ctx, stage1Req)
	if err != nil {
		return "", nil, fmt.Errorf("stage 1 failed: %w", err)
	}

	finalURL := draftURL

	// 2단계: 정제 (text-to-image 전용, preview 모드 생략)
	// 1단계 구도를 유지한 채 같은 프롬프트로 스타일 충실도를 올림.
	if !preview && !sourceMode {
		if err := e.pacer.Wait(ctx); err != nil {
			return "", nil, fmt.Errorf("pacing interrupted: %w", err)
		}

		log.Printf("🎨 [Engine] Item %d: stage 2 (refine)", item.Index)
		finalURL, err = e.synth.Generate(ctx, synthesis.Request{
			Prompt:      compiledPrompt,
			SourceImage: draftURL,
			Strength:    refineStrength,
		})
		if err != nil {
			// 1단계 결과를 최종본으로 대체하지 않음
			return "", nil, fmt.Errorf("stage 2 failed: %w", err)
		}
	}

	// 후처리: 다운로드 + 캐논 래스터 정규화
	normalized, err := e.post.Process(ctx, finalURL)
	if err != nil {
		log.Printf("⚠️ [Engine] Item %d: post-processing failed, keeping raw URL: %v", item.Index, err)
		return finalURL, nil, nil
	}

	return finalURL, normalized, nil
}

// ProgressFunc - 아이템 완료마다 호출되는 콜백 (nil 허용)
type ProgressFunc func(result ItemResult)

// Runner - 순차 배치 실행기
// 아이템을 입력 순서대로 하나씩 처리하고, 개별 실패는 기록만 하고 계속 진행함.
type Runner struct {
	engine *Engine
	notify ProgressFunc
}

// NewRunner - 실행기 생성
func NewRunner(engine *Engine, notify ProgressFunc) *Runner {
	return &Runner{
		engine: engine,
		notify: notify,
	}
}

// Run - 배치 실행. 결과 리스트는 항상 입력과 같은 길이, 같은 순서.
// 컨텍스트 취소 시 남은 아이템은 모두 실패로 기록됨.
func (r *Runner) Run(ctx context.Context, items []GenerationItem, compiled []string, preview bool) []ItemResult {
	results := make([]ItemResult, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			log.Printf("⚠️ [Runner] Batch cancelled, marking remaining %d items failed", len(items)-i)
			for j := i; j < len(items); j++ {
				results[j] = failureItem(items[j].Index, items[j].Prompt, fmt.Errorf("batch cancelled: %w", err))
			}
			break
		}

		log.Printf("🚀 [Runner] Processing item %d/%d", i+1, len(items))

		imageURL, normalized, err := r.engine.RenderItem(ctx, item, compiled[i], preview)
		if err != nil {
			log.Printf("❌ [Runner] Item %d failed: %v", item.Index, err)
			results[i] = failureItem(item.Index, item.Prompt, err)
		} else {
			results[i] = successItem(item.Index, item.Prompt, compiled[i], imageURL, normalized)
		}

		if r.notify != nil {
			r.notify(results[i])
		}
	}

	return results
}
