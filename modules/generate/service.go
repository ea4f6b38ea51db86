package generate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jiseom/mojilab/modules/common/config"
	"github.com/jiseom/mojilab/modules/common/database"
	"github.com/jiseom/mojilab/modules/common/language"
	"github.com/jiseom/mojilab/modules/common/storage"
	"github.com/jiseom/mojilab/modules/common/synthesis"
)

// Service - 스티커 배치 생성 서비스
// 번역 → 프롬프트 컴파일 → 순차 합성 → 후처리 → (옵션) 분류 + 영속화
// Pacer는 서비스 수명 동안 하나씩만 유지함: 마지막 외부 호출 시각은
// 배치/요청 경계를 넘어 공유 쿼터에 대해 이어져야 함.
type Service struct {
	translator   *Translator
	synth        Synthesizer
	post         Normalizer
	coordinator  *Coordinator
	db           *database.Client
	pacerFull    *Pacer
	pacerPreview *Pacer
}

// NewService - 서비스 생성. 필수 외부 클라이언트 초기화 실패 시 nil 반환.
func NewService(ctx context.Context) *Service {
	langClient := language.NewClient(ctx)
	if langClient == nil {
		log.Println("❌ [Generate] Failed to initialize language client")
		return nil
	}

	synthClient := synthesis.NewClient()
	if synthClient == nil {
		log.Println("❌ [Generate] Failed to initialize synthesis client")
		return nil
	}

	dbClient := database.NewClient()
	if dbClient == nil {
		log.Println("❌ [Generate] Failed to initialize database client")
		return nil
	}

	log.Println("✅ [Generate] Service initialized")

	cfg := config.GetConfig()

	return &Service{
		translator:   NewTranslator(langClient),
		synth:        synthClient,
		post:         NewPostProcessor(),
		coordinator:  NewCoordinator(dbClient, storage.NewClient(), NewClassifier(langClient)),
		db:           dbClient,
		pacerFull:    NewPacer(time.Duration(cfg.GenerationDelaySeconds) * time.Second),
		pacerPreview: NewPacer(time.Duration(cfg.PreviewDelaySeconds) * time.Second),
	}
}

// DB - Job 레코드 접근용 (비동기 핸들러/워커에서 사용)
func (s *Service) DB() *database.Client {
	return s.db
}

// ProcessBatch - 배치 전체 처리. 아이템 일부가 실패해도 에러가 아님.
// 반환되는 Items는 항상 요청 아이템 수와 같고 입력 순서를 유지함.
func (s *Service) ProcessBatch(ctx context.Context, req *GenerationRequest, notify ProgressFunc) (*BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	items, err := buildItems(req)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	log.Printf("🏁 [Generate] Batch started: mode=%s, items=%d, preview=%v", req.Mode, len(items), req.Preview)

	// 1. 번역 (text-to-image 문구만, 캐시로 중복 호출 방지)
	translated := make([]string, len(items))
	for i, item := range items {
		if item.Prompt != "" {
			translated[i] = s.translator.Translate(ctx, item.Prompt)
		}
	}

	// 2. 프롬프트 컴파일 (결정적)
	compiled := make([]string, len(items))
	for i := range items {
		compiled[i] = CompilePrompt(translated[i], req.Mode, req.Style, req.Theme, req.Monochrome)
	}

	// 3. 순차 합성 + 후처리 (pacer는 서비스 공유 인스턴스)
	pacer := s.pacerFull
	if req.Preview {
		pacer = s.pacerPreview
	}

	engine := NewEngine(s.synth, s.post, pacer)
	runner := NewRunner(engine, notify)
	results := runner.Run(ctx, items, compiled, req.Preview)

	result := &BatchResult{Items: results}
	for _, item := range results {
		if item.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	// 4. 영속화 (best-effort: 실패해도 배치 결과는 그대로 반환)
	if req.Persist != nil {
		setID, err := s.coordinator.Persist(ctx, req, results)
		if err != nil {
			log.Printf("⚠️ [Generate] Persistence incomplete: %v", err)
		}
		if setID != "" {
			result.SetID = &setID
		}
	}

	log.Printf("🏁 [Generate] Batch finished: %d succeeded, %d failed", result.SuccessCount, result.FailureCount)
	return result, nil
}
