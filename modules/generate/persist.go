package generate

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jiseom/mojilab/modules/common/model"
)

// uploadConcurrency - 스토리지 업로드 동시성 (합성과 달리 업로드는 병렬 허용)
const uploadConcurrency = 4

// SetStore - 스티커 세트/스티커 레코드 저장소 인터페이스
type SetStore interface {
	CreateStickerSet(ctx context.Context, set model.StickerSetInsert) (string, error)
	BulkInsertStickers(ctx context.Context, stickers []model.StickerInsert) error
}

// BlobStore - 스티커 이미지 바이너리 저장소 인터페이스
type BlobStore interface {
	UploadStickerImage(ctx context.Context, setID string, seq int, pngData []byte) (string, error)
}

// Coordinator - 영속화 코디네이터 (best-effort)
// 1. 카테고리 분류 (실패해도 진행)
// 2. 부모 세트 레코드 생성 → set_id 확보 (실패하면 영속화 전체 중단)
// 3. 성공 아이템별 이미지 업로드 (병렬, 개별 실패는 해당 아이템만 빠짐)
// 4. 자식 레코드 일괄 생성
// 영속화 실패는 배치 결과 반환을 막지 않음.
type Coordinator struct {
	store      SetStore
	blobs      BlobStore
	classifier *Classifier
}

// NewCoordinator - 코디네이터 생성
func NewCoordinator(store SetStore, blobs BlobStore, classifier *Classifier) *Coordinator {
	return &Coordinator{
		store:      store,
		blobs:      blobs,
		classifier: classifier,
	}
}

// Persist - 배치 결과를 저장하고 생성된 세트 ID를 반환
// 성공 아이템이 하나도 없으면 세트를 만들지 않음. 후처리 강등으로 정규화
// 데이터가 없는 성공 아이템은 세트 집계에는 포함되지만 자식으로는 안 붙음.
func (c *Coordinator) Persist(ctx context.Context, req *GenerationRequest, results []ItemResult) (string, error) {
	succeeded := 0
	persistable := make([]ItemResult, 0, len(results))
	for _, res := range results {
		if res.Success {
			succeeded++
			if res.normalized != nil {
				persistable = append(persistable, res)
			}
		}
	}

	if succeeded == 0 {
		log.Printf("⚠️ [Persist] No successful items, skipping persistence")
		return "", nil
	}

	// 1단계: 카테고리 분류 (세트 메타데이터, 실패 시 기본 태그)
	categories := c.classifier.Classify(ctx, req.Theme, req.Persist.Character)

	// 2단계: 부모 세트 레코드
	setID, err := c.store.CreateStickerSet(ctx, model.StickerSetInsert{
		MemberID:     req.Persist.MemberID,
		Character:    req.Persist.Character,
		Theme:        req.Theme,
		Style:        req.Style,
		Method:       string(req.Mode),
		Monochrome:   req.Monochrome,
		TotalItems:   len(results),
		SuccessCount: succeeded,
		Categories:   categories,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create sticker set: %w", err)
	}

	// 전부 강등된 배치: 업로드할 게 없어도 세트는 유지 (자식 없는 세트 허용)
	if len(persistable) == 0 {
		log.Printf("⚠️ [Persist] Set %s created with no attachable images (%d degraded)", setID, succeeded)
		return setID, nil
	}

	// 3단계: 이미지 업로드 (병렬) + 자식 레코드 수집
	var mu sync.Mutex
	var rows []model.StickerInsert
	failedUploads := 0

	g := new(errgroup.Group)
	g.SetLimit(uploadConcurrency)

	for _, res := range persistable {
		res := res
		g.Go(func() error {
			imagePath, err := c.blobs.UploadStickerImage(ctx, setID, res.Index, res.normalized)
			if err != nil {
				// 업로드 실패는 해당 스티커만 빠짐
				log.Printf("❌ [Persist] Upload failed for item %d: %v", res.Index, err)
				mu.Lock()
				failedUploads++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			rows = append(rows, model.StickerInsert{
				SetID:     setID,
				Seq:       res.Index,
				Title:     res.prompt,
				Prompt:    res.compiled,
				ImagePath: imagePath,
			})
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if len(rows) == 0 {
		// 세트 레코드는 이미 존재함. 빈 세트로 남지만 삭제하지 않음 (best-effort).
		return setID, fmt.Errorf("all %d image uploads failed for set %s", len(persistable), setID)
	}

	// 4단계: 자식 레코드 순번 순 일괄 insert
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })

	if err := c.store.BulkInsertStickers(ctx, rows); err != nil {
		// 업로드된 이미지는 고아로 남음. 재시도/정리는 하지 않음.
		return setID, fmt.Errorf("failed to insert sticker records for set %s: %w", setID, err)
	}

	log.Printf("✅ [Persist] Set %s saved: %d stickers (%d uploads failed)", setID, len(rows), failedUploads)
	return setID, nil
}
