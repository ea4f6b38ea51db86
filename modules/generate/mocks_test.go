package generate

import (
	"context"
	"sync"

	"github.com/jiseom/mojilab/modules/common/model"
	"github.com/jiseom/mojilab/modules/common/synthesis"
)

// mockLanguage - 언어 서비스 목
type mockLanguage struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
	// completeFunc가 설정되면 response/err 대신 사용
	completeFunc func(ctx context.Context, instruction string) (string, error)
}

func (m *mockLanguage) Complete(ctx context.Context, instruction string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.completeFunc != nil {
		return m.completeFunc(ctx, instruction)
	}
	return m.response, m.err
}

func (m *mockLanguage) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockSynthesizer - 합성 서비스 목 (호출 기록 보존)
type mockSynthesizer struct {
	mu       sync.Mutex
	requests []synthesis.Request
	// generateFunc가 설정되면 호출 순번(1부터)과 함께 위임
	generateFunc func(call int, req synthesis.Request) (string, error)
}

func (m *mockSynthesizer) Generate(ctx context.Context, req synthesis.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	call := len(m.requests)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(call, req)
	}
	return "https://img.example.com/out.png", nil
}

func (m *mockSynthesizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockNormalizer - 후처리 목 (고정 바이너리 반환)
type mockNormalizer struct {
	data []byte
	err  error
}

func (m *mockNormalizer) Process(ctx context.Context, imageURL string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.data != nil {
		return m.data, nil
	}
	return []byte("normalized-png"), nil
}

// mockSetStore - 세트/스티커 저장소 목
type mockSetStore struct {
	mu          sync.Mutex
	setID       string
	createErr   error
	insertErr   error
	createCalls int
	inserted    []model.StickerInsert
	lastSet     model.StickerSetInsert
}

func (m *mockSetStore) CreateStickerSet(ctx context.Context, set model.StickerSetInsert) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.lastSet = set
	if m.createErr != nil {
		return "", m.createErr
	}
	if m.setID == "" {
		return "set-001", nil
	}
	return m.setID, nil
}

func (m *mockSetStore) BulkInsertStickers(ctx context.Context, stickers []model.StickerInsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, stickers...)
	return nil
}

// mockBlobStore - 이미지 저장소 목
type mockBlobStore struct {
	mu sync.Mutex
	// failSeqs에 포함된 순번은 업로드 실패
	failSeqs map[int]bool
	uploads  []int
}

func (m *mockBlobStore) UploadStickerImage(ctx context.Context, setID string, seq int, pngData []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSeqs[seq] {
		return "", errStorageDown
	}
	m.uploads = append(m.uploads, seq)
	return "sticker-sets/set-" + setID + "/sticker.webp", nil
}

var errStorageDown = &storageError{}

type storageError struct{}

func (e *storageError) Error() string { return "storage unavailable" }
