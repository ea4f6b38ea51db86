package generate

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/jiseom/mojilab/modules/common/model"
)

// JobStore - 핸들러가 쓰는 Job 레코드 저장소 인터페이스
type JobStore interface {
	CreateGenerationJob(ctx context.Context, jobID string, inputData map[string]interface{}, totalItems int) error
	FetchGenerationJob(jobID string) (*model.GenerationJob, error)
}

// JobQueue - 비동기 Job 큐 인터페이스
type JobQueue interface {
	Enqueue(ctx context.Context, jobID string) error
}

// redisQueue - Redis 리스트 기반 Job 큐
type redisQueue struct {
	client *redis.Client
}

func (q *redisQueue) Enqueue(ctx context.Context, jobID string) error {
	return q.client.LPush(ctx, JobQueueKey, jobID).Err()
}

// Handler - 생성 API 핸들러
type Handler struct {
	service *Service
	store   JobStore
	queue   JobQueue
}

// NewHandler - 핸들러 생성. Redis가 없으면 비동기 제출은 비활성화됨.
func NewHandler(service *Service, redisClient *redis.Client) *Handler {
	h := &Handler{
		service: service,
		store:   service.DB(),
	}
	if redisClient != nil {
		h.queue = &redisQueue{client: redisClient}
	}
	return h
}

// RegisterRoutes - 생성 관련 라우트 등록
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/generate", h.handleGenerate).Methods("POST")
	router.HandleFunc("/api/generate/submit", h.handleSubmit).Methods("POST")
	router.HandleFunc("/api/generate/status/{jobId}", h.handleStatus).Methods("GET")
}

// handleGenerate - 동기 배치 생성. 배치 전체가 끝날 때까지 응답하지 않음.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.ProcessBatch(r.Context(), &req, nil)
	if err != nil {
		log.Printf("❌ [Handler] Batch rejected: %v", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSubmit - 비동기 배치 제출. Job을 등록하고 즉시 jobId 반환.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.queue == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "async processing not available")
		return
	}

	jobID := uuid.New().String()

	// 요청 원본을 Job 레코드에 보존 (워커가 다시 읽어서 처리)
	inputData := map[string]interface{}{}
	rawReq, _ := json.Marshal(req)
	_ = json.Unmarshal(rawReq, &inputData)

	if err := h.store.CreateGenerationJob(r.Context(), jobID, inputData, req.ItemCount()); err != nil {
		log.Printf("❌ [Handler] Failed to create job record: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	if err := h.queue.Enqueue(r.Context(), jobID); err != nil {
		log.Printf("❌ [Handler] Failed to enqueue job %s: %v", jobID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to enqueue job")
		return
	}

	log.Printf("📤 [Handler] Job submitted: %s (%d items)", jobID, req.ItemCount())

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"jobId":  jobID,
		"status": "pending",
	})
}

// handleStatus - Job 상태 조회
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.store.FetchGenerationJob(jobID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// writeJSON - JSON 응답 쓰기
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ [Handler] Failed to encode response: %v", err)
	}
}

// writeJSONError - JSON 에러 응답 쓰기
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
