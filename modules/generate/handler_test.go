package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiseom/mojilab/modules/common/model"
)

type ctxKey string

// mockJobStore - Job 레코드 저장소 목 (전달된 컨텍스트 기록)
type mockJobStore struct {
	createCtx context.Context
	createErr error
	job       *model.GenerationJob
	fetchErr  error
}

func (m *mockJobStore) CreateGenerationJob(ctx context.Context, jobID string, inputData map[string]interface{}, totalItems int) error {
	m.createCtx = ctx
	return m.createErr
}

func (m *mockJobStore) FetchGenerationJob(jobID string) (*model.GenerationJob, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.job, nil
}

// mockJobQueue - Job 큐 목 (전달된 컨텍스트 기록)
type mockJobQueue struct {
	enqueueCtx context.Context
	jobIDs     []string
	err        error
}

func (m *mockJobQueue) Enqueue(ctx context.Context, jobID string) error {
	m.enqueueCtx = ctx
	if m.err != nil {
		return m.err
	}
	m.jobIDs = append(m.jobIDs, jobID)
	return nil
}

func submitBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(GenerationRequest{
		Mode:    ModeTextToImage,
		Prompts: []string{"hello"},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandleSubmit(t *testing.T) {
	t.Run("accepted job is recorded and enqueued with the request context", func(t *testing.T) {
		store := &mockJobStore{}
		queue := &mockJobQueue{}
		h := &Handler{store: store, queue: queue}

		req := httptest.NewRequest("POST", "/api/generate/submit", submitBody(t))
		req = req.WithContext(context.WithValue(req.Context(), ctxKey("req"), "r-1"))
		rec := httptest.NewRecorder()

		h.handleSubmit(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["jobId"])
		assert.Equal(t, "pending", resp["status"])

		// 레코드 생성과 큐 적재가 같은 요청 컨텍스트를 사용해야 함
		require.NotNil(t, store.createCtx)
		require.NotNil(t, queue.enqueueCtx)
		assert.Equal(t, "r-1", store.createCtx.Value(ctxKey("req")))
		assert.Equal(t, "r-1", queue.enqueueCtx.Value(ctxKey("req")))

		require.Len(t, queue.jobIDs, 1)
		assert.Equal(t, resp["jobId"], queue.jobIDs[0])
	})

	t.Run("invalid request is rejected before touching store or queue", func(t *testing.T) {
		store := &mockJobStore{}
		queue := &mockJobQueue{}
		h := &Handler{store: store, queue: queue}

		body := bytes.NewBufferString(`{"mode":"video"}`)
		rec := httptest.NewRecorder()
		h.handleSubmit(rec, httptest.NewRequest("POST", "/api/generate/submit", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, store.createCtx)
		assert.Nil(t, queue.enqueueCtx)
	})

	t.Run("missing queue returns service unavailable", func(t *testing.T) {
		h := &Handler{store: &mockJobStore{}}

		rec := httptest.NewRecorder()
		h.handleSubmit(rec, httptest.NewRequest("POST", "/api/generate/submit", submitBody(t)))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("enqueue failure returns server error", func(t *testing.T) {
		h := &Handler{
			store: &mockJobStore{},
			queue: &mockJobQueue{err: fmt.Errorf("queue down")},
		}

		rec := httptest.NewRecorder()
		h.handleSubmit(rec, httptest.NewRequest("POST", "/api/generate/submit", submitBody(t)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleStatus(t *testing.T) {
	newRouter := func(h *Handler) *mux.Router {
		router := mux.NewRouter()
		router.HandleFunc("/api/generate/status/{jobId}", h.handleStatus).Methods("GET")
		return router
	}

	t.Run("returns the job record", func(t *testing.T) {
		h := &Handler{store: &mockJobStore{
			job: &model.GenerationJob{JobID: "job-1", JobStatus: model.StatusProcessing, TotalItems: 3},
		}}

		rec := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rec, httptest.NewRequest("GET", "/api/generate/status/job-1", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var job model.GenerationJob
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
		assert.Equal(t, "job-1", job.JobID)
		assert.Equal(t, model.StatusProcessing, job.JobStatus)
	})

	t.Run("unknown job returns not found", func(t *testing.T) {
		h := &Handler{store: &mockJobStore{fetchErr: fmt.Errorf("job not found")}}

		rec := httptest.NewRecorder()
		newRouter(h).ServeHTTP(rec, httptest.NewRequest("GET", "/api/generate/status/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
