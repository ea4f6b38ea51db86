package generate

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jiseom/mojilab/modules/common/model"
	"github.com/jiseom/mojilab/modules/progress"
)

// JobQueueKey - 비동기 생성 Job 큐 (Redis 리스트)
const JobQueueKey = "moji:jobs"

// Worker - 비동기 생성 Job 워커
// Redis 큐에서 Job ID를 꺼내 배치를 처리하고 진행 상황을 DB와 WebSocket 허브에 전파함.
type Worker struct {
	service *Service
	redis   *redis.Client
	hub     *progress.Hub
}

// NewWorker - 워커 생성
func NewWorker(service *Service, redisClient *redis.Client, hub *progress.Hub) *Worker {
	return &Worker{
		service: service,
		redis:   redisClient,
		hub:     hub,
	}
}

// Start - 워커 루프 시작 (블로킹, 고루틴에서 호출)
func (w *Worker) Start(ctx context.Context) {
	log.Println("🚀 [Worker] Generation worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("🔌 [Worker] Generation worker stopped")
			return
		default:
		}

		// BRPOP으로 Job 대기 (5초 타임아웃으로 종료 신호 체크)
		result, err := w.redis.BRPop(ctx, 5*time.Second, JobQueueKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue // 큐 비어있음
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("❌ [Worker] Queue read error: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		w.processJob(ctx, result[1])
	}
}

// processJob - Job 하나 처리
func (w *Worker) processJob(ctx context.Context, jobID string) {
	log.Printf("🏁 [Worker] Processing job: %s", jobID)

	job, err := w.service.DB().FetchGenerationJob(jobID)
	if err != nil {
		log.Printf("❌ [Worker] Failed to fetch job %s: %v", jobID, err)
		return
	}

	// 입력 데이터를 요청으로 복원
	var req GenerationRequest
	rawInput, err := json.Marshal(job.JobInputData)
	if err == nil {
		err = json.Unmarshal(rawInput, &req)
	}
	if err != nil {
		log.Printf("❌ [Worker] Invalid input data for job %s: %v", jobID, err)
		w.failJob(ctx, jobID, "invalid job input data")
		return
	}

	if err := w.service.DB().UpdateJobStatus(ctx, jobID, model.StatusProcessing); err != nil {
		log.Printf("⚠️ [Worker] Failed to mark job %s processing: %v", jobID, err)
	}

	total := req.ItemCount()
	completed := 0
	failed := 0

	// 아이템 완료마다 진행 상황을 DB와 WebSocket으로 전파
	notify := func(res ItemResult) {
		if res.Success {
			completed++
		} else {
			failed++
		}

		if err := w.service.DB().UpdateJobProgress(ctx, jobID, completed, failed); err != nil {
			log.Printf("⚠️ [Worker] Failed to update progress for job %s: %v", jobID, err)
		}

		w.hub.Publish(progress.Event{
			JobID:     jobID,
			Index:     res.Index,
			Success:   res.Success,
			Error:     res.Error,
			Completed: completed + failed,
			Total:     total,
		})
	}

	result, err := w.service.ProcessBatch(ctx, &req, notify)
	if err != nil {
		log.Printf("❌ [Worker] Job %s rejected: %v", jobID, err)
		w.failJob(ctx, jobID, err.Error())
		return
	}

	// 결과 기록
	setID := ""
	if result.SetID != nil {
		setID = *result.SetID
	}
	if err := w.service.DB().SetJobResult(ctx, jobID, setID, ""); err != nil {
		log.Printf("⚠️ [Worker] Failed to record result for job %s: %v", jobID, err)
	}

	finalStatus := model.StatusCompleted
	if result.SuccessCount == 0 {
		finalStatus = model.StatusFailed
	}
	if err := w.service.DB().UpdateJobStatus(ctx, jobID, finalStatus); err != nil {
		log.Printf("⚠️ [Worker] Failed to finalize job %s: %v", jobID, err)
	}

	log.Printf("✅ [Worker] Job %s finished: %d succeeded, %d failed", jobID, result.SuccessCount, result.FailureCount)
}

// failJob - Job을 실패 상태로 기록
func (w *Worker) failJob(ctx context.Context, jobID string, message string) {
	if err := w.service.DB().SetJobResult(ctx, jobID, "", message); err != nil {
		log.Printf("⚠️ [Worker] Failed to record error for job %s: %v", jobID, err)
	}
	if err := w.service.DB().UpdateJobStatus(ctx, jobID, model.StatusFailed); err != nil {
		log.Printf("⚠️ [Worker] Failed to mark job %s failed: %v", jobID, err)
	}
}
