package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"github.com/jiseom/mojilab/modules/common/config"
	"github.com/jiseom/mojilab/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// CreateStickerSet - moji_sticker_sets 테이블에 집계 레코드 생성, 생성된 set_id 반환
func (c *Client) CreateStickerSet(ctx context.Context, set model.StickerSetInsert) (string, error) {
	log.Printf("💾 Creating sticker set for member: %s", set.MemberID)

	insertData := map[string]interface{}{
		"member_id":     set.MemberID,
		"character":     set.Character,
		"theme":         set.Theme,
		"style":         set.Style,
		"method":        set.Method,
		"monochrome":    set.Monochrome,
		"total_items":   set.TotalItems,
		"success_count": set.SuccessCount,
		"categories":    set.Categories,
	}

	data, _, err := c.supabase.From("moji_sticker_sets").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return "", fmt.Errorf("failed to insert sticker set: %w", err)
	}

	// set_id 추출
	var sets []model.StickerSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return "", fmt.Errorf("failed to parse sticker set response: %w", err)
	}

	if len(sets) == 0 {
		return "", fmt.Errorf("no sticker set record returned")
	}

	setID := sets[0].SetID
	log.Printf("✅ Sticker set created: ID=%s", setID)

	return setID, nil
}

// BulkInsertStickers - moji_stickers 테이블에 자식 레코드 일괄 생성
func (c *Client) BulkInsertStickers(ctx context.Context, stickers []model.StickerInsert) error {
	log.Printf("💾 Bulk inserting %d sticker records", len(stickers))

	_, _, err := c.supabase.From("moji_stickers").
		Insert(stickers, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to bulk insert stickers: %w", err)
	}

	log.Printf("✅ %d sticker records inserted", len(stickers))
	return nil
}

// CreateGenerationJob - moji_generation_jobs 테이블에 Job 레코드 생성
func (c *Client) CreateGenerationJob(ctx context.Context, jobID string, inputData map[string]interface{}, totalItems int) error {
	log.Printf("💾 Creating generation job: %s (%d items)", jobID, totalItems)

	insertData := map[string]interface{}{
		"job_id":          jobID,
		"job_status":      model.StatusPending,
		"total_items":     totalItems,
		"completed_items": 0,
		"failed_items":    0,
		"job_input_data":  inputData,
	}

	_, _, err := c.supabase.From("moji_generation_jobs").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert generation job: %w", err)
	}

	log.Printf("✅ Generation job created: %s", jobID)
	return nil
}

// FetchGenerationJob - Job 데이터 조회
func (c *Client) FetchGenerationJob(jobID string) (*model.GenerationJob, error) {
	log.Printf("🔍 Fetching generation job: %s", jobID)

	var jobs []model.GenerationJob

	data, _, err := c.supabase.From("moji_generation_jobs").
		Select("*", "exact", false).
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query generation job: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse job response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	job := &jobs[0]
	log.Printf("✅ Job fetched: %s (status: %s, total_items: %d)",
		job.JobID, job.JobStatus, job.TotalItems)

	return job, nil
}

// UpdateJobStatus - Job 상태 업데이트
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status string) error {
	log.Printf("📝 Updating job %s status to: %s", jobID, status)

	updateData := map[string]interface{}{
		"job_status": status,
		"updated_at": "now()",
	}

	if status == model.StatusProcessing {
		updateData["started_at"] = "now()"
	} else if status == model.StatusCompleted || status == model.StatusFailed {
		updateData["completed_at"] = "now()"
	}

	_, _, err := c.supabase.From("moji_generation_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return nil
}

// UpdateJobProgress - Job 진행 상황 업데이트
func (c *Client) UpdateJobProgress(ctx context.Context, jobID string, completed int, failed int) error {
	updateData := map[string]interface{}{
		"completed_items": completed,
		"failed_items":    failed,
		"updated_at":      "now()",
	}

	_, _, err := c.supabase.From("moji_generation_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	return nil
}

// SetJobResult - 완료된 Job에 결과 기록 (세트 ID 또는 에러 메시지)
func (c *Client) SetJobResult(ctx context.Context, jobID string, setID string, errorMessage string) error {
	updateData := map[string]interface{}{
		"updated_at": "now()",
	}
	if setID != "" {
		updateData["sticker_set_id"] = setID
	}
	if errorMessage != "" {
		updateData["error_message"] = errorMessage
	}

	_, _, err := c.supabase.From("moji_generation_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to set job result: %w", err)
	}

	return nil
}
