package model

import "time"

// GenerationJob - moji_generation_jobs 테이블 구조
type GenerationJob struct {
	JobID          string                 `json:"job_id"`
	JobStatus      string                 `json:"job_status"` // pending, processing, completed, failed
	TotalItems     int                    `json:"total_items"`
	CompletedItems int                    `json:"completed_items"`
	FailedItems    int                    `json:"failed_items"`
	JobInputData   map[string]interface{} `json:"job_input_data"`
	StickerSetID   *string                `json:"sticker_set_id"`
	ErrorMessage   *string                `json:"error_message"`
	CreatedAt      time.Time              `json:"created_at"`
	StartedAt      *time.Time             `json:"started_at"`
	CompletedAt    *time.Time             `json:"completed_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// StickerSet - moji_sticker_sets 테이블 구조 (배치 단위 집계 레코드)
type StickerSet struct {
	SetID        string    `json:"set_id"`
	MemberID     string    `json:"member_id"`
	Character    string    `json:"character"`
	Theme        *string   `json:"theme"`
	Style        *string   `json:"style"`
	Method       string    `json:"method"` // text-to-image, image-to-image
	Monochrome   bool      `json:"monochrome"`
	TotalItems   int       `json:"total_items"`
	SuccessCount int       `json:"success_count"`
	Categories   []string  `json:"categories"`
	CreatedAt    time.Time `json:"created_at"`
}

// StickerSetInsert - 스티커 세트 생성 파라미터
type StickerSetInsert struct {
	MemberID     string
	Character    string
	Theme        string
	Style        string
	Method       string
	Monochrome   bool
	TotalItems   int
	SuccessCount int
	Categories   []string
}

// Sticker - moji_stickers 테이블 구조 (세트의 자식 레코드)
type Sticker struct {
	StickerID int64     `json:"sticker_id"`
	SetID     string    `json:"set_id"`
	Seq       int       `json:"seq"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// StickerInsert - 스티커 메타데이터 벌크 인서트 행
type StickerInsert struct {
	SetID     string `json:"set_id"`
	Seq       int    `json:"seq"`
	Title     string `json:"title"`
	Prompt    string `json:"prompt"`
	ImagePath string `json:"image_path"`
}

// Job Status Constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
