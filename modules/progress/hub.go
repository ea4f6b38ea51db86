package progress

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event - 배치 진행 이벤트 (아이템 완료마다 발행)
type Event struct {
	JobID     string `json:"jobId"`
	Index     int    `json:"index"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Hub - Job별 진행 이벤트 구독 허브
// Job ID로 구독한 WebSocket 클라이언트에게 이벤트를 중계함.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub - 허브 생성
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe - Job 이벤트 구독 채널 생성
func (h *Hub) Subscribe(jobID string) chan Event {
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[jobID] == nil {
		h.subscribers[jobID] = make(map[chan Event]struct{})
	}
	h.subscribers[jobID][ch] = struct{}{}

	log.Printf("🔌 [Progress] Subscriber added for job: %s", jobID)
	return ch
}

// Unsubscribe - 구독 해제
func (h *Hub) Unsubscribe(jobID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[jobID]; ok {
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, jobID)
		}
	}
}

// Publish - Job 구독자 전원에게 이벤트 발행
// 느린 구독자의 버퍼가 가득 차면 해당 이벤트는 버림 (워커를 막지 않음).
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.JobID] {
		select {
		case ch <- event:
		default:
			log.Printf("⚠️ [Progress] Subscriber buffer full, dropping event for job %s", event.JobID)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 개발 환경: 모든 origin 허용
	},
}

// HandleWS - WebSocket 진행 구독 엔드포인트 (GET /ws/progress?job=<jobId>)
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "job query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Progress] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := h.Subscribe(jobID)
	defer h.Unsubscribe(jobID, ch)

	// 읽기 루프: 클라이언트 종료 감지용
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			log.Printf("🔌 [Progress] Subscriber disconnected for job: %s", jobID)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("❌ [Progress] Failed to send event: %v", err)
				return
			}
		}
	}
}
