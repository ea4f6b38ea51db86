package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jiseom/mojilab/modules/common/config"
	commonredis "github.com/jiseom/mojilab/modules/common/redis"
	"github.com/jiseom/mojilab/modules/generate"
	"github.com/jiseom/mojilab/modules/progress"
)

func main() {
	log.Println("🚀 Starting mojilab server...")

	// 1. 설정 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 생성 서비스 초기화
	service := generate.NewService(ctx)
	if service == nil {
		log.Fatal("❌ Failed to initialize generation service")
	}

	// 3. Redis 연결 (비동기 Job 큐용, 실패해도 동기 API는 동작)
	redisClient := commonredis.Connect(cfg)
	if redisClient == nil {
		log.Println("⚠️ Redis unavailable, async job processing disabled")
	}

	// 4. 진행 이벤트 허브 + 워커
	hub := progress.NewHub()
	if redisClient != nil {
		worker := generate.NewWorker(service, redisClient, hub)
		go worker.Start(ctx)
	}

	// 5. 라우터 구성
	router := mux.NewRouter()
	router.Use(enableCORS)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/ws/progress", hub.HandleWS).Methods("GET")

	handler := generate.NewHandler(service, redisClient)
	handler.RegisterRoutes(router)

	// 6. 서버 시작
	log.Printf("✅ Server listening on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// enableCORS - CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthCheck - 헬스체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "mojilab",
	})
}
