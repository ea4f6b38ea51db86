package generate

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer - 합성 API 호출 간격 제한기
// 외부 합성 서비스의 레이트 리밋을 넘지 않도록 호출 사이에 최소 간격을 보장함.
// now/sleep을 주입할 수 있어 테스트에서 실제 대기 없이 검증 가능.
type Pacer struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewPacer - 호출 간 최소 간격으로 Pacer 생성
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Wait - 다음 호출이 허용될 때까지 대기. 첫 호출은 즉시 통과함.
func (p *Pacer) Wait(ctx context.Context) error {
	now := p.now()
	reservation := p.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	if err := p.sleep(ctx, delay); err != nil {
		reservation.CancelAt(now)
		return err
	}
	return nil
}

// sleepContext - 컨텍스트 취소를 존중하는 sleep
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
