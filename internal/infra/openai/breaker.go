package openai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen は連続失敗によりAPI呼び出しを遮断していることを表す
var ErrCircuitOpen = errors.New("openai circuit breaker is open")

// BreakerConfig はサーキットブレーカーの設定
type BreakerConfig struct {
	// MaxFailures は遮断するまでの連続失敗回数
	MaxFailures uint32
	// Timeout は遮断状態から半開状態へ移るまでの時間
	Timeout time.Duration
	// HalfOpenMaxRequests は半開状態で通す要求数
	HalfOpenMaxRequests uint32
}

// DefaultBreakerConfig は既定のブレーカー設定を返す
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:         3,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// breaker は1回だけ呼び出し、連続失敗時は即座に失敗させる（リトライはしない）
type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
		// キャンセルは呼び出し側の都合なので失敗として数えない
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breaker) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}

func (b *breaker) state() gobreaker.State {
	return b.cb.State()
}
