// Package httpapi はプロフィールファイルを受け付けてタグを返す HTTP API を提供する
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// DefaultMaxUploadBytes はアップロードされるプロフィールファイルの上限
const DefaultMaxUploadBytes = 5 << 20

// TalentProcessor はタグ付けパイプラインのインターフェース
type TalentProcessor interface {
	ProcessTalent(ctx context.Context, raw []byte, threshold float64) (*tagging.Result, error)
}

// MetricsExporter は HTTP メトリクスの記録と公開を行う
type MetricsExporter interface {
	ObserveHTTP(route string, code int, d time.Duration)
	Handler() http.Handler
}

// Server は HTTP API サーバー
type Server struct {
	processor        TalentProcessor
	metrics          MetricsExporter
	defaultThreshold float64
	maxUploadBytes   int64
	shutdownTimeout  time.Duration
	logger           *slog.Logger
}

// ServerOption は Server の設定を行う
type ServerOption func(*Server)

// WithServerLogger はロガーを設定する
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultThreshold はフォームで指定されない場合の類似度しきい値を設定する
func WithDefaultThreshold(threshold float64) ServerOption {
	return func(s *Server) {
		s.defaultThreshold = threshold
	}
}

// WithMaxUploadBytes はアップロード上限を設定する
func WithMaxUploadBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithShutdownTimeout はグレースフルシャットダウンの待ち時間を設定する
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// NewServer は新しい Server を作成する
func NewServer(processor TalentProcessor, metrics MetricsExporter, opts ...ServerOption) *Server {
	s := &Server{
		processor:        processor,
		metrics:          metrics,
		defaultThreshold: tagging.DefaultThreshold,
		maxUploadBytes:   DefaultMaxUploadBytes,
		shutdownTimeout:  30 * time.Second,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/talent", s.instrument("/api/talent", http.HandlerFunc(s.handleTalent)))
	mux.Handle("GET /healthz", s.instrument("/healthz", http.HandlerFunc(s.handleHealth)))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.withRequestID(mux)
}

// Run は addr で待ち受け、ctx の終了でグレースフルシャットダウンする
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
