// Package logger は slog ベースのアプリケーションロガーを構築する
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config はロガーの設定
type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
	// Dir が空でなければ <Dir>/log_YYYYMMDD.log にも書き出す
	Dir string
	// Output は標準の出力先（未指定なら os.Stdout）
	Output io.Writer
	// Now はログファイル名の日付に使う（未指定なら time.Now）
	Now func() time.Time
}

// DefaultConfig はデフォルトのロガー設定
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "json",
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New は新しいロガーを作成し、デフォルトロガーとして設定します
// 返却される io.Closer はログファイルを閉じる（ファイル出力なしの場合は何もしない）
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	if cfg.Dir != "" {
		f, err := openDailyFile(cfg.Dir, cfg.Now)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(out, f)
		closer = f
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default: // "json"
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// FileName は日付ごとのログファイル名を返す
func FileName(t time.Time) string {
	return "log_" + t.Format("20060102") + ".log"
}

func openDailyFile(dir string, now func() time.Time) (*os.File, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
