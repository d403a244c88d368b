package tagging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

const (
	// DefaultMaxInputTokens は text-embedding-3 系の入力上限
	DefaultMaxInputTokens = 8191
	// DefaultChunkRunes は上限超過時に分割する文字数
	DefaultChunkRunes = 2000
)

// ErrEmptyNarrative はEmbedding対象のテキストが空であることを表す
var ErrEmptyNarrative = errors.New("narrative is empty")

// runeCounter は TokenCounter が無い場合の概算（1文字1トークン）
type runeCounter struct{}

func (runeCounter) CountTokens(text string) int { return utf8.RuneCountInString(text) }

// NarrativeEmbedder は入力上限を超えるテキストを分割してEmbeddingを求める
type NarrativeEmbedder struct {
	service    EmbeddingService
	counter    TokenCounter
	maxTokens  int
	chunkRunes int
	logger     *slog.Logger
}

// EmbedderOption は NarrativeEmbedder の設定オプション
type EmbedderOption func(*NarrativeEmbedder)

// WithTokenCounter はトークン数のカウンタを設定する
func WithTokenCounter(counter TokenCounter) EmbedderOption {
	return func(e *NarrativeEmbedder) {
		if counter != nil {
			e.counter = counter
		}
	}
}

// WithMaxInputTokens は入力トークン上限を設定する
func WithMaxInputTokens(n int) EmbedderOption {
	return func(e *NarrativeEmbedder) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithChunkRunes は分割時の文字数を設定する
func WithChunkRunes(n int) EmbedderOption {
	return func(e *NarrativeEmbedder) {
		if n > 0 {
			e.chunkRunes = n
		}
	}
}

// WithEmbedderLogger はロガーを設定する
func WithEmbedderLogger(logger *slog.Logger) EmbedderOption {
	return func(e *NarrativeEmbedder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewNarrativeEmbedder は新しいNarrativeEmbedderを作成する
func NewNarrativeEmbedder(service EmbeddingService, opts ...EmbedderOption) *NarrativeEmbedder {
	e := &NarrativeEmbedder{
		service:    service,
		counter:    runeCounter{},
		maxTokens:  DefaultMaxInputTokens,
		chunkRunes: DefaultChunkRunes,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed はテキストのEmbeddingを返す
// 上限を超える場合は固定文字数で分割し、各チャンクのベクトルを成分ごとに平均する
func (e *NarrativeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyNarrative
	}

	tokens := e.counter.CountTokens(text)
	if tokens <= e.maxTokens {
		return e.service.Embed(ctx, text)
	}

	chunks := splitRunes(text, e.chunkRunes)
	e.logger.Info("narrative exceeds embedding input limit, averaging chunks",
		"tokens", tokens,
		"limit", e.maxTokens,
		"chunks", len(chunks))

	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		v, err := e.service.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		vectors = append(vectors, v)
	}
	return averageVectors(vectors)
}

// splitRunes はテキストを size 文字ごとに分割する
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func averageVectors(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to average")
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("dimension mismatch at chunk %d: got %d, want %d", i, len(v), dim)
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
	}

	avg := make([]float32, dim)
	n := float64(len(vectors))
	for j := range sum {
		avg[j] = float32(sum[j] / n)
	}
	return avg, nil
}
