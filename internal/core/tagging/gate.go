package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// DefaultThreshold は類似判定の既定しきい値
const DefaultThreshold = 0.85

// Decision は類似判定の結果
type Decision struct {
	Matched bool
	ID      uuid.UUID
	// Similarity は最近傍との類似度。保存が空なら0
	Similarity float64
}

// SimilarityGate は最近傍の類似度でタグの再利用可否を判定する
type SimilarityGate struct {
	finder SimilarityFinder
	logger *slog.Logger
}

// GateOption は SimilarityGate の設定オプション
type GateOption func(*SimilarityGate)

// WithGateLogger はロガーを設定する
func WithGateLogger(logger *slog.Logger) GateOption {
	return func(g *SimilarityGate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewSimilarityGate は新しいSimilarityGateを作成する
func NewSimilarityGate(finder SimilarityFinder, opts ...GateOption) *SimilarityGate {
	g := &SimilarityGate{
		finder: finder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide は最近傍の類似度がしきい値以上なら Matched を返す
func (g *SimilarityGate) Decide(ctx context.Context, embedding []float32, threshold float64) (Decision, error) {
	if len(embedding) == 0 {
		return Decision{}, fmt.Errorf("embedding is empty")
	}

	best, err := g.finder.NearestBySimilarity(ctx, embedding)
	if err != nil {
		return Decision{}, fmt.Errorf("nearest neighbour search failed: %w", err)
	}

	m, ok := best.Get()
	if !ok {
		g.logger.Info("no stored talent to compare")
		return Decision{}, nil
	}

	d := Decision{ID: m.ID, Similarity: m.Similarity, Matched: m.Similarity >= threshold}
	g.logger.Info("similarity gate decided",
		"matched", d.Matched,
		"similarity", d.Similarity,
		"threshold", threshold,
		"id", m.ID.String())
	return d, nil
}

// CosineSimilarity は2つのベクトルのコサイン類似度を返す
// 次元が異なる場合やゼロベクトルの場合は0を返す
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
