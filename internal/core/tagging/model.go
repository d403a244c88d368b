// Package tagging は類似タレントのタグ再利用と新規タグ生成を行うパイプラインを提供する
package tagging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// TagRecord は生成されたタグとその根拠
type TagRecord struct {
	Tag    string `json:"tag"`
	Reason string `json:"reason"`
}

// StoredTalent は保存済みのタレント
type StoredTalent struct {
	ID        uuid.UUID
	AnonName  string
	Narrative string
	Tags      []TagRecord
	Embedding []float32
	CreatedAt time.Time
}

// Match は最近傍の保存済みタレント
type Match struct {
	ID         uuid.UUID
	Similarity float64 // 1 - コサイン距離
}

// GenerationService はテキスト生成サービスのインターフェース
type GenerationService interface {
	// Complete はプロンプトに対する生成結果を返す（1回のみ呼び出し、リトライしない）
	Complete(ctx context.Context, prompt string) (string, error)
}

// EmbeddingService はテキストのEmbedding生成インターフェース
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TokenCounter はテキストのトークン数をカウントする
type TokenCounter interface {
	CountTokens(text string) int
}

// SimilarityFinder は最近傍検索のインターフェース
type SimilarityFinder interface {
	// NearestBySimilarity は最も類似した保存済みタレントを返す。保存が空なら None
	NearestBySimilarity(ctx context.Context, embedding []float32) (mo.Option[Match], error)
}

// TalentStore はタレントの永続化インターフェース
type TalentStore interface {
	SimilarityFinder

	// InsertIfAbsent は匿名名が未登録の場合のみ保存する。登録済みなら false を返し、エラーにはしない
	InsertIfAbsent(ctx context.Context, anonName, narrative string, tags []TagRecord, embedding []float32) (bool, error)

	// GetTagsByID は保存済みタレントのタグ文字列を返す
	GetTagsByID(ctx context.Context, id uuid.UUID) ([]string, error)
}
