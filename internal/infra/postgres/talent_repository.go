package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// ErrTalentNotFound は指定IDのタレントが存在しないことを表す
var ErrTalentNotFound = errors.New("talent not found")

// TalentRepository は tagging.TalentStore を実装する PostgreSQL リポジトリ
type TalentRepository struct {
	db DBTX
}

// NewTalentRepository は新しい TalentRepository を返す
func NewTalentRepository(db DBTX) *TalentRepository {
	return &TalentRepository{db: db}
}

var _ tagging.TalentStore = (*TalentRepository)(nil)

// InsertIfAbsent は name の一意制約で重複を防ぐ。既存なら false を返す
func (r *TalentRepository) InsertIfAbsent(ctx context.Context, anonName, narrative string, tags []tagging.TagRecord, embedding []float32) (bool, error) {
	tagsJSON, err := JSONBFromTags(tags)
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO talent (name, profile, tags, embedding)
		VALUES ($1, $2, $3, $4::vector)
		ON CONFLICT (name) DO NOTHING`,
		anonName, narrative, tagsJSON, pgvector.NewVector(embedding))
	if err != nil {
		return false, fmt.Errorf("failed to insert talent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// NearestBySimilarity はコサイン距離が最小のタレントを返す（同距離はID順）
func (r *TalentRepository) NearestBySimilarity(ctx context.Context, embedding []float32) (mo.Option[tagging.Match], error) {
	var (
		id         pgtype.UUID
		similarity float64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, 1 - (embedding <=> $1::vector) AS similarity
		FROM talent
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector, id
		LIMIT 1`, pgvector.NewVector(embedding)).Scan(&id, &similarity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[tagging.Match](), nil
		}
		return mo.None[tagging.Match](), fmt.Errorf("failed to search nearest talent: %w", err)
	}
	return mo.Some(tagging.Match{ID: PgtypeToUUID(id), Similarity: similarity}), nil
}

// GetTagsByID は保存済みタレントのタグ文字列を返す
func (r *TalentRepository) GetTagsByID(ctx context.Context, id uuid.UUID) ([]string, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT tags FROM talent WHERE id = $1`, UUIDToPgtype(id)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTalentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get talent tags: %w", err)
	}

	tags, err := TagsFromJSONB(raw)
	if err != nil {
		return nil, err
	}
	return tagging.TagNames(tags), nil
}

// CountByName は匿名名で保存件数を返す
func (r *TalentRepository) CountByName(ctx context.Context, anonName string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM talent WHERE name = $1`, anonName).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count talent: %w", err)
	}
	return n, nil
}
