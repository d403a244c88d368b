package postgres

import (
	"context"
	"fmt"
)

// SchemaStatements は指定次元のEmbedding列を持つスキーマのDDLを返す
func SchemaStatements(dimension int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS company (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS company_news (
			id SERIAL PRIMARY KEY,
			company_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			original_link TEXT,
			news_date DATE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS company_news_company_date_idx ON company_news (company_id, news_date)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS talent (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL UNIQUE,
			profile TEXT,
			tags JSONB NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, dimension),
	}
}

// Migrate はスキーマを作成する（冪等）
func Migrate(ctx context.Context, db DBTX, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", dimension)
	}
	for _, stmt := range SchemaStatements(dimension) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
