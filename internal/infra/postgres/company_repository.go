package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/company"
)

// CompanyRepository は company テーブルから会社データを読み出す
type CompanyRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewCompanyRepository は新しい CompanyRepository を返す
func NewCompanyRepository(db DBTX, logger *slog.Logger) *CompanyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyRepository{db: db, logger: logger}
}

var _ company.Store = (*CompanyRepository)(nil)

// Get は会社名でスナップショットを取得する
// 文書全体が壊れている場合は欠落として扱う
func (r *CompanyRepository) Get(ctx context.Context, name string) (mo.Option[company.Snapshot], error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM company WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[company.Snapshot](), nil
		}
		return mo.None[company.Snapshot](), fmt.Errorf("failed to get company %s: %w", name, err)
	}

	snapshot, err := company.DecodeSnapshot(data)
	if err != nil {
		r.logger.Warn("malformed company document", "company", name, "error", err)
		return mo.None[company.Snapshot](), nil
	}
	return mo.Some(snapshot), nil
}

// Upsert は会社データを保存する
func (r *CompanyRepository) Upsert(ctx context.Context, name string, data []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO company (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data`, name, data)
	if err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", name, err)
	}
	return nil
}
