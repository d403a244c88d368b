package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/urfave/cli/v3"

	"github.com/jinford/talent-tagger/internal/infra/memory"
	"github.com/jinford/talent-tagger/internal/infra/postgres"
	"github.com/jinford/talent-tagger/internal/platform/database"
)

// MigrateAction はデータベーススキーマを作成する
func MigrateAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := loadBase(cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	db, err := appCtx.connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	dim := appCtx.Config.OpenAI.EmbeddingDimension
	if _, err := database.Transact(ctx, db.Pool, func(tx pgx.Tx) (struct{}, error) {
		if err := database.AcquireXactLock(ctx, tx, database.LockID("talent-tagger", "schema")); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, postgres.Migrate(ctx, tx, dim)
	}); err != nil {
		return fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	appCtx.Logger().Info("マイグレーションが完了しました", "embeddingDimension", dim)
	return nil
}

// SeedAction は会社データとニュースのファイルをデータベースに投入する
// ディレクトリ構成は memory バックエンドと同じ（companies/<会社名>.json と news.json）
func SeedAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := loadBase(cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	dir := cmd.String("dir")
	companies, err := memory.ReadCompanyFiles(filepath.Join(dir, "companies"))
	if err != nil {
		return err
	}
	records, err := memory.ReadNewsFile(filepath.Join(dir, "news.json"))
	if err != nil {
		return err
	}

	db, err := appCtx.connectDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = database.Transact(ctx, db.Pool, func(tx pgx.Tx) (struct{}, error) {
		if err := database.AcquireXactLock(ctx, tx, database.LockID("talent-tagger", "seed")); err != nil {
			return struct{}{}, err
		}
		companyRepo := postgres.NewCompanyRepository(tx, appCtx.Logger())
		for _, c := range companies {
			if err := companyRepo.Upsert(ctx, c.Name, c.Data); err != nil {
				return struct{}{}, err
			}
		}
		newsRepo := postgres.NewNewsRepository(tx)
		for _, r := range records {
			if err := newsRepo.Insert(ctx, r.CompanyID, r.Item, r.Link); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("データ投入に失敗: %w", err)
	}

	appCtx.Logger().Info("データ投入が完了しました", "companies", len(companies), "news", len(records))
	return nil
}
