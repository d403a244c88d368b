// Package cli は talent-tagger のサブコマンドを実装する
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jinford/talent-tagger/internal/platform/config"
	"github.com/jinford/talent-tagger/internal/platform/container"
	"github.com/jinford/talent-tagger/internal/platform/database"
	"github.com/jinford/talent-tagger/internal/platform/logger"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Container *container.ServiceContainer

	logger    *slog.Logger
	logCloser io.Closer
}

// loadBase は設定とロガーを初期化する
func loadBase(envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger, closer, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}

	return &AppContext{Config: cfg, logger: appLogger, logCloser: closer}, nil
}

// NewAppContext は設定を読み込み、パイプラインを組み立てて AppContext を作成する
func NewAppContext(ctx context.Context, envFile string, opts ...container.ContainerOption) (*AppContext, error) {
	appCtx, err := loadBase(envFile)
	if err != nil {
		return nil, err
	}

	opts = append([]container.ContainerOption{container.WithContainerLogger(appCtx.logger)}, opts...)
	cont, err := container.NewContainer(ctx, appCtx.Config, opts...)
	if err != nil {
		appCtx.Close()
		return nil, fmt.Errorf("コンテナの初期化に失敗: %w", err)
	}
	appCtx.Container = cont

	return appCtx, nil
}

// connectDatabase は postgres バックエンドの接続を作成する
func (ac *AppContext) connectDatabase(ctx context.Context) (*database.DB, error) {
	if ac.Config.Store.Backend != config.BackendPostgres {
		return nil, fmt.Errorf("STORE_BACKEND=%s ではデータベースを使用しません", ac.Config.Store.Backend)
	}
	db, err := database.Connect(ctx, database.ConnectionParams{
		Host:     ac.Config.Database.Host,
		Port:     ac.Config.Database.Port,
		User:     ac.Config.Database.User,
		Password: ac.Config.Database.Password,
		DBName:   ac.Config.Database.DBName,
		SSLMode:  ac.Config.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	return db, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Container != nil {
		ac.Container.Close()
	}
	if ac.logCloser != nil {
		_ = ac.logCloser.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.logger != nil {
		return ac.logger
	}
	return slog.Default()
}
