// Package container は設定からタグ付けパイプラインの依存関係を組み立てる
package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/jinford/talent-tagger/internal/core/company"
	"github.com/jinford/talent-tagger/internal/core/narrative"
	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/profile"
	"github.com/jinford/talent-tagger/internal/core/tagging"
	"github.com/jinford/talent-tagger/internal/infra/memory"
	"github.com/jinford/talent-tagger/internal/infra/openai"
	"github.com/jinford/talent-tagger/internal/infra/postgres"
	"github.com/jinford/talent-tagger/internal/infra/tokenizer"
	"github.com/jinford/talent-tagger/internal/platform/config"
	"github.com/jinford/talent-tagger/internal/platform/database"
	"github.com/jinford/talent-tagger/internal/platform/metrics"
)

// ServiceContainer はタグ付けパイプラインの依存関係を保持する
type ServiceContainer struct {
	TagService *tagging.Service
	Metrics    *metrics.Manager

	Companies company.Store
	News      news.Store
	Talents   tagging.TalentStore

	cfg      *config.Config
	logger   *slog.Logger
	database *database.DB
}

type containerOptions struct {
	logger       *slog.Logger
	generator    tagging.GenerationService
	embedder     tagging.EmbeddingService
	tokenCounter tagging.TokenCounter
	database     *database.DB
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerGenerator は生成サービスを差し替える
func WithContainerGenerator(generator tagging.GenerationService) ContainerOption {
	return func(opts *containerOptions) {
		opts.generator = generator
	}
}

// WithContainerEmbedder はカスタム Embedder を注入する
func WithContainerEmbedder(embedder tagging.EmbeddingService) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerTokenCounter は TokenCounter を差し替える
func WithContainerTokenCounter(counter tagging.TokenCounter) ContainerOption {
	return func(opts *containerOptions) {
		opts.tokenCounter = counter
	}
}

// WithContainerDatabase は既存の接続を使う（postgres バックエンドのみ）
func WithContainerDatabase(db *database.DB) ContainerOption {
	return func(opts *containerOptions) {
		opts.database = db
	}
}

// NewContainer は設定からコンテナを生成する
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	c := &ServiceContainer{
		Metrics: metrics.NewManager(metrics.WithRuntimeCollectors()),
		cfg:     cfg,
		logger:  options.logger,
	}

	if err := c.initStores(ctx, options); err != nil {
		return nil, err
	}

	generator := options.generator
	if generator == nil {
		client, err := openai.NewClient(
			cfg.OpenAI.APIKey,
			openai.WithModel(cfg.OpenAI.LLMModel),
			openai.WithTemperature(cfg.OpenAI.Temperature),
			openai.WithClientLogger(options.logger),
		)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("OpenAI クライアント初期化に失敗しました: %w", err)
		}
		generator = client
	}

	embedder := options.embedder
	maxTokens := cfg.OpenAI.EmbeddingMaxTokens
	if embedder == nil {
		openaiEmbedder := openai.NewEmbedder(
			cfg.OpenAI.APIKey,
			openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
			openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
			openai.WithEmbeddingMaxTokens(maxTokens),
			openai.WithEmbedderLogger(options.logger),
		)
		maxTokens = openaiEmbedder.MaxInputTokens()
		embedder = openaiEmbedder
	}

	counter := options.tokenCounter
	if counter == nil {
		tc, err := openai.NewTokenCounter(cfg.OpenAI.EmbeddingModel)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("TokenCounter 初期化に失敗しました: %w", err)
		}
		counter = tc
	}

	aliases := profile.DefaultAliasTable().Merge(profile.AliasTable{
		Exact:  cfg.Company.Aliases,
		Folded: cfg.Company.FoldedAliases,
	})
	parser := profile.NewParser(
		profile.WithAliasTable(aliases),
		profile.WithParserLogger(options.logger),
	)

	companyIDs := news.DefaultCompanyIDs()
	maps.Copy(companyIDs, cfg.Company.NewsIDs)

	ranker := news.NewRanker(
		tokenizer.New(),
		news.WithTFIDFTopK(cfg.Pipeline.NewsTFIDFTopK),
		news.WithTopK(cfg.Pipeline.NewsTopK),
		news.WithRankerLogger(options.logger),
	)
	summarizer := narrative.NewSummarizer(
		c.Companies,
		news.NewFinder(c.News, companyIDs),
		ranker,
		narrative.WithConcurrency(cfg.Pipeline.PositionConcurrency),
		narrative.WithSummarizerLogger(options.logger),
	)

	narrativeEmbedder := tagging.NewNarrativeEmbedder(
		embedder,
		tagging.WithTokenCounter(counter),
		tagging.WithMaxInputTokens(maxTokens),
		tagging.WithChunkRunes(cfg.Pipeline.EmbeddingChunkRunes),
		tagging.WithEmbedderLogger(options.logger),
	)

	c.TagService = tagging.NewService(
		parser,
		summarizer,
		narrativeEmbedder,
		generator,
		c.Talents,
		tagging.WithServiceLogger(options.logger),
		tagging.WithRecorder(c.Metrics),
	)

	return c, nil
}

func (c *ServiceContainer) initStores(ctx context.Context, options containerOptions) error {
	switch c.cfg.Store.Backend {
	case config.BackendMemory:
		return c.initMemoryStores()
	default:
		db := options.database
		if db == nil {
			var err error
			db, err = database.Connect(ctx, database.ConnectionParams{
				Host:     c.cfg.Database.Host,
				Port:     c.cfg.Database.Port,
				User:     c.cfg.Database.User,
				Password: c.cfg.Database.Password,
				DBName:   c.cfg.Database.DBName,
				SSLMode:  c.cfg.Database.SSLMode,
			})
			if err != nil {
				return fmt.Errorf("データベース初期化に失敗しました: %w", err)
			}
		}
		c.database = db
		c.Companies = postgres.NewCompanyRepository(db.Pool, c.logger)
		c.News = postgres.NewNewsRepository(db.Pool)
		c.Talents = postgres.NewTalentRepository(db.Pool)
		return nil
	}
}

func (c *ServiceContainer) initMemoryStores() error {
	companies := memory.NewCompanyStore()
	newsStore := memory.NewNewsStore()

	if dir := c.cfg.Store.MemoryDataDir; dir != "" {
		n, err := companies.LoadDir(filepath.Join(dir, "companies"))
		if err != nil {
			return fmt.Errorf("会社データの読み込みに失敗しました: %w", err)
		}
		m, err := newsStore.LoadFile(filepath.Join(dir, "news.json"))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("ニュースデータの読み込みに失敗しました: %w", err)
		}
		c.logger.Info("loaded memory fixtures", "dir", dir, "companies", n, "news", m)
	}

	c.Companies = companies
	c.News = newsStore
	c.Talents = memory.NewTalentStore()
	return nil
}

// Close は内部リソースを解放する
func (c *ServiceContainer) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Config は設定を返す
func (c *ServiceContainer) Config() *config.Config {
	return c.cfg
}

// Logger はロガーを返す
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返す（memory バックエンドでは nil）
func (c *ServiceContainer) Database() *database.DB {
	if c == nil {
		return nil
	}
	return c.database
}
