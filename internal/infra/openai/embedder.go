package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// Embedder は OpenAI API を使用してテキストをベクトルに変換する
type Embedder struct {
	client         openai.Client
	model          string
	dimension      int
	maxInputTokens int
	breaker        *breaker
}

const (
	// DefaultEmbeddingModel はモデル未指定時のデフォルトモデル
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultEmbeddingDimension はOpenAI推奨のデフォルト次元
	DefaultEmbeddingDimension = 1536
	// DefaultEmbeddingMaxTokens は1入力あたりのトークン上限
	DefaultEmbeddingMaxTokens = 8191
)

type embedderOptions struct {
	model          string
	dimension      int
	maxInputTokens int
	breaker        BreakerConfig
	logger         *slog.Logger
	requestOpts    []option.RequestOption
}

// EmbedderOption は Embedder のオプション設定
type EmbedderOption func(*embedderOptions)

// WithEmbeddingModel はモデル名を上書きする
func WithEmbeddingModel(model string) EmbedderOption {
	return func(o *embedderOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithEmbeddingDimension はベクトル次元を上書きする
func WithEmbeddingDimension(dimension int) EmbedderOption {
	return func(o *embedderOptions) {
		o.dimension = dimension
	}
}

// WithEmbeddingMaxTokens は入力トークン上限を上書きする
func WithEmbeddingMaxTokens(n int) EmbedderOption {
	return func(o *embedderOptions) {
		if n > 0 {
			o.maxInputTokens = n
		}
	}
}

// WithEmbeddingBreaker はサーキットブレーカーの設定を上書きする
func WithEmbeddingBreaker(cfg BreakerConfig) EmbedderOption {
	return func(o *embedderOptions) {
		o.breaker = cfg
	}
}

// WithEmbedderLogger はロガーを設定する
func WithEmbedderLogger(logger *slog.Logger) EmbedderOption {
	return func(o *embedderOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEmbeddingRequestOptions は openai-go のリクエストオプションを追加する
func WithEmbeddingRequestOptions(opts ...option.RequestOption) EmbedderOption {
	return func(o *embedderOptions) {
		o.requestOpts = append(o.requestOpts, opts...)
	}
}

// NewEmbedder は新しい Embedder を作成する
func NewEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	options := embedderOptions{
		model:          DefaultEmbeddingModel,
		dimension:      DefaultEmbeddingDimension,
		maxInputTokens: DefaultEmbeddingMaxTokens,
		breaker:        DefaultBreakerConfig(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	requestOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, options.requestOpts...)

	return &Embedder{
		client:         openai.NewClient(requestOpts...),
		model:          options.model,
		dimension:      options.dimension,
		maxInputTokens: options.maxInputTokens,
		breaker:        newBreaker("openai-embedding", options.breaker, options.logger),
	}
}

// Embed は単一テキストの Embedding を生成する（1回のみ呼び出す）
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	}
	if e.dimension > 0 {
		params.Dimensions = openai.Int(int64(e.dimension))
	}

	result, err := e.breaker.execute(ctx, func() (interface{}, error) {
		resp, err := e.client.Embeddings.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", describeAPIError(err))
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("no embeddings generated")
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	data := result.(*openai.CreateEmbeddingResponse).Data[0]
	vector := make([]float32, len(data.Embedding))
	for i, v := range data.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// ModelName はモデル名を返す
func (e *Embedder) ModelName() string {
	return e.model
}

// Dimension はベクトル次元数を返す
func (e *Embedder) Dimension() int {
	return e.dimension
}

// MaxInputTokens は1入力あたりのトークン上限を返す
func (e *Embedder) MaxInputTokens() int {
	return e.maxInputTokens
}

// インターフェース実装の確認
var _ tagging.EmbeddingService = (*Embedder)(nil)
