// Package openai は OpenAI API を使ったタグ生成とEmbeddingの実装を提供する
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

const (
	// DefaultModel はデフォルトで使用するOpenAIモデル
	DefaultModel = "gpt-4o-mini"

	// DefaultTemperature はタグ生成の温度
	DefaultTemperature = 0.2

	// DefaultTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set: please set OPENAI_API_KEY environment variable")

	// ErrNoChoices は生成結果が空の場合のエラー
	ErrNoChoices = errors.New("no completion choices returned")
)

// Client は OpenAI Chat Completions API を使ったタグ生成クライアント
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	breaker     *breaker
	logger      *slog.Logger
}

type clientOptions struct {
	model       string
	temperature float64
	timeout     time.Duration
	breaker     BreakerConfig
	logger      *slog.Logger
	requestOpts []option.RequestOption
}

// ClientOption は Client のオプション設定
type ClientOption func(*clientOptions)

// WithModel はモデル名を上書きする
func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTemperature は温度を上書きする
func WithTemperature(t float64) ClientOption {
	return func(o *clientOptions) {
		o.temperature = t
	}
}

// WithTimeout はAPIコールのタイムアウトを設定する
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithBreakerConfig はサーキットブレーカーの設定を上書きする
func WithBreakerConfig(cfg BreakerConfig) ClientOption {
	return func(o *clientOptions) {
		o.breaker = cfg
	}
}

// WithClientLogger はロガーを設定する
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRequestOptions は openai-go のリクエストオプション（BaseURLなど）を追加する
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(o *clientOptions) {
		o.requestOpts = append(o.requestOpts, opts...)
	}
}

// NewClient は新しい Client を作成する
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := clientOptions{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		timeout:     DefaultTimeout,
		breaker:     DefaultBreakerConfig(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	requestOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, options.requestOpts...)

	return &Client{
		client:      openai.NewClient(requestOpts...),
		model:       options.model,
		temperature: options.temperature,
		timeout:     options.timeout,
		breaker:     newBreaker("openai-chat", options.breaker, options.logger),
		logger:      options.logger,
	}, nil
}

// ModelName はモデル名を返す
func (c *Client) ModelName() string {
	return c.model
}

// Complete はプロンプトに対する生成テキストを返す
// 呼び出しは1回のみで、失敗時はリトライせずにエラーを返す
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	}

	result, err := c.breaker.execute(ctx, func() (interface{}, error) {
		completion, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("OpenAI API call failed: %w", describeAPIError(err))
		}
		if len(completion.Choices) == 0 {
			return nil, ErrNoChoices
		}
		return completion, nil
	})
	if err != nil {
		return "", err
	}

	completion := result.(*openai.ChatCompletion)
	c.logger.Debug("completion generated",
		"model", string(completion.Model),
		"tokensUsed", completion.Usage.TotalTokens)

	return completion.Choices[0].Message.Content, nil
}

// describeAPIError はステータスコードをエラーメッセージに含める
func describeAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("status %d: %w", apiErr.StatusCode, err)
	}
	return err
}

// インターフェース実装の確認
var _ tagging.GenerationService = (*Client)(nil)
