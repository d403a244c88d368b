package openai

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// fallbackEncoding は text-embedding-3 系と gpt-4o-mini 以前のモデルが共有するエンコーディング
const fallbackEncoding = "cl100k_base"

// TokenCounter はナラティブが Embedding の入力上限を超えるかを判定するためにトークン数を数える
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTokenCounter は Embedding モデルに対応するエンコーディングで TokenCounter を作成する
// モデルが空または tiktoken が知らないモデルの場合は cl100k_base を使う
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model != "" {
		if enc, err := tiktoken.EncodingForModel(model); err == nil {
			return &TokenCounter{encoding: enc, name: model}, nil
		}
	}

	enc, err := tiktoken.GetEncoding(fallbackEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding for embedding input: %w", fallbackEncoding, err)
	}
	return &TokenCounter{encoding: enc, name: fallbackEncoding}, nil
}

// Encoding は判定に使っているモデル名またはエンコーディング名を返す
func (tc *TokenCounter) Encoding() string {
	return tc.name
}

// CountTokens はナラティブのトークン数を返す
func (tc *TokenCounter) CountTokens(text string) int {
	return len(tc.encoding.Encode(text, nil, nil))
}

var _ tagging.TokenCounter = (*TokenCounter)(nil)
