// Package news は在籍期間中の会社ニュースを関連度と新しさで順位付けする
package news

import (
	"context"
	"time"

	"github.com/jinford/talent-tagger/internal/core/period"
)

// Item はニュース記事のタイトルと掲載日
type Item struct {
	Title string
	Date  time.Time
}

// ScoredItem はスコア付きのニュース記事
type ScoredItem struct {
	Item
	Score float64
}

// Tokenizer はタイトルを語に分割するインターフェース
type Tokenizer interface {
	Tokenize(text string) []string
}

// Store はニュースの読み取りインターフェース
type Store interface {
	// GetNews は会社IDと期間（月単位、両端含む）でニュースを取得する
	GetNews(ctx context.Context, companyID int64, window period.Window) ([]Item, error)
}
