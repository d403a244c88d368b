package news

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultTFIDFTopK はTF-IDF段階で残す件数
	DefaultTFIDFTopK = 10
	// DefaultTopK は最終的に返す件数
	DefaultTopK = 3
)

// Ranker はニュースを2段階（TF-IDF → キーワード×新しさ）で順位付けする
type Ranker struct {
	tokenizer Tokenizer
	keywords  []string
	tfidfTopK int
	topK      int
	logger    *slog.Logger
}

// RankerOption は Ranker の設定オプション
type RankerOption func(*Ranker)

// WithRankerLogger はロガーを設定する
func WithRankerLogger(logger *slog.Logger) RankerOption {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTFIDFTopK はTF-IDF段階の件数を設定する
func WithTFIDFTopK(k int) RankerOption {
	return func(r *Ranker) {
		if k > 0 {
			r.tfidfTopK = k
		}
	}
}

// WithTopK は最終件数を設定する
func WithTopK(k int) RankerOption {
	return func(r *Ranker) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithKeywords はキーワードリストを差し替える
func WithKeywords(keywords []string) RankerOption {
	return func(r *Ranker) {
		r.keywords = slices.Clone(keywords)
	}
}

// NewRanker は新しいRankerを作成する
func NewRanker(tokenizer Tokenizer, opts ...RankerOption) *Ranker {
	r := &Ranker{
		tokenizer: tokenizer,
		keywords:  DefaultKeywords(),
		tfidfTopK: DefaultTFIDFTopK,
		topK:      DefaultTopK,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank は期間内のニュースから上位 topK 件を返す
// 同じ入力と now に対しては常に同じ順序を返す
func (r *Ranker) Rank(items []Item, now time.Time) []ScoredItem {
	candidates := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" || it.Date.IsZero() {
			r.logger.Warn("skipping news item", "title", it.Title, "date", it.Date)
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return []ScoredItem{}
	}

	relevant := r.topByTFIDF(candidates)

	scored := make([]ScoredItem, 0, len(relevant))
	for _, it := range relevant {
		matches := keywordMatches(it.Title, r.keywords)
		scored = append(scored, ScoredItem{
			Item:  it,
			Score: float64(matches) * recencyWeight(it.Date, now),
		})
	}
	sortByScoreDesc(scored)

	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	r.logger.Debug("news ranked", "candidates", len(candidates), "relevant", len(relevant), "selected", len(scored))
	return scored
}

func (r *Ranker) topByTFIDF(items []Item) []Item {
	docs := make([][]string, len(items))
	for i, it := range items {
		docs[i] = r.tokenizer.Tokenize(it.Title)
	}
	scores := tfidfScores(docs)

	ranked := make([]ScoredItem, len(items))
	for i, it := range items {
		ranked[i] = ScoredItem{Item: it, Score: scores[i]}
	}
	sortByScoreDesc(ranked)

	if len(ranked) > r.tfidfTopK {
		ranked = ranked[:r.tfidfTopK]
	}

	out := make([]Item, len(ranked))
	for i, s := range ranked {
		out[i] = s.Item
	}
	return out
}

// sortByScoreDesc は同点なら元の順序を保つ
func sortByScoreDesc(items []ScoredItem) {
	slices.SortStableFunc(items, func(a, b ScoredItem) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
