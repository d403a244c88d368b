package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/period"
)

// NewsStore は news.Store のインメモリ実装
type NewsStore struct {
	mu    sync.RWMutex
	items map[int64][]news.Item
}

var _ news.Store = (*NewsStore)(nil)

// NewNewsStore は空の NewsStore を作成する
func NewNewsStore() *NewsStore {
	return &NewsStore{items: make(map[int64][]news.Item)}
}

// Add はニュースを追加する
func (s *NewsStore) Add(companyID int64, items ...news.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[companyID] = append(s.items[companyID], items...)
}

// GetNews は期間内（月単位、両端含む）のニュースを掲載日順に返す
func (s *NewsStore) GetNews(_ context.Context, companyID int64, window period.Window) ([]news.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []news.Item
	for _, it := range s.items[companyID] {
		if window.ContainsKey(period.FromTime(it.Date).String()) {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b news.Item) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

// LoadFile はニュースファイルを読み込んで追加する
func (s *NewsStore) LoadFile(path string) (int, error) {
	records, err := ReadNewsFile(path)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		s.Add(r.CompanyID, r.Item)
	}
	return len(records), nil
}
