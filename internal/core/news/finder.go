package news

import (
	"context"
	"fmt"
	"maps"

	"github.com/jinford/talent-tagger/internal/core/period"
)

// DefaultCompanyIDs は会社名からニュース用会社IDへの既定の対応表
func DefaultCompanyIDs() map[string]int64 {
	return map[string]int64{
		"비바리퍼블리카": 1,
		"네이버":     2,
		"리디":      3,
		"엘박스":     4,
		"야놀자":     6,
	}
}

// Finder は会社名でニュースを検索する
type Finder struct {
	store Store
	ids   map[string]int64
}

// NewFinder は新しいFinderを作成する。ids が nil なら既定の対応表を使う
func NewFinder(store Store, ids map[string]int64) *Finder {
	if ids == nil {
		ids = DefaultCompanyIDs()
	}
	return &Finder{store: store, ids: maps.Clone(ids)}
}

// CompanyID は会社名に対応するIDを返す
func (f *Finder) CompanyID(company string) (int64, bool) {
	id, ok := f.ids[company]
	return id, ok
}

// Find は期間中のニュースを返す。対応表に無い会社はエラーではなく空を返す
func (f *Finder) Find(ctx context.Context, company string, window period.Window) ([]Item, error) {
	id, ok := f.ids[company]
	if !ok {
		return nil, nil
	}

	items, err := f.store.GetNews(ctx, id, window)
	if err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", company, err)
	}
	return items, nil
}
