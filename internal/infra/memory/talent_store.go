// Package memory はテストやDBなしの実行に使うインメモリのストアを提供する
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// TalentStore は tagging.TalentStore のインメモリ実装
type TalentStore struct {
	mu      sync.RWMutex
	entries []tagging.StoredTalent
	byName  map[string]int
	now     func() time.Time
}

var _ tagging.TalentStore = (*TalentStore)(nil)

// NewTalentStore は空の TalentStore を作成する
func NewTalentStore() *TalentStore {
	return &TalentStore{
		byName: make(map[string]int),
		now:    time.Now,
	}
}

// InsertIfAbsent は匿名名が未登録の場合のみ追加する
func (s *TalentStore) InsertIfAbsent(_ context.Context, anonName, narrative string, tags []tagging.TagRecord, embedding []float32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[anonName]; ok {
		return false, nil
	}
	s.byName[anonName] = len(s.entries)
	s.entries = append(s.entries, tagging.StoredTalent{
		ID:        uuid.New(),
		AnonName:  anonName,
		Narrative: narrative,
		Tags:      slices.Clone(tags),
		Embedding: slices.Clone(embedding),
		CreatedAt: s.now(),
	})
	return true, nil
}

// NearestBySimilarity はコサイン類似度が最大のエントリを返す
// 同値の場合はIDの辞書順で先のものを返す
func (s *TalentStore) NearestBySimilarity(_ context.Context, embedding []float32) (mo.Option[tagging.Match], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := mo.None[tagging.Match]()
	for _, e := range s.entries {
		sim := tagging.CosineSimilarity(e.Embedding, embedding)
		b, ok := best.Get()
		if !ok || sim > b.Similarity || (sim == b.Similarity && e.ID.String() < b.ID.String()) {
			best = mo.Some(tagging.Match{ID: e.ID, Similarity: sim})
		}
	}
	return best, nil
}

// GetTagsByID は保存済みエントリのタグ文字列を返す
func (s *TalentStore) GetTagsByID(_ context.Context, id uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return tagging.TagNames(e.Tags), nil
		}
	}
	return nil, fmt.Errorf("talent %s not found", id)
}

// Entries は保存済みエントリのコピーを返す
func (s *TalentStore) Entries() []tagging.StoredTalent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}
