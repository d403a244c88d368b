package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/company"
)

// CompanyStore は company.Store のインメモリ実装
type CompanyStore struct {
	mu        sync.RWMutex
	snapshots map[string]company.Snapshot
}

var _ company.Store = (*CompanyStore)(nil)

// NewCompanyStore は空の CompanyStore を作成する
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{snapshots: make(map[string]company.Snapshot)}
}

// Put はスナップショットを登録する
func (s *CompanyStore) Put(name string, snapshot company.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[name] = snapshot
}

// Get は会社名でスナップショットを返す
func (s *CompanyStore) Get(_ context.Context, name string) (mo.Option[company.Snapshot], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.snapshots[name]; ok {
		return mo.Some(snap), nil
	}
	return mo.None[company.Snapshot](), nil
}

// LoadDir はディレクトリ内の "<会社名>.json" を読み込む
func (s *CompanyStore) LoadDir(dir string) (int, error) {
	files, err := ReadCompanyFiles(dir)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		snap, err := company.DecodeSnapshot(f.Data)
		if err != nil {
			return 0, fmt.Errorf("failed to decode %s: %w", f.Name, err)
		}
		s.Put(f.Name, snap)
	}
	return len(files), nil
}
