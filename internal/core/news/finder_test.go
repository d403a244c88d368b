package news

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/period"
)

type stubStore struct {
	items    []Item
	err      error
	calledID int64
	calls    int
}

func (s *stubStore) GetNews(_ context.Context, companyID int64, _ period.Window) ([]Item, error) {
	s.calls++
	s.calledID = companyID
	return s.items, s.err
}

func TestFinder_Find(t *testing.T) {
	store := &stubStore{items: []Item{{Title: "리디 신규 서비스"}}}
	f := NewFinder(store, nil)

	items, err := f.Find(context.Background(), "리디", period.Window{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(3), store.calledID)
}

func TestFinder_Find_UnknownCompany(t *testing.T) {
	store := &stubStore{}
	f := NewFinder(store, map[string]int64{"네이버": 2})

	items, err := f.Find(context.Background(), "카카오", period.Window{})
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Zero(t, store.calls)
}

func TestFinder_Find_StoreError(t *testing.T) {
	cause := errors.New("connection refused")
	f := NewFinder(&stubStore{err: cause}, nil)

	_, err := f.Find(context.Background(), "야놀자", period.Window{})
	assert.ErrorIs(t, err, cause)
}
