package tagging

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/narrative"
	"github.com/jinford/talent-tagger/internal/core/profile"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

const rawProfile = `{"lastName":"홍","firstName":"길동","positions":[{"companyName":"네이버","title":"Engineer"}]}`

type stubNarrator struct {
	text string
}

func (n *stubNarrator) Summarize(context.Context, *profile.TalentRecord) (*narrative.Narrative, error) {
	return &narrative.Narrative{Text: n.text}, nil
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (e *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return e.vector, e.err
}

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (g *stubGenerator) Complete(context.Context, string) (string, error) {
	g.calls++
	return g.output, g.err
}

type stubTalentStore struct {
	mu        sync.Mutex
	entries   []StoredTalent
	insertErr error
}

func (s *stubTalentStore) InsertIfAbsent(_ context.Context, anonName, text string, tags []TagRecord, embedding []float32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return false, s.insertErr
	}
	for _, e := range s.entries {
		if e.AnonName == anonName {
			return false, nil
		}
	}
	s.entries = append(s.entries, StoredTalent{
		ID: uuid.New(), AnonName: anonName, Narrative: text, Tags: tags, Embedding: embedding, CreatedAt: time.Now(),
	})
	return true, nil
}

func (s *stubTalentStore) NearestBySimilarity(_ context.Context, embedding []float32) (mo.Option[Match], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := mo.None[Match]()
	for _, e := range s.entries {
		sim := CosineSimilarity(e.Embedding, embedding)
		if b, ok := best.Get(); !ok || sim > b.Similarity {
			best = mo.Some(Match{ID: e.ID, Similarity: sim})
		}
	}
	return best, nil
}

func (s *stubTalentStore) GetTagsByID(_ context.Context, id uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return TagNames(e.Tags), nil
		}
	}
	return nil, errors.New("not found")
}

type countingRecorder struct {
	outcomes []string
	stages   map[string]int
}

func (r *countingRecorder) ObserveStage(stage string, _ time.Duration) {
	if r.stages == nil {
		r.stages = make(map[string]int)
	}
	r.stages[stage]++
}
func (r *countingRecorder) RecordOutcome(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *countingRecorder) RecordPersist(bool, error)    {}

type fixture struct {
	embedder  *stubEmbedder
	generator *stubGenerator
	store     *stubTalentStore
	recorder  *countingRecorder
	svc       *Service
}

func newFixture(vector []float32) *fixture {
	f := &fixture{
		embedder:  &stubEmbedder{vector: vector},
		generator: &stubGenerator{output: "- 빅테크 (네이버 재직)\n- 백엔드개발 (서버 개발)\n- 잘못된 줄"},
		store:     &stubTalentStore{},
		recorder:  &countingRecorder{},
	}
	f.svc = NewService(
		profile.NewParser(profile.WithParserLogger(testLogger())),
		&stubNarrator{text: "[헤드라인] Engineer"},
		f.embedder,
		f.generator,
		f.store,
		WithServiceLogger(testLogger()),
		WithRecorder(f.recorder),
	)
	return f
}

func TestService_ProcessTalent_Unmatched(t *testing.T) {
	f := newFixture([]float32{1, 0})

	res, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)
	require.NoError(t, err)

	assert.False(t, res.Matched)
	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, []TagRecord{
		{Tag: "빅테크", Reason: "네이버 재직"},
		{Tag: "백엔드개발", Reason: "서버 개발"},
	}, res.Tags)
	assert.Equal(t, res.Tags, res.Payload())
	assert.True(t, res.Inserted)
	assert.True(t, res.Persisted)
	assert.Equal(t, AnonymizeName("홍길동"), res.AnonName)

	require.Len(t, f.store.entries, 1)
	assert.Equal(t, res.AnonName, f.store.entries[0].AnonName)
	assert.NotContains(t, f.store.entries[0].Narrative, "홍길동")
	assert.Equal(t, []string{OutcomeGenerated}, f.recorder.outcomes)
}

func TestService_ProcessTalent_MatchedSkipsGeneration(t *testing.T) {
	f := newFixture([]float32{0.9, float32(math.Sqrt(0.19))})
	existingID := uuid.New()
	f.store.entries = []StoredTalent{{
		ID:        existingID,
		AnonName:  "talent-0000000000",
		Tags:      []TagRecord{{Tag: "핀테크", Reason: "토스 재직"}, {Tag: "리더십", Reason: "팀장"}},
		Embedding: []float32{1, 0},
	}}

	res, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), 0.85)
	require.NoError(t, err)

	assert.True(t, res.Matched)
	assert.Equal(t, existingID, res.MatchedID)
	assert.InDelta(t, 0.90, res.Similarity, 1e-6)
	assert.Zero(t, f.generator.calls)
	assert.Equal(t, []string{"핀테크", "리더십"}, res.Payload())

	require.Len(t, f.store.entries, 2)
	assert.Equal(t, []TagRecord{{Tag: "핀테크"}, {Tag: "리더십"}}, f.store.entries[1].Tags)
	assert.Equal(t, []string{OutcomeMatched}, f.recorder.outcomes)
}

func TestService_ProcessTalent_SameNameStoredOnce(t *testing.T) {
	f := newFixture([]float32{1, 0})

	first, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)
	require.NoError(t, err)
	second, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)
	require.NoError(t, err)

	assert.True(t, first.Inserted)
	assert.False(t, second.Inserted)
	assert.True(t, second.Persisted)
	assert.Len(t, f.store.entries, 1)
}

func TestService_ProcessTalent_GenerationFailure(t *testing.T) {
	f := newFixture([]float32{1, 0})
	f.generator.err = errors.New("rate limited")

	res, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)
	require.NoError(t, err)

	assert.NotNil(t, res.Tags)
	assert.Empty(t, res.Tags)
	assert.False(t, res.Persisted)
	assert.Empty(t, f.store.entries)
	assert.Equal(t, []string{OutcomeGenerationFailed}, f.recorder.outcomes)
}

func TestService_ProcessTalent_PersistFailureKeepsTags(t *testing.T) {
	f := newFixture([]float32{1, 0})
	f.store.insertErr = errors.New("disk full")

	res, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)
	require.NoError(t, err)

	assert.Len(t, res.Tags, 2)
	assert.False(t, res.Persisted)
	assert.False(t, res.Inserted)
}

func TestService_ProcessTalent_Errors(t *testing.T) {
	t.Run("malformed profile", func(t *testing.T) {
		f := newFixture([]float32{1, 0})
		_, err := f.svc.ProcessTalent(context.Background(), []byte(`{"lastName":"홍"}`), DefaultThreshold)

		assert.True(t, errors.Is(err, apperr.ErrInput))
		assert.Equal(t, []string{OutcomeInputError}, f.recorder.outcomes)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		f := newFixture([]float32{1, 0})
		_, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), 1.5)

		assert.ErrorIs(t, err, ErrInvalidThreshold)
		assert.True(t, errors.Is(err, apperr.ErrInput))
	})

	t.Run("embedding failure", func(t *testing.T) {
		f := newFixture(nil)
		f.embedder.err = errors.New("timeout")
		_, err := f.svc.ProcessTalent(context.Background(), []byte(rawProfile), DefaultThreshold)

		assert.True(t, errors.Is(err, apperr.ErrService))
		assert.Zero(t, f.generator.calls)
		assert.Equal(t, []string{OutcomeFailed}, f.recorder.outcomes)
	})
}
