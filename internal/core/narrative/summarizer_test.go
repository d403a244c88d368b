package narrative

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/company"
	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/period"
	"github.com/jinford/talent-tagger/internal/core/profile"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

type stubCompanyStore struct {
	snapshots map[string]company.Snapshot
	errs      map[string]error
}

func (s *stubCompanyStore) Get(_ context.Context, name string) (mo.Option[company.Snapshot], error) {
	if err := s.errs[name]; err != nil {
		return mo.None[company.Snapshot](), err
	}
	if snap, ok := s.snapshots[name]; ok {
		return mo.Some(snap), nil
	}
	return mo.None[company.Snapshot](), nil
}

type stubFinder struct {
	mu      sync.Mutex
	items   map[string][]news.Item
	windows map[string]period.Window
}

func (f *stubFinder) Find(_ context.Context, name string, w period.Window) ([]news.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.windows == nil {
		f.windows = make(map[string]period.Window)
	}
	f.windows[name] = w
	return f.items[name], nil
}

type passthroughRanker struct{}

func (passthroughRanker) Rank(items []news.Item, _ time.Time) []news.ScoredItem {
	out := make([]news.ScoredItem, 0, len(items))
	for _, it := range items {
		out = append(out, news.ScoredItem{Item: it, Score: 1})
	}
	return out
}

var fixedNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestSummarizer(store company.Store, finder NewsFinder) *Summarizer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSummarizer(store, finder, passthroughRanker{},
		WithSummarizerLogger(logger),
		WithClock(func() time.Time { return fixedNow }),
		WithConcurrency(2))
}

func ym(y, m int) period.YearMonth { return period.YearMonth{Year: y, Month: m} }

func testRecord() *profile.TalentRecord {
	return &profile.TalentRecord{
		Name:     "홍길동",
		Headline: "Backend Engineer",
		Summary:  "결제 도메인 10년",
		Skills:   []string{"Go", "Kotlin"},
		Industry: "금융",
		Education: mo.Some(profile.Education{
			School: "연세대학교", Degree: "학사", Field: "컴퓨터공학",
			StartYear: mo.Some(2005), EndYear: mo.Some(2011),
		}),
		Positions: []profile.Position{
			{
				Company: "비바리퍼블리카", Title: "Server Developer",
				Start: mo.Some(ym(2024, 1)), End: profile.PresentEnd(),
				Description: "- 결제 API 개발",
			},
			{
				Company: "네이버", Title: "Engineer",
				Start: mo.Some(ym(2015, 3)), End: profile.EndAt(ym(2023, 12)),
			},
			{Company: "", Title: "Freelancer"},
		},
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	store := &stubCompanyStore{snapshots: map[string]company.Snapshot{
		"비바리퍼블리카": {MAU: []company.MetricRecord{
			{ReferenceMonth: "2023-12", Value: mo.Some(90.0)},
			{ReferenceMonth: "2024-01", Value: mo.Some(100.0)},
			{ReferenceMonth: "2024-02", Value: mo.Some(110.0)},
			{ReferenceMonth: "2024-03", Value: mo.Some(121.0)},
		}},
	}}
	finder := &stubFinder{items: map[string][]news.Item{
		"비바리퍼블리카": {{Title: "토스 신규 서비스 출시", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}},
	}}

	n, err := newTestSummarizer(store, finder).Summarize(context.Background(), testRecord())
	require.NoError(t, err)

	assert.NotContains(t, n.Text, "홍길동")
	assert.True(t, strings.HasPrefix(n.Text, "[헤드라인] Backend Engineer\n"))
	assert.Contains(t, n.Text, "[학력] 연세대학교 컴퓨터공학 학사 (2005–2011)")
	assert.Contains(t, n.Text, "[회사] 비바리퍼블리카 | [직책] Server Developer | [기간] 2024.01 ~ 현재")
	assert.Contains(t, n.Text, "- 재직 기간 중 mau 약 21.00% 증가(평균 월간 10.00% 증가)")
	assert.Contains(t, n.Text, "[관련 뉴스]\n- 2025-03-04: 토스 신규 서비스 출시")
	assert.Contains(t, n.Text, "[회사] 네이버 | [직책] Engineer | [기간] 2015.03 ~ 2023.12")
	assert.Contains(t, n.Text, "[회사]  | [직책] Freelancer | [기간] 미상 ~ 미상")
	assert.NotContains(t, n.Text, "정보 없음")

	// 位置は入力順を保つ
	toss := strings.Index(n.Text, "비바리퍼블리카 |")
	naver := strings.Index(n.Text, "네이버 |")
	assert.Less(t, toss, naver)

	assert.Equal(t, ym(2025, 8), finder.windows["비바리퍼블리카"].End)

	// 네이버 は会社データもニュースも無い
	require.NotEmpty(t, n.Warnings)
	for _, w := range n.Warnings {
		assert.True(t, errors.Is(w, apperr.ErrDataGap))
	}
}

func TestSummarizer_Summarize_PositionFailureUsesPlaceholder(t *testing.T) {
	store := &stubCompanyStore{errs: map[string]error{"네이버": errors.New("connection reset")}}

	n, err := newTestSummarizer(store, &stubFinder{}).Summarize(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Contains(t, n.Text, "- [네이버] 포지션 정보를 처리하는 중 오류가 발생했습니다.")
	assert.Contains(t, n.Text, "[회사] 비바리퍼블리카")
}

func TestSummarizer_Summarize_MissingEducation(t *testing.T) {
	rec := testRecord()
	rec.Education = mo.None[profile.Education]()

	n, err := newTestSummarizer(&stubCompanyStore{}, &stubFinder{}).Summarize(context.Background(), rec)
	require.NoError(t, err)

	assert.NotContains(t, n.Text, "[학력]")
	assert.Contains(t, n.Text, "[헤드라인]")
	assert.True(t, errors.Is(n.Warnings[0], ErrNoEducation))
}

func TestSummarizer_Summarize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &stubCompanyStore{errs: map[string]error{
		"비바리퍼블리카": context.Canceled,
		"네이버":     context.Canceled,
	}}

	_, err := newTestSummarizer(store, &stubFinder{}).Summarize(ctx, testRecord())
	assert.ErrorIs(t, err, context.Canceled)
}
