package news

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

func newTestRanker(opts ...RankerOption) *Ranker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRanker(fieldsTokenizer{}, append([]RankerOption{WithRankerLogger(logger)}, opts...)...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRanker_Rank_Empty(t *testing.T) {
	r := newTestRanker()

	assert.Empty(t, r.Rank(nil, time.Now()))
	assert.Empty(t, r.Rank([]Item{{Title: " ", Date: day(2024, 1, 1)}, {Title: "토스 투자 유치"}}, time.Now()))
}

func TestRanker_Rank_KeywordAndRecency(t *testing.T) {
	now := day(2025, 8, 20)
	items := []Item{
		{Title: "토스 사내 행사 개최", Date: day(2025, 8, 19)},
		{Title: "토스 시리즈 G 투자 유치", Date: day(2024, 1, 10)},
		{Title: "토스 신규 서비스 출시", Date: day(2025, 8, 1)},
		{Title: "토스 매출 1조 돌파 흑자 전환", Date: day(2025, 2, 1)},
		{Title: "", Date: day(2025, 8, 20)},
	}

	got := newTestRanker().Rank(items, now)

	require.Len(t, got, 3)
	assert.Equal(t, "토스 신규 서비스 출시", got[0].Title)
	assert.Equal(t, "토스 매출 1조 돌파 흑자 전환", got[1].Title)
	assert.Equal(t, "토스 시리즈 G 투자 유치", got[2].Title)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRanker_Rank_Idempotent(t *testing.T) {
	now := day(2025, 8, 20)
	items := []Item{
		{Title: "네이버 신규 서비스 출시", Date: day(2025, 3, 2)},
		{Title: "네이버 신규 서비스 출시", Date: day(2025, 3, 2)},
		{Title: "네이버 임원 인사", Date: day(2025, 3, 2)},
		{Title: "네이버 실적 발표", Date: day(2024, 11, 5)},
	}

	r := newTestRanker()
	first := r.Rank(items, now)
	second := r.Rank(items, now)

	assert.Equal(t, first, second)
}

// rotatedTitles は同じ語の集合を語順だけ変えたタイトルと、文書頻度を偏らせる短いタイトルを返す
func rotatedTitles(date time.Time) []Item {
	words := []string{"토스", "출시", "결제", "송금", "카드", "보험", "증권", "대출", "적금", "환전", "포인트", "멤버십", "간편", "인증"}
	var items []Item
	for i := range words {
		rotated := append(slices.Clone(words[i:]), words[:i]...)
		items = append(items, Item{Title: strings.Join(rotated, " "), Date: date})
	}
	for _, extra := range []string{"토스 결제", "송금 카드 보험", "증권 대출", "적금 환전 포인트 멤버십", "간편"} {
		items = append(items, Item{Title: extra, Date: date})
	}
	return items
}

func TestTFIDFScores_WordOrderDoesNotChangeScore(t *testing.T) {
	items := rotatedTitles(day(2025, 3, 2))
	docs := make([][]string, len(items))
	for i, it := range items {
		docs[i] = fieldsTokenizer{}.Tokenize(it.Title)
	}

	scores := tfidfScores(docs)
	for i := 1; i < 14; i++ {
		assert.Equal(t, scores[0], scores[i], "rotation %d", i)
	}
}

func TestRanker_Rank_DeterministicAcrossRuns(t *testing.T) {
	now := day(2025, 8, 20)
	items := rotatedTitles(day(2025, 3, 2))
	r := newTestRanker()

	want := r.Rank(items, now)
	require.Len(t, want, 3)
	// 同点は入力順を保つ
	assert.Equal(t, items[0].Title, want[0].Title)
	assert.Equal(t, items[1].Title, want[1].Title)
	assert.Equal(t, items[2].Title, want[2].Title)

	for range 100 {
		assert.Equal(t, want, r.Rank(items, now))
	}
}

func TestRanker_Rank_TFIDFStageLimitsCandidates(t *testing.T) {
	now := day(2025, 8, 20)
	items := []Item{
		{Title: "투자", Date: day(2025, 8, 19)},
		{Title: "투자 유치 확대", Date: day(2024, 1, 1)},
	}

	got := newTestRanker(WithTFIDFTopK(1)).Rank(items, now)

	require.Len(t, got, 1)
	assert.Equal(t, "투자 유치 확대", got[0].Title)
}

func TestRanker_Rank_ZeroScoreStillEligible(t *testing.T) {
	now := day(2025, 8, 20)
	items := []Item{{Title: "사내 행사", Date: day(2025, 8, 1)}}

	got := newTestRanker().Rank(items, now)

	require.Len(t, got, 1)
	assert.Zero(t, got[0].Score)
}

func TestTFIDFScores(t *testing.T) {
	scores := tfidfScores([][]string{{"a"}, {"a", "b"}, {}})

	require.Len(t, scores, 3)
	assert.InDelta(t, 0.5, scores[0], 1e-9)
	assert.Greater(t, scores[1], scores[0])
	assert.Zero(t, scores[2])
}

func TestRecencyWeight(t *testing.T) {
	now := day(2025, 8, 20)

	assert.InDelta(t, 1/math.Log(2), recencyWeight(now, now), 1e-9)
	assert.InDelta(t, 1/math.Log(2), recencyWeight(day(2025, 9, 1), now), 1e-9)
	assert.Greater(t, recencyWeight(day(2025, 8, 19), now), recencyWeight(day(2025, 1, 1), now))
}

func TestKeywordMatches_Distinct(t *testing.T) {
	assert.Equal(t, 2, keywordMatches("투자 유치 투자", DefaultKeywords()))
	assert.Equal(t, 0, keywordMatches("mau 증가", DefaultKeywords()))
}
