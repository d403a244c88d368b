package narrative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jinford/talent-tagger/internal/core/company"
	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/period"
	"github.com/jinford/talent-tagger/internal/core/profile"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

// DefaultConcurrency は職歴の並列処理数の既定値
const DefaultConcurrency = 4

var (
	// ErrNoEducation は学歴データが無いことを表す
	ErrNoEducation = errors.New("no education data")
	// ErrNoCompanyData は会社データが無いことを表す
	ErrNoCompanyData = errors.New("no company data")
	// ErrNoNews は期間内のニュースが無いことを表す
	ErrNoNews = errors.New("no company news")
)

// NewsFinder は会社名と期間でニュースを取得するインターフェース
type NewsFinder interface {
	Find(ctx context.Context, company string, window period.Window) ([]news.Item, error)
}

// NewsRanker はニュースを順位付けするインターフェース
type NewsRanker interface {
	Rank(items []news.Item, now time.Time) []news.ScoredItem
}

// Narrative は組み立て済みのナラティブ
type Narrative struct {
	Text string
	// Warnings はデータ欠落（apperr.ErrDataGap）の一覧
	Warnings []error
}

// Summarizer はタレントレコードからナラティブを組み立てる
type Summarizer struct {
	companies   company.Store
	finder      NewsFinder
	ranker      NewsRanker
	now         func() time.Time
	concurrency int
	logger      *slog.Logger
}

// SummarizerOption は Summarizer の設定オプション
type SummarizerOption func(*Summarizer)

// WithSummarizerLogger はロガーを設定する
func WithSummarizerLogger(logger *slog.Logger) SummarizerOption {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency は職歴の並列処理数を設定する
func WithConcurrency(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock は現在時刻の取得関数を設定する
func WithClock(now func() time.Time) SummarizerOption {
	return func(s *Summarizer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSummarizer は新しいSummarizerを作成する
func NewSummarizer(companies company.Store, finder NewsFinder, ranker NewsRanker, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		companies:   companies,
		finder:      finder,
		ranker:      ranker,
		now:         time.Now,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type positionResult struct {
	text     string
	warnings []error
}

// Summarize はプロフィール見出しと各職歴のナラティブを空行区切りで連結する
// 職歴ごとの失敗はその職歴の代替行に置き換え、全体は中断しない
func (s *Summarizer) Summarize(ctx context.Context, rec *profile.TalentRecord) (*Narrative, error) {
	if rec == nil {
		return nil, apperr.Input("narrative.Summarize", errors.New("talent record is nil"))
	}

	now := s.now()
	narrative := &Narrative{}

	if rec.Education.IsAbsent() {
		narrative.Warnings = append(narrative.Warnings, apperr.DataGap("narrative.Summarize", ErrNoEducation))
		s.logger.Warn("education missing from profile")
	}

	tenures := make(map[int]profile.Tenure)
	for _, t := range profile.ExtractTenurePeriods(rec.Positions) {
		tenures[t.Index] = t
	}

	results := make([]positionResult, len(rec.Positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, pos := range rec.Positions {
		tenure, ok := tenures[i]
		if !ok {
			s.logger.Warn("position skipped for enrichment", "index", i, "company", pos.Company)
			results[i] = positionResult{text: PositionNarrative(pos, "", nil)}
			continue
		}

		g.Go(func() error {
			res, err := s.enrichPosition(gctx, pos, tenure, now)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Error("failed to process position",
					"index", i,
					"company", pos.Company,
					"error", err)
				res = positionResult{text: PositionErrorPlaceholder(pos.Company)}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summarize canceled: %w", err)
	}

	sections := make([]string, 0, len(results)+1)
	sections = append(sections, ProfileHeader(rec))
	for _, r := range results {
		sections = append(sections, r.text)
		narrative.Warnings = append(narrative.Warnings, r.warnings...)
	}
	narrative.Text = strings.Join(sections, "\n\n")

	s.logger.Info("narrative composed",
		"positions", len(rec.Positions),
		"enriched", len(tenures),
		"warnings", len(narrative.Warnings))

	return narrative, nil
}

func (s *Summarizer) enrichPosition(ctx context.Context, pos profile.Position, tenure profile.Tenure, now time.Time) (positionResult, error) {
	var res positionResult
	window := tenure.Window(now)
	op := "narrative.enrichPosition"

	snapshot, err := s.companies.Get(ctx, tenure.Company)
	if err != nil {
		return res, fmt.Errorf("failed to get company data: %w", err)
	}

	var companyInfo string
	if snap, ok := snapshot.Get(); ok {
		info := company.Aggregate(snap, window)
		s.logger.Debug("company info aggregated",
			"company", tenure.Company,
			"window", window.String(),
			"mau", len(info.MAU),
			"investment", len(info.Investment),
			"organization", len(info.Organization),
			"finance", len(info.Finance))
		companyInfo = CompanyInfoSummary(info)
	} else {
		res.warnings = append(res.warnings, apperr.DataGap(op, fmt.Errorf("%w: %s", ErrNoCompanyData, tenure.Company)))
		s.logger.Warn("company data not found", "company", tenure.Company)
	}

	items, err := s.finder.Find(ctx, tenure.Company, window)
	if err != nil {
		return res, fmt.Errorf("failed to find news: %w", err)
	}

	ranked := s.ranker.Rank(items, now)
	if len(ranked) == 0 {
		res.warnings = append(res.warnings, apperr.DataGap(op, fmt.Errorf("%w: %s %s", ErrNoNews, tenure.Company, window)))
		s.logger.Warn("no news for tenure", "company", tenure.Company, "window", window.String())
	}

	res.text = PositionNarrative(pos, companyInfo, ranked)
	return res, nil
}
