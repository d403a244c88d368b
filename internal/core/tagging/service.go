package tagging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/talent-tagger/internal/core/narrative"
	"github.com/jinford/talent-tagger/internal/core/profile"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

// ErrInvalidThreshold はしきい値が [0, 1] の範囲外であることを表す
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

// ProfileParser はプロフィールJSONの解析インターフェース
type ProfileParser interface {
	Parse(raw []byte) (*profile.TalentRecord, error)
}

// Narrator はナラティブ生成インターフェース
type Narrator interface {
	Summarize(ctx context.Context, rec *profile.TalentRecord) (*narrative.Narrative, error)
}

// Result は processTalent の結果
type Result struct {
	Tags       []TagRecord
	Matched    bool
	MatchedID  uuid.UUID
	Similarity float64
	AnonName   string
	Inserted   bool
	Persisted  bool
	Warnings   []error
}

// Payload は呼び出し元に返すタグ一覧
// 類似タレントのタグを流用した場合はタグ文字列のみ、新規生成の場合は根拠付きで返す
func (r *Result) Payload() any {
	if r.Matched {
		return TagNames(r.Tags)
	}
	return r.Tags
}

// Service はタレントのタグ付けパイプラインを実行する
//
// Parsed → Narrated → Embedded → Matched|Unmatched → Tagged → Persisted の順に進む
type Service struct {
	parser    ProfileParser
	narrator  Narrator
	embedder  EmbeddingService
	gate      *SimilarityGate
	generator GenerationService
	store     TalentStore
	recorder  Recorder
	logger    *slog.Logger
}

// ServiceOption は Service の設定オプション
type ServiceOption func(*Service)

// WithServiceLogger はロガーを設定する
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder は計測値の送信先を設定する
func WithRecorder(recorder Recorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// NewService は新しいServiceを作成する
// embedder には上限超過時の分割を行う NarrativeEmbedder を渡すことを想定している
func NewService(
	parser ProfileParser,
	narrator Narrator,
	embedder EmbeddingService,
	generator GenerationService,
	store TalentStore,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		parser:    parser,
		narrator:  narrator,
		embedder:  embedder,
		generator: generator,
		store:     store,
		recorder:  nopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gate = NewSimilarityGate(store, WithGateLogger(s.logger))
	return s
}

// ProcessTalent はプロフィールJSONからタグを求めて保存する
func (s *Service) ProcessTalent(ctx context.Context, raw []byte, threshold float64) (*Result, error) {
	res, err := s.process(ctx, raw, threshold)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrInput):
		s.recorder.RecordOutcome(OutcomeInputError)
	default:
		s.recorder.RecordOutcome(OutcomeFailed)
	}
	return res, err
}

func (s *Service) process(ctx context.Context, raw []byte, threshold float64) (*Result, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, apperr.Input("tagging.ProcessTalent", fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold))
	}

	// 1. Parsed
	start := time.Now()
	rec, err := s.parser.Parse(raw)
	s.recorder.ObserveStage(StageParse, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	// 2. Narrated
	start = time.Now()
	story, err := s.narrator.Summarize(ctx, rec)
	s.recorder.ObserveStage(StageNarrate, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to compose narrative: %w", err)
	}

	// 3. Embedded
	start = time.Now()
	embedding, err := s.embedder.Embed(ctx, story.Text)
	s.recorder.ObserveStage(StageEmbed, time.Since(start))
	if err != nil {
		return nil, apperr.Service("tagging.ProcessTalent", fmt.Errorf("failed to embed narrative: %w", err))
	}

	// 4. Matched | Unmatched
	start = time.Now()
	decision, err := s.gate.Decide(ctx, embedding, threshold)
	s.recorder.ObserveStage(StageGate, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("similarity gate failed: %w", err)
	}

	res := &Result{
		Matched:    decision.Matched,
		MatchedID:  decision.ID,
		Similarity: decision.Similarity,
		AnonName:   AnonymizeName(rec.Name),
		Warnings:   story.Warnings,
	}

	// 5. Tagged
	generated := true
	if decision.Matched {
		names, err := s.store.GetTagsByID(ctx, decision.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tags of matched talent %s: %w", decision.ID, err)
		}
		res.Tags = FromNames(names)
		s.recorder.RecordOutcome(OutcomeMatched)
		s.logger.Info("reusing tags of similar talent",
			"matchedID", decision.ID.String(),
			"similarity", decision.Similarity,
			"tags", len(res.Tags))
	} else {
		res.Tags, generated = s.generate(ctx, story.Text)
	}

	// 6. Persisted
	if !generated {
		s.logger.Warn("skipping persistence after generation failure", "anonName", res.AnonName)
		return res, nil
	}

	start = time.Now()
	inserted, err := s.store.InsertIfAbsent(ctx, res.AnonName, story.Text, res.Tags, embedding)
	s.recorder.ObserveStage(StagePersist, time.Since(start))
	s.recorder.RecordPersist(inserted, err)
	if err != nil {
		s.logger.Error("failed to persist talent",
			"anonName", res.AnonName,
			"error", err)
		return res, nil
	}

	res.Inserted = inserted
	res.Persisted = true
	if inserted {
		s.logger.Info("talent saved", "anonName", res.AnonName, "tags", len(res.Tags))
	} else {
		s.logger.Info("talent already exists", "anonName", res.AnonName)
	}

	return res, nil
}

// generate は新規タグを生成する。生成に失敗した場合は空のタグと false を返す
func (s *Service) generate(ctx context.Context, text string) ([]TagRecord, bool) {
	start := time.Now()
	output, err := s.generator.Complete(ctx, BuildPrompt(text))
	s.recorder.ObserveStage(StageGenerate, time.Since(start))
	if err != nil {
		s.recorder.RecordOutcome(OutcomeGenerationFailed)
		s.logger.Error("tag generation failed", "error", err)
		return []TagRecord{}, false
	}

	tags := ParseTags(output)
	s.recorder.RecordOutcome(OutcomeGenerated)
	s.logger.Info("tags generated", "tags", len(tags))
	return tags, true
}
