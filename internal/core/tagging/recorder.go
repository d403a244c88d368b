package tagging

import "time"

// パイプラインの段階名
const (
	StageParse    = "parse"
	StageNarrate  = "narrate"
	StageEmbed    = "embed"
	StageGate     = "gate"
	StageGenerate = "generate"
	StagePersist  = "persist"
)

// 処理結果の分類
const (
	OutcomeMatched          = "matched"
	OutcomeGenerated        = "generated"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeInputError       = "input_error"
	OutcomeFailed           = "failed"
)

// Recorder はパイプラインの計測値を受け取る
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	RecordOutcome(outcome string)
	RecordPersist(inserted bool, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) RecordOutcome(string)               {}
func (nopRecorder) RecordPersist(bool, error)          {}
