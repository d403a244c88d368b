package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jinford/talent-tagger/internal/core/period"
	"github.com/jinford/talent-tagger/internal/core/tagging"
)

// UUIDToPgtype converts uuid.UUID to pgtype.UUID
func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// PgtypeToUUID converts pgtype.UUID to uuid.UUID
func PgtypeToUUID(id pgtype.UUID) uuid.UUID {
	return id.Bytes
}

// DateToPgtype converts time.Time to pgtype.Date
func DateToPgtype(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// WindowToDateRange は期間を [開始月の1日, 終了月の翌月1日) の日付範囲に変換する
func WindowToDateRange(w period.Window) (from, until pgtype.Date) {
	return DateToPgtype(w.Start.FirstDay()), DateToPgtype(w.End.FirstDay().AddDate(0, 1, 0))
}

// JSONBFromTags converts tags to JSONB bytes
func JSONBFromTags(tags []tagging.TagRecord) ([]byte, error) {
	if tags == nil {
		tags = []tagging.TagRecord{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return b, nil
}

// TagsFromJSONB converts JSONB bytes to tags
func TagsFromJSONB(b []byte) ([]tagging.TagRecord, error) {
	if len(b) == 0 {
		return []tagging.TagRecord{}, nil
	}
	var tags []tagging.TagRecord
	if err := json.Unmarshal(b, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}
