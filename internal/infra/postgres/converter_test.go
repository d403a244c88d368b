package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/period"
	"github.com/jinford/talent-tagger/internal/core/tagging"
)

func TestWindowToDateRange(t *testing.T) {
	w := period.Window{Start: period.YearMonth{Year: 2024, Month: 1}, End: period.YearMonth{Year: 2024, Month: 12}}

	from, until := WindowToDateRange(w)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from.Time)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), until.Time)
	assert.True(t, from.Valid)
}

func TestTagsJSONB(t *testing.T) {
	tags := []tagging.TagRecord{{Tag: "빅테크", Reason: "네이버 재직"}}

	b, err := JSONBFromTags(tags)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"tag":"빅테크","reason":"네이버 재직"}]`, string(b))

	empty, err := JSONBFromTags(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))

	_, err = TagsFromJSONB([]byte(`{"tag":1}`))
	assert.Error(t, err)
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements(1536)

	assert.Contains(t, stmts[len(stmts)-1], "embedding vector(1536)")
	assert.Contains(t, stmts[len(stmts)-1], "name VARCHAR(255) NOT NULL UNIQUE")
}
