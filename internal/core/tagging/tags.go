package tagging

import (
	"strings"
)

// ParseTags は "- タグ (根拠)" 形式の行を TagRecord に変換する
// 箇条書きでない行や括弧の無い行は捨てる
func ParseTags(text string) []TagRecord {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	tags := make([]TagRecord, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		body, ok := strings.CutPrefix(line, "- ")
		if !ok {
			continue
		}

		tag, rest, ok := strings.Cut(body, " (")
		if !ok || !strings.HasSuffix(rest, ")") {
			continue
		}

		tag = strings.TrimSpace(tag)
		reason := strings.TrimSpace(strings.TrimSuffix(rest, ")"))
		if tag == "" {
			continue
		}
		tags = append(tags, TagRecord{Tag: tag, Reason: reason})
	}
	return tags
}

// TagNames はタグ文字列だけを取り出す
func TagNames(tags []TagRecord) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Tag
	}
	return names
}

// FromNames は根拠なしの TagRecord に変換する
func FromNames(names []string) []TagRecord {
	tags := make([]TagRecord, len(names))
	for i, n := range names {
		tags[i] = TagRecord{Tag: n}
	}
	return tags
}
