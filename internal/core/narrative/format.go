package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/profile"
)

// PositionNarrative は1件の職歴のナラティブを組み立てる
// companyInfo と items が空の場合、それぞれのブロックは出力しない
func PositionNarrative(pos profile.Position, companyInfo string, items []news.ScoredItem) string {
	var b strings.Builder
	b.WriteString(positionHeader(pos))

	if pos.Description != "" {
		b.WriteString("\n")
		b.WriteString(pos.Description)
	}

	if companyInfo = strings.TrimSpace(companyInfo); companyInfo != "" {
		b.WriteString("\n[회사 정보]\n")
		b.WriteString(companyInfo)
	}

	if len(items) > 0 {
		b.WriteString("\n[관련 뉴스]")
		for _, it := range items {
			fmt.Fprintf(&b, "\n- %s: %s", it.Date.Format("2006-01-02"), it.Title)
		}
	}
	return b.String()
}

// PositionErrorPlaceholder は処理に失敗した職歴の代替行
func PositionErrorPlaceholder(companyName string) string {
	return fmt.Sprintf("- [%s] 포지션 정보를 처리하는 중 오류가 발생했습니다.", companyName)
}

func positionHeader(pos profile.Position) string {
	start := "미상"
	if s, ok := pos.Start.Get(); ok {
		start = s.Dotted()
	}

	var end string
	switch {
	case pos.End.Present:
		end = "현재"
	case pos.End.At.IsPresent():
		end = pos.End.At.MustGet().Dotted()
	default:
		end = "미상"
	}

	return fmt.Sprintf("[회사] %s | [직책] %s | [기간] %s ~ %s", pos.Company, pos.Title, start, end)
}

// ProfileHeader はプロフィールの見出しブロックを組み立てる
// 氏名は外部サービスへ送るテキストに含めないため出力しない
func ProfileHeader(rec *profile.TalentRecord) string {
	lines := make([]string, 0, 5)
	if rec.Headline != "" {
		lines = append(lines, "[헤드라인] "+rec.Headline)
	}
	if s := strings.TrimSpace(rec.Summary); s != "" {
		lines = append(lines, "[요약] "+s)
	}
	if len(rec.Skills) > 0 {
		lines = append(lines, "[스킬] "+strings.Join(rec.Skills, ", "))
	}
	if edu, ok := rec.Education.Get(); ok {
		lines = append(lines, "[학력] "+formatEducation(edu))
	}
	if rec.Industry != "" {
		lines = append(lines, "[산업] "+rec.Industry)
	}
	return strings.Join(lines, "\n")
}

// formatEducation は "school field degree (start–end)" 形式で返す
func formatEducation(edu profile.Education) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{edu.School, edu.Field, edu.Degree} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return noInfoMarker
	}

	years := func(y int, ok bool) string {
		if !ok {
			return "?"
		}
		return strconv.Itoa(y)
	}
	start, hasStart := edu.StartYear.Get()
	end, hasEnd := edu.EndYear.Get()

	return fmt.Sprintf("%s (%s–%s)", strings.Join(parts, " "), years(start, hasStart), years(end, hasEnd))
}
