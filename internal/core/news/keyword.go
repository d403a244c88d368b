package news

import (
	"math"
	"strings"
	"time"
)

// DefaultKeywords は財務・成長・プロダクト・組織人事・資金調達・ユーザー指標・規制に関するキーワード
func DefaultKeywords() []string {
	return []string{
		// 재무
		"매출", "영업이익", "순이익", "흑자", "적자", "실적",
		// 성장
		"성장", "확장", "돌파", "1위",
		// 제품
		"출시", "론칭", "서비스", "업데이트", "신규",
		// 조직·인사
		"채용", "대표", "임원", "조직", "인사", "구조조정",
		// 투자
		"투자", "유치", "시리즈", "IPO", "상장", "인수", "합병",
		// 사용자 지표
		"이용자", "사용자", "가입자", "MAU", "고객",
		// 규제
		"규제", "인가", "라이선스", "승인", "제재", "금융위",
	}
}

// keywordMatches はタイトルに含まれる異なるキーワードの数を返す（大文字小文字を区別）
func keywordMatches(title string, keywords []string) int {
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		if strings.Contains(title, kw) {
			seen[kw] = struct{}{}
		}
	}
	return len(seen)
}

// recencyWeight は 1/ln(経過日数+2) を返す。未来日付は0日として扱う
func recencyWeight(date, now time.Time) float64 {
	days := daysBetween(date, now)
	if days < 0 {
		days = 0
	}
	return 1 / math.Log(float64(days)+2)
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
