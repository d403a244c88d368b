// Package narrative は集計済みの会社情報とニュースから韓国語のナラティブを組み立てる
package narrative

import (
	"fmt"
	"math"
	"strings"

	"github.com/jinford/talent-tagger/internal/core/company"
)

const (
	// LabelMAU はMAU系列のラベル
	LabelMAU = "mau"
	// LabelOrganization は組織規模系列のラベル
	LabelOrganization = "조직 규모"

	noInfoMarker = "정보 없음"
	eokWon       = 1e8
)

// GrowthStats は系列の増減率
type GrowthStats struct {
	Points     int
	Total      float64 // 先頭から末尾への増減率（%）
	AvgMonthly float64 // 隣接ペアの増減率の平均（%）
	Dip        bool    // 途中で減少したか
	Degenerate bool    // 先頭値が0のため Total を計算できなかった
}

// MetricValues は値のあるレコードだけを取り出す
func MetricValues(records []company.MetricRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value.Get(); ok {
			values = append(values, v)
		}
	}
	return values
}

// ComputeGrowth は増減率を計算する。0除算は行わない
func ComputeGrowth(values []float64) GrowthStats {
	stats := GrowthStats{Points: len(values)}
	if len(values) == 0 {
		return stats
	}

	first, last := values[0], values[len(values)-1]
	if first == 0 {
		stats.Degenerate = true
	} else {
		stats.Total = (last - first) / first * 100
	}

	var sum float64
	var n int
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		g := (values[i] - prev) / prev * 100
		if g < 0 {
			stats.Dip = true
		}
		sum += g
		n++
	}
	if n > 0 {
		stats.AvgMonthly = sum / float64(n)
	}
	return stats
}

// GrowthSummary は系列の増減を1文で表す
func GrowthSummary(values []float64, label string) (GrowthStats, string) {
	stats := ComputeGrowth(values)
	if stats.Points == 0 {
		return stats, fmt.Sprintf("%s %s.", label, noInfoMarker)
	}

	var b strings.Builder
	if total := round2(stats.Total); total != 0 {
		fmt.Fprintf(&b, "재직 기간 중 %s 약 %.2f%% %s", label, math.Abs(stats.Total), direction(stats.Total > 0))
	} else {
		fmt.Fprintf(&b, "재직 기간 중 %s 변화 없음.", label)
	}
	fmt.Fprintf(&b, "(평균 월간 %.2f%% %s)", math.Abs(stats.AvgMonthly), direction(stats.AvgMonthly >= 0))

	if stats.Degenerate {
		b.WriteString(" (시작 값이 0이어서 전체 증감률은 0%로 처리됨)")
	}
	if stats.Dip {
		b.WriteString(", 중간에 일시적 하락도 관측됨.")
	}
	return stats, b.String()
}

// InvestSummary は投資ラウンド数と総額（億ウォン）を1文で表す
func InvestSummary(records []company.InvestmentRecord) string {
	if len(records) == 0 {
		return "재직 중 투자 " + noInfoMarker + "."
	}

	var total float64
	rounds := 0
	for _, r := range records {
		if v, ok := r.Amount.Get(); ok {
			total += v
		}
		if r.Level != "" {
			rounds++
		}
	}
	return fmt.Sprintf("재직 중 %d건의 투자 유치 (총 %.2f억원 규모).", rounds, total/eokWon)
}

// FinSummary は年度ごとの黒字・赤字を1文で表す
func FinSummary(records []company.FinanceRecord) string {
	if len(records) == 0 {
		return "재직 중 재무 " + noInfoMarker + "."
	}

	parts := make([]string, 0, len(records))
	for _, r := range records {
		if r.NetProfit > 0 {
			parts = append(parts, fmt.Sprintf("%d년 흑자(순이익 %.2f억원)", r.Year, r.NetProfit/eokWon))
		} else {
			parts = append(parts, fmt.Sprintf("%d년 적자(순손실 %.2f억원)", r.Year, math.Abs(r.NetProfit)/eokWon))
		}
	}
	return "재직 중 재무 정보: " + strings.Join(parts, ", ") + "."
}

// CompanyInfoSummary は4系列の要約を箇条書きにする
// 「정보 없음」を含む項目は除外するため、データが無い期間では空文字を返す
func CompanyInfoSummary(info company.WindowedInfo) string {
	_, mau := GrowthSummary(MetricValues(info.MAU), LabelMAU)
	_, org := GrowthSummary(MetricValues(info.Organization), LabelOrganization)

	lines := make([]string, 0, 4)
	for _, s := range []string{mau, InvestSummary(info.Investment), org, FinSummary(info.Finance)} {
		if strings.Contains(s, noInfoMarker) {
			continue
		}
		lines = append(lines, "- "+s)
	}
	return strings.Join(lines, "\n")
}

func direction(up bool) string {
	if up {
		return "증가"
	}
	return "감소"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
