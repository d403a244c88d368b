package company

import (
	"github.com/jinford/talent-tagger/internal/core/period"
)

// FilterMetrics は referenceMonth が期間内のレコードを返す
// "YYYY-MM" は固定幅なので文字列比較で判定する
func FilterMetrics(records []MetricRecord, w period.Window) []MetricRecord {
	out := make([]MetricRecord, 0, len(records))
	for _, r := range records {
		if w.ContainsKey(r.ReferenceMonth) {
			out = append(out, r)
		}
	}
	return out
}

// FilterInvestments は investAt の先頭7文字（"YYYY-MM"）が期間内のレコードを返す
func FilterInvestments(records []InvestmentRecord, w period.Window) []InvestmentRecord {
	out := make([]InvestmentRecord, 0, len(records))
	for _, r := range records {
		if len(r.InvestAt) < 7 {
			continue
		}
		if w.ContainsKey(r.InvestAt[:7]) {
			out = append(out, r)
		}
	}
	return out
}

// FilterFinance は年が期間の年範囲内のレコードを返す（月は見ない）
func FilterFinance(records []FinanceRecord, w period.Window) []FinanceRecord {
	out := make([]FinanceRecord, 0, len(records))
	for _, r := range records {
		if w.ContainsYear(r.Year) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate はスナップショットの4系列を期間で絞り込む
func Aggregate(s Snapshot, w period.Window) WindowedInfo {
	return WindowedInfo{
		Window:       w,
		MAU:          FilterMetrics(s.MAU, w),
		Organization: FilterMetrics(s.Organization, w),
		Investment:   FilterInvestments(s.Investment, w),
		Finance:      FilterFinance(s.Finance, w),
	}
}
