// Package company は会社の時系列データ（MAU・組織規模・投資・財務）を在籍期間で絞り込む
package company

import (
	"context"

	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/period"
)

// MetricRecord は月次の指標（MAU・組織規模）
type MetricRecord struct {
	ReferenceMonth string // "YYYY-MM"
	Value          mo.Option[float64]
}

// InvestmentRecord は投資ラウンド
type InvestmentRecord struct {
	InvestAt string // ISO日付 "YYYY-MM-DD"
	Amount   mo.Option[float64]
	Level    string
}

// FinanceRecord は年度ごとの財務実績
type FinanceRecord struct {
	Year      int
	NetProfit float64
}

// Snapshot は会社ごとの4系列。nil のスライスは系列が存在しないことを表す
type Snapshot struct {
	MAU          []MetricRecord
	Organization []MetricRecord
	Investment   []InvestmentRecord
	Finance      []FinanceRecord
}

// WindowedInfo は在籍期間内に絞り込まれた4系列
type WindowedInfo struct {
	Window       period.Window
	MAU          []MetricRecord
	Organization []MetricRecord
	Investment   []InvestmentRecord
	Finance      []FinanceRecord
}

// Empty は全系列が空かどうかを返す
func (w WindowedInfo) Empty() bool {
	return len(w.MAU) == 0 && len(w.Organization) == 0 && len(w.Investment) == 0 && len(w.Finance) == 0
}

// Store は会社データの読み取りインターフェース
type Store interface {
	// Get は会社名に対応するスナップショットを返す。存在しなければ None
	Get(ctx context.Context, name string) (mo.Option[Snapshot], error)
}
