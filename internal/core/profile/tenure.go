package profile

import (
	"slices"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/period"
)

// Tenure は会社・期間の計算に使える職歴
type Tenure struct {
	Index   int // Positions 内の元のインデックス
	Company string
	Start   period.YearMonth
	End     mo.Option[period.YearMonth] // None は在籍中
}

// Window は now を在籍中の終了月として期間を解決する
func (t Tenure) Window(now time.Time) period.Window {
	return period.Resolve(t.Start, t.End, now)
}

// ExtractTenurePeriods は会社名・開始月のない職歴と終了日が不正な職歴を除外し、開始月順に並べる
func ExtractTenurePeriods(positions []Position) []Tenure {
	tenures := make([]Tenure, 0, len(positions))
	for i, pos := range positions {
		if pos.Company == "" || pos.Start.IsAbsent() || pos.End.Malformed() {
			continue
		}
		tenures = append(tenures, Tenure{
			Index:   i,
			Company: pos.Company,
			Start:   pos.Start.MustGet(),
			End:     pos.End.Option(),
		})
	}

	slices.SortStableFunc(tenures, func(a, b Tenure) int {
		switch {
		case a.Start.Before(b.Start):
			return -1
		case b.Start.Before(a.Start):
			return 1
		default:
			return 0
		}
	})
	return tenures
}
