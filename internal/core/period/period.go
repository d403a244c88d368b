// Package period は在籍期間を表す年月・期間の値型を提供する
package period

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// YearMonth は年と月の組を表す
type YearMonth struct {
	Year  int
	Month int
}

// FromTime は time.Time から YearMonth を作成する
func FromTime(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// Valid は月が 1〜12 の範囲かつ年が正であるかを返す
func (ym YearMonth) Valid() bool {
	return ym.Year > 0 && ym.Month >= 1 && ym.Month <= 12
}

// String は "YYYY-MM" 形式（ゼロ埋め固定幅）で返す
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Dotted は "YYYY.MM" 形式で返す
func (ym YearMonth) Dotted() string {
	return fmt.Sprintf("%04d.%02d", ym.Year, ym.Month)
}

// Before は ym が other より前の月かを返す
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// FirstDay はその月の1日（UTC）を返す
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Window は開始月と終了月を両端に含む期間
type Window struct {
	Start YearMonth
	End   YearMonth
}

// StartKey は比較用の "YYYY-MM" 開始キー
func (w Window) StartKey() string { return w.Start.String() }

// EndKey は比較用の "YYYY-MM" 終了キー
func (w Window) EndKey() string { return w.End.String() }

// ContainsKey は "YYYY-MM" 形式のキーが期間内かを文字列比較で判定する
// 固定幅ゼロ埋め形式なので辞書順比較が時系列順と一致する
func (w Window) ContainsKey(key string) bool {
	return w.StartKey() <= key && key <= w.EndKey()
}

// ContainsYear は年が期間の年範囲内かを判定する
func (w Window) ContainsYear(year int) bool {
	return w.Start.Year <= year && year <= w.End.Year
}

func (w Window) String() string {
	return w.StartKey() + " - " + w.EndKey()
}

// Resolve は開始月と終了月から期間を作成する
// 終了月が無い場合（在籍中）は now の年月で補完するため、集計時点の現在日時を渡すこと
func Resolve(start YearMonth, end mo.Option[YearMonth], now time.Time) Window {
	return Window{Start: start, End: end.OrElse(FromTime(now))}
}
