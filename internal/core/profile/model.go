// Package profile はアップロードされたプロフィールJSONを正規化されたタレントレコードに変換する
package profile

import (
	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/period"
)

// TalentRecord はリクエストごとに一度だけ作成される、不変のタレント情報
type TalentRecord struct {
	// Name は姓と名を区切りなしで連結したもの（ナラティブには出力しない）
	Name        string
	Education   mo.Option[Education]
	Positions   []Position // 入力順を保持する
	Headline    string
	Skills      []string
	Summary     string
	LinkedInURL string
	Industry    string
}

// Education は最終学歴
type Education struct {
	School    string
	Degree    string
	Field     string
	StartYear mo.Option[int]
	EndYear   mo.Option[int]
}

// Position は職歴の1件
type Position struct {
	Company     string // 別名テーブルで正規化済み
	Title       string
	Start       mo.Option[period.YearMonth]
	End         EndDate
	Description string // "- " 付きの箇条書き、または空文字
}

// EndDate は終了年月または在籍中（Present）を表す
// Present でも At も無い場合は不正な終了日として扱う
type EndDate struct {
	Present bool
	At      mo.Option[period.YearMonth]
}

// PresentEnd は在籍中の EndDate を返す
func PresentEnd() EndDate {
	return EndDate{Present: true}
}

// EndAt は指定年月で終了する EndDate を返す
func EndAt(ym period.YearMonth) EndDate {
	return EndDate{At: mo.Some(ym)}
}

// Malformed は終了日が不正かどうかを返す
func (e EndDate) Malformed() bool {
	return !e.Present && e.At.IsAbsent()
}

// Option は在籍中なら None、終了年月があれば Some を返す
func (e EndDate) Option() mo.Option[period.YearMonth] {
	if e.Present {
		return mo.None[period.YearMonth]()
	}
	return e.At
}
