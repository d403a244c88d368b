// Package apperr はタレントタグ付けパイプライン全体で共有するエラー分類を定義する
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInput はプロフィール入力の不正・必須フィールド欠落を表す（リクエスト中断）
	ErrInput = errors.New("malformed input")

	// ErrDataGap は会社・ニュース・学歴データの欠落を表す（該当セクションのみ縮退）
	ErrDataGap = errors.New("data gap")

	// ErrService は生成・Embeddingサービスの失敗を表す
	ErrService = errors.New("service failure")

	// ErrConflict は匿名名の重複を表す（想定内であり no-op として扱う）
	ErrConflict = errors.New("persistence conflict")
)

// Error は分類（Kind）と発生箇所（Op）を保持するエラー
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap は errors.Is で Kind と原因の両方を辿れるようにする
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Input は InputError を生成する
func Input(op string, err error) error {
	return &Error{Kind: ErrInput, Op: op, Err: err}
}

// DataGap は DataGapWarning を生成する
func DataGap(op string, err error) error {
	return &Error{Kind: ErrDataGap, Op: op, Err: err}
}

// Service は ServiceError を生成する
func Service(op string, err error) error {
	return &Error{Kind: ErrService, Op: op, Err: err}
}

// HTTPStatus はエラー分類に対応するHTTPステータスコードを返す
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrService):
		return http.StatusBadGateway
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
