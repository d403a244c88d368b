// Package tokenizer はニュースタイトル向けの単語分割を提供する
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/jinford/talent-tagger/internal/core/news"
)

// particles は語末から取り除く助詞（長いものから照合する）
var particles = []string{
	"에서는", "으로는", "에게서",
	"에서", "으로", "에게", "한테", "까지", "부터", "보다", "처럼", "이며", "이고",
	"은", "는", "이", "가", "을", "를", "의", "에", "로", "와", "과", "도", "만",
}

// Tokenizer はUnicodeの単語境界で分割し、韓国語の助詞を取り除く
type Tokenizer struct {
	minRunes int
}

var _ news.Tokenizer = (*Tokenizer)(nil)

// New は新しいTokenizerを作成する
func New() *Tokenizer {
	return &Tokenizer{minRunes: 1}
}

// Tokenize はテキストを語のスライスに分割する
func (t *Tokenizer) Tokenize(text string) []string {
	var out []string

	tokens := words.FromString(text)
	for tokens.Next() {
		tok := tokens.Value()
		if !isWord(tok) {
			continue
		}
		tok = strings.ToLower(stripParticle(tok))
		if utf8.RuneCountInString(tok) < t.minRunes {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// stripParticle はハングルで終わる語から助詞を1つ取り除く。語幹が1文字未満になる場合は残す
func stripParticle(tok string) string {
	last, _ := utf8.DecodeLastRuneInString(tok)
	if !unicode.Is(unicode.Hangul, last) {
		return tok
	}
	for _, p := range particles {
		if !strings.HasSuffix(tok, p) {
			continue
		}
		stem := strings.TrimSuffix(tok, p)
		if utf8.RuneCountInString(stem) >= 2 {
			return stem
		}
	}
	return tok
}
