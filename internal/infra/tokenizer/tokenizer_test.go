package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := New()

	got := tok.Tokenize("비바리퍼블리카가 시리즈G 투자를 유치했다, MAU 2,000만 돌파!")

	assert.Contains(t, got, "비바리퍼블리카")
	assert.Contains(t, got, "투자")
	assert.Contains(t, got, "mau")
	assert.NotContains(t, got, ",")
	assert.NotContains(t, got, "!")
}

func TestTokenizer_Tokenize_Empty(t *testing.T) {
	assert.Empty(t, New().Tokenize("  ... "))
}

func TestStripParticle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"네이버에서", "네이버"},
		{"서비스를", "서비스"},
		{"토스", "토스"},
		{"나는", "나는"},
		{"IPO", "IPO"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, stripParticle(tt.in))
		})
	}
}
