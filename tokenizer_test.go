package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer(t *testing.T) {
	for _, tc := range []struct {
		name   string
		source string
		tokens []token
	}{
		{"empty", "", nil},
		{"all whitespace", " \t\n  ", nil},
		{"words", "dup swap", []token{
			{text: "dup"},
			{text: "swap"},
		}},
		{"literals", "1 -2 +3", []token{
			{text: "1", num: 1, lit: true},
			{text: "-2", num: -2, lit: true},
			{text: "+3", num: 3, lit: true},
		}},
		{"bare minus is a word", "-", []token{
			{text: "-"},
		}},
		{"mixed separators", "1\tdup\n2", []token{
			{text: "1", num: 1, lit: true},
			{text: "dup"},
			{text: "2", num: 2, lit: true},
		}},
		{"digits glued to letters are words", "2dup", []token{
			{text: "2dup"},
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tz := tokenizer{source: tc.source}
			var got []token
			for {
				tok, ok := tz.word()
				if !ok {
					break
				}
				got = append(got, tok)
			}
			assert.Equal(t, tc.tokens, got)
			assert.False(t, tz.more(), "expected the source consumed")
		})
	}
}

func TestTokenizer_head_monotonic(t *testing.T) {
	tz := tokenizer{source: "  a bb  ccc "}
	last := tz.head
	for {
		_, ok := tz.word()
		assert.GreaterOrEqual(t, tz.head, last, "head may only advance")
		last = tz.head
		if !ok {
			break
		}
	}
}
