package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rasad-feed/internal/utils/text"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "ascii punctuation and case", input: "  Hello,   World! ", want: "hello world"},
		{name: "persian comma and bang", input: "دولت، بودجه را تصویب کرد!", want: "دولت بودجه را تصویب کرد"},
		{name: "guillemets", input: "«فوری» زلزله در تهران", want: "فوری زلزله در تهران"},
		{name: "zwnj removed", input: "رئیس‌جمهور", want: "رئیسجمهور"},
		{name: "tabs and newlines", input: "a\tb\n\nc", want: "a b c"},
		{name: "only symbols", input: "!!! ... ؟", want: ""},
		{name: "underscore and digits kept", input: "snake_case ۱۴۰۳ 2024", want: "snake_case ۱۴۰۳ 2024"},
		{name: "decomposed accent composes", input: "Cafe\u0301", want: "caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Breaking: Markets FALL 5%!",
		"دولت، بودجه را تصویب کرد!",
		"  «رئیس‌جمهور»   به نیویورک سفر کرد... ",
		"İstanbul",
		"Café — déjà vu",
		"ᄀ-ᅡ",
	}
	for _, in := range inputs {
		once := text.Normalize(in)
		assert.Equal(t, once, text.Normalize(once), "input %q", in)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "query stripped", input: "https://www.irna.ir/news/123?utm_source=x", want: "https://www.irna.ir/news/123"},
		{name: "case folded and trimmed", input: "  HTTPS://WWW.BBC.COM/Persian/Articles/C1  ", want: "https://www.bbc.com/persian/articles/c1"},
		{name: "fragment kept", input: "https://a.ir/n/1?x=1#top", want: "https://a.ir/n/1#top"},
		{name: "no query", input: "https://a.ir/n/1", want: "https://a.ir/n/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.NormalizeURL(tt.input))
		})
	}
}
