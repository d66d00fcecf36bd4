package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rasad-feed/internal/utils/text"
)

func TestIsSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: "دولت بودجه را تصویب کرد", b: "دولت بودجه را تصویب کرد", want: true},
		{name: "punctuation only difference", a: "دولت بودجه را تصویب کرد", b: "دولت، بودجه را تصویب کرد.", want: true},
		{name: "one word differs", a: "دولت بودجه سال آینده را تصویب کرد", b: "دولت بودجه سال آینده را تصویب نمود", want: true},
		{name: "zwnj vs space", a: "رئیس جمهور به نیویورک سفر کرد", b: "رئیس‌جمهور به نیویورک سفر کرد", want: true},
		{name: "unrelated", a: "دولت بودجه را تصویب کرد", b: "تیم ملی فوتبال برد", want: false},
		{name: "no overlap", a: "abc", b: "xyz", want: false},
		{name: "empty left", a: "", b: "anything", want: false},
		{name: "empty right", a: "anything", b: "", want: false},
		{name: "both empty", a: "", b: "", want: false},
		{name: "symbols only", a: "!!!", b: "!!!", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.IsSimilar(tt.a, tt.b, text.DefaultThreshold))
			assert.Equal(t, tt.want, text.IsSimilar(tt.b, tt.a, text.DefaultThreshold), "symmetry")
		})
	}
}

func TestIsSimilar_SelfAtAnyThreshold(t *testing.T) {
	titles := []string{"a", "Markets fall", "دولت بودجه را تصویب کرد", "زلزله ۵ ریشتری"}
	for _, title := range titles {
		for _, th := range []float64{0, 0.5, 0.8, 0.99, 1.0} {
			assert.True(t, text.IsSimilar(title, title, th), "%q at %v", title, th)
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, text.Similarity("Hello!", "hello"))
	assert.Equal(t, 0.0, text.Similarity("", "hello"))
	assert.InDelta(t, 0.947, text.Similarity("the quick brown fox", "the quick brown fix"), 0.001)

	r := text.Similarity("دولت بودجه را تصویب کرد", "تیم ملی فوتبال برد")
	assert.Less(t, r, text.DefaultThreshold)
	assert.Equal(t, r, text.Similarity("تیم ملی فوتبال برد", "دولت بودجه را تصویب کرد"))
}

func TestMatcher(t *testing.T) {
	m := text.NewMatcher([]string{"!!!", "دولت بودجه را تصویب کرد", "تیم ملی فوتبال برد"}, text.DefaultThreshold)
	assert.Equal(t, 2, m.Len())

	got, ok := m.Match("دولت بودجه را تصویب کرد!")
	assert.True(t, ok)
	assert.Equal(t, "دولت بودجه را تصویب کرد", got)

	_, ok = m.Match("قیمت طلا کاهش یافت")
	assert.False(t, ok)

	m.Add("قیمت طلا کاهش یافت")
	_, ok = m.Match("قیمت طلا کاهش یافت")
	assert.True(t, ok)

	_, ok = m.Match("")
	assert.False(t, ok)
}
