package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      NewsItem
		wantField string
	}{
		{
			name: "valid item",
			item: NewsItem{Title: "خبر", URL: "https://www.irna.ir/news/1", Agency: "IRNA"},
		},
		{
			name:      "empty title",
			item:      NewsItem{Title: "  ", URL: "https://www.irna.ir/news/1", Agency: "IRNA"},
			wantField: "title",
		},
		{
			name:      "empty agency",
			item:      NewsItem{Title: "خبر", URL: "https://www.irna.ir/news/1"},
			wantField: "agency",
		},
		{
			name:      "relative url",
			item:      NewsItem{Title: "خبر", URL: "/news/1", Agency: "IRNA"},
			wantField: "url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			if assert.True(t, errors.As(err, &ve)) {
				assert.Equal(t, tt.wantField, ve.Field)
			}
			assert.True(t, errors.Is(err, ErrValidationFailed))
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://www.bbc.com/persian/articles/c1", wantErr: false},
		{name: "http with port", url: "http://127.0.0.1:8080/x", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/feed", wantErr: true},
		{name: "javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourceConfig_Validate(t *testing.T) {
	valid := SourceConfig{
		Agency:  "ISNA",
		BaseURL: "https://www.isna.ir",
		Rules:   []SelectionRule{{Selector: "div.news-list h3 a"}},
		Limit:   10,
	}
	assert.NoError(t, valid.Validate())

	feed := SourceConfig{Agency: "Feed", BaseURL: "https://example.com", FeedURL: "https://example.com/rss", Limit: 5}
	assert.NoError(t, feed.Validate())

	noRules := valid
	noRules.Rules = nil
	assert.Error(t, noRules.Validate())

	badMode := valid
	badMode.Rules = []SelectionRule{{Selector: "h3", Mode: "table"}}
	assert.Error(t, badMode.Validate())

	noLimit := valid
	noLimit.Limit = 0
	assert.Error(t, noLimit.Validate())
}

func TestSourceConfig_Defaults(t *testing.T) {
	s := SourceConfig{BaseURL: "https://www.irna.ir/"}
	assert.True(t, s.IsEnabled())
	assert.Equal(t, "https://www.irna.ir/", s.PageURL())

	off := false
	s.Enabled = &off
	s.ListURL = "https://www.irna.ir/top"
	assert.False(t, s.IsEnabled())
	assert.Equal(t, "https://www.irna.ir/top", s.PageURL())
}

func TestHighlightGroup_Agencies(t *testing.T) {
	g := HighlightGroup{Items: []*NewsItem{
		{Agency: "IRNA"}, {Agency: "ISNA"}, {Agency: "IRNA"},
	}}
	assert.Equal(t, []string{"IRNA", "ISNA"}, g.Agencies())
}

func TestDailyMessage_Validate(t *testing.T) {
	assert.NoError(t, (&DailyMessage{Title: "t", Content: "c", Priority: 1}).Validate())
	assert.Error(t, (&DailyMessage{Content: "c"}).Validate())
	assert.Error(t, (&DailyMessage{Title: "t"}).Validate())
	assert.Error(t, (&DailyMessage{Title: "t", Content: "c", Priority: -1}).Validate())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "title", Message: "title is required"}
	assert.Equal(t, "validation error on field 'title': title is required", err.Error())
}
