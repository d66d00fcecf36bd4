package summary_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rasad-feed/internal/usecase/summary"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, summary.DefaultConfig().Validate())
}

func TestConfig_ValidateParagraphs(t *testing.T) {
	cfg := summary.DefaultConfig()
	cfg.Paragraphs = 6
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SUMMARY_PARAGRAPHS", "3")
		t.Setenv("SUMMARY_ARTICLE_TIMEOUT", "20s")
		cfg := summary.LoadConfigFromEnv(logger, nil)
		assert.Equal(t, 3, cfg.Paragraphs)
		assert.Equal(t, 20*time.Second, cfg.ArticleTimeout)
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv("SUMMARY_PARAGRAPHS", "9")
		t.Setenv("SUMMARY_MAX_WORDS", "abc")
		cfg := summary.LoadConfigFromEnv(logger, nil)
		assert.Equal(t, 4, cfg.Paragraphs)
		assert.Equal(t, 200, cfg.MaxWords)
	})
}
