package summary

import (
	"context"
	"log/slog"
	"strings"

	"rasad-feed/internal/utils/text"
)

// Strategy is one step of the chain. Run reports ok=false to pass the
// document on to the next step.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, doc *Document) (string, bool)
}

// Strategy names, also used as the strategy metric label.
const (
	StrategyLead       = "lead"
	StrategyExtractive = "extractive"
	StrategyExternal   = "external"
	StrategyFallback   = "fallback"
	StrategyNone       = "none"
)

// LeadStrategy uses the document lead, or its first paragraph, verbatim.
// It is a length and suffix heuristic: a teaser cut by the publisher with
// "..." or "…" is rejected, anything else within bounds is accepted.
func LeadStrategy(cfg Config) Strategy {
	return Strategy{
		Name: StrategyLead,
		Run: func(_ context.Context, doc *Document) (string, bool) {
			lead := strings.TrimSpace(doc.Lead)
			if lead == "" && len(doc.Paragraphs) > 0 {
				lead = strings.TrimSpace(doc.Paragraphs[0])
			}
			if lead == "" || text.HasTruncationSuffix(lead) {
				return "", false
			}
			n := text.CountRunes(lead)
			if n < cfg.LeadMin || n > cfg.LeadMax {
				return "", false
			}
			return lead, true
		},
	}
}

// ExtractiveStrategy joins the first qualifying main-content paragraphs.
func ExtractiveStrategy(cfg Config) Strategy {
	return Strategy{
		Name: StrategyExtractive,
		Run: func(_ context.Context, doc *Document) (string, bool) {
			picked := make([]string, 0, cfg.Paragraphs)
			for _, p := range doc.Paragraphs {
				p = strings.TrimSpace(p)
				n := text.CountRunes(p)
				if n < cfg.ParagraphMin || n > cfg.ParagraphMax {
					continue
				}
				picked = append(picked, p)
				if len(picked) == cfg.Paragraphs {
					break
				}
			}
			if len(picked) == 0 {
				return "", false
			}
			return text.TruncateRunes(strings.Join(picked, "\n\n"), cfg.ExtractiveMax, text.Ellipsis), true
		},
	}
}

// ExternalStrategy asks the summarization service. Its errors are logged
// and never returned.
func ExternalStrategy(cfg Config, s Summarizer) Strategy {
	return Strategy{
		Name: StrategyExternal,
		Run: func(ctx context.Context, doc *Document) (string, bool) {
			if s == nil {
				return "", false
			}
			content := documentText(doc)
			if content == "" {
				return "", false
			}
			out, err := s.Summarize(ctx, content, doc.Title)
			if err != nil {
				slog.Warn("external summarizer failed",
					slog.String("title", doc.Title),
					slog.Any("error", err))
				return "", false
			}
			out = strings.TrimSpace(out)
			if out == "" {
				return "", false
			}
			out = text.TruncateWords(out, cfg.MaxWords, text.Ellipsis)
			return text.TruncateRunes(out, cfg.MaxRunes, text.Ellipsis), true
		},
	}
}

// FallbackStrategy hard-cuts the raw page text.
func FallbackStrategy(cfg Config) Strategy {
	return Strategy{
		Name: StrategyFallback,
		Run: func(_ context.Context, doc *Document) (string, bool) {
			content := documentText(doc)
			if content == "" {
				return "", false
			}
			return text.TruncateRunes(content, cfg.FallbackRunes, text.Ellipsis), true
		},
	}
}

func documentText(doc *Document) string {
	if raw := strings.TrimSpace(doc.RawText); raw != "" {
		return raw
	}
	return strings.TrimSpace(strings.Join(doc.Paragraphs, "\n\n"))
}
