package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/summary"
	"rasad-feed/internal/utils/text"
)

// minRegionRunes is the text length a content selector match needs before
// it is taken as the article body.
const minRegionRunes = 100

const boilerplate = "script, style, noscript, nav, header, footer, aside, form, iframe"

// ParseDocument reduces an article page to a summary.Document. The lead
// comes from src.LeadSelectors, the paragraphs from the first content
// selector region long enough to be an article body. When no region
// qualifies, readability extracts the raw text.
func ParseDocument(body []byte, pageURL *url.URL, src entity.SourceConfig) (*summary.Document, error) {
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &summary.Document{Title: pageTitle(dom)}
	doc.Lead = firstText(dom, src.LeadSelectors)

	dom.Find(boilerplate).Remove()

	region := contentRegion(dom, src.ContentSelectors)
	if region != nil {
		doc.Paragraphs = paragraphs(region)
		doc.RawText = text.CleanArticle(region.Text())
	} else {
		doc.Paragraphs = paragraphs(dom.Find("body"))
	}

	if doc.RawText == "" {
		doc.RawText = readableText(body, pageURL)
	}
	if doc.RawText == "" {
		doc.RawText = text.CleanArticle(dom.Find("body").Text())
	}
	return doc, nil
}

func pageTitle(dom *goquery.Document) string {
	if h := strings.TrimSpace(dom.Find("h1").First().Text()); h != "" {
		return h
	}
	return strings.TrimSpace(dom.Find("title").First().Text())
}

func firstText(dom *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		var found string
		dom.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = strings.Join(strings.Fields(s.Text()), " ")
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func contentRegion(dom *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		var region *goquery.Selection
		dom.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text.CountRunes(strings.TrimSpace(s.Text())) > minRegionRunes {
				region = s
				return false
			}
			return true
		})
		if region != nil {
			return region
		}
	}
	return nil
}

// paragraphs returns the non-empty <p> texts of s, whitespace collapsed.
// A region without <p> elements yields its whole text as one paragraph.
func paragraphs(s *goquery.Selection) []string {
	var out []string
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.Join(strings.Fields(p.Text()), " "); t != "" {
			out = append(out, t)
		}
	})
	if len(out) == 0 {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func readableText(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return text.CleanArticle(article.TextContent)
}
