package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"rasad-feed/internal/domain/entity"
)

// SourceExtractor lists the current candidate items of one source.
// Only total failure (network, timeout, render, parse) is an error; a page
// where no rule matches yields an empty list.
type SourceExtractor interface {
	ListCandidates(ctx context.Context, src entity.SourceConfig) ([]entity.CandidateItem, error)
}

// HTMLExtractor lists candidates by applying CSS selection rules to a
// listing page.
type HTMLExtractor struct {
	loader PageLoader
}

// NewHTMLExtractor creates an extractor that reads pages through loader.
func NewHTMLExtractor(loader PageLoader) *HTMLExtractor {
	return &HTMLExtractor{loader: loader}
}

func (e *HTMLExtractor) ListCandidates(ctx context.Context, src entity.SourceConfig) ([]entity.CandidateItem, error) {
	body, err := e.loader.Load(ctx, src.PageURL(), src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Agency, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Agency, err)
	}
	return ExtractCandidates(doc, src), nil
}

// ExtractCandidates applies src.Rules in order. Every rule contributes
// until the limit is reached, so a rule with no usable match simply falls
// through to the next one.
func ExtractCandidates(doc *goquery.Document, src entity.SourceConfig) []entity.CandidateItem {
	base := baseURL(src.BaseURL, src.PageURL())

	c := newCollector(src.Limit, src.MinTitleLength)
	for _, rule := range src.Rules {
		if c.full() {
			break
		}
		doc.Find(rule.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			title, href := pick(sel, rule.Mode)
			c.add(entity.CandidateItem{
				Title: title,
				URL:   resolveURL(base, href),
			})
			return !c.full()
		})
	}
	return c.items
}

// pick returns the title text and raw href for one matched element.
func pick(sel *goquery.Selection, mode entity.SelectionMode) (string, string) {
	title := sel.Text()
	if mode == entity.ModeHeading {
		// 見出しの場合はリンクを親の <article> から探す
		link := sel.Closest("article").Find("a").First()
		href, _ := link.Attr("href")
		return title, href
	}
	href, ok := sel.Attr("href")
	if !ok {
		href, _ = sel.Find("a").First().Attr("href")
	}
	return title, href
}
