package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"rasad-feed/internal/domain/entity"
)

// BrowserLoader renders pages in headless Chrome for sources whose listing
// is built client-side.
type BrowserLoader struct {
	timeout        time.Duration
	userAgent      string
	execPath       string
	denyPrivateIPs bool
}

// NewBrowserLoader returns a loader that starts one headless browser per
// Load call. execPath may be empty to let chromedp find Chrome on PATH.
func NewBrowserLoader(execPath string, timeout time.Duration, denyPrivateIPs bool) *BrowserLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserLoader{
		timeout:        timeout,
		userAgent:      DefaultUserAgent,
		execPath:       execPath,
		denyPrivateIPs: denyPrivateIPs,
	}
}

// Load navigates to pageURL, waits for src.WaitSelector (or <body>) and
// returns the rendered document.
func (b *BrowserLoader) Load(ctx context.Context, pageURL string, src entity.SourceConfig) ([]byte, error) {
	if err := ValidateURL(pageURL, b.denyPrivateIPs); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.userAgent),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := b.timeout
	if src.Timeout > 0 {
		timeout = src.Timeout
	}
	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	wait := src.WaitSelector
	if wait == "" {
		wait = "body"
	}

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(wait, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("browser render %s: %w", pageURL, err)
	}
	return []byte(html), nil
}
