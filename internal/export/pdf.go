// Package export renders a served presentation to PDF in a headless browser.
package export

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a whole export, browser start-up included.
const DefaultTimeout = 60 * time.Second

// Options configures a PDF export.
type Options struct {
	Timeout     time.Duration
	SettleDelay time.Duration // time given to the framework to lay out print pages
	Verbose     bool
}

// DefaultOptions returns sensible defaults for exporting.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		SettleDelay: 2 * time.Second,
	}
}

// PrintURL returns deckURL with the print-pdf query flag that switches the
// slide framework into its paginated print layout.
func PrintURL(deckURL string) (string, error) {
	u, err := url.Parse(deckURL)
	if err != nil {
		return "", fmt.Errorf("invalid presentation URL %q: %w", deckURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid presentation URL %q: must have scheme and host", deckURL)
	}

	switch {
	case u.RawQuery == "":
		u.RawQuery = "print-pdf"
	case !u.Query().Has("print-pdf"):
		u.RawQuery += "&print-pdf"
	}
	return u.String(), nil
}

// PDF opens the presentation at deckURL in headless Chrome and prints it.
// Requires Chrome/Chromium to be installed on the system.
func PDF(ctx context.Context, deckURL string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	target, err := PrintURL(deckURL)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.Printf("[EXPORT] Starting headless browser for: %s", target)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf export failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[EXPORT] Printed PDF: %d bytes", len(pdf))
	}

	return pdf, nil
}
