package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/DankoOfficial/angrybird/internal/auth"
	"github.com/DankoOfficial/angrybird/internal/browser"
)

// Chrome is a Source backed by a single long-lived chromedp session. Unlike
// a scrape-and-quit crawler the session stays open across polling cycles
// until Close is called.
type Chrome struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// OpenChrome launches a browser, injects the session cookies and navigates
// to the feed URL. The returned Chrome owns the session until Close.
func OpenChrome(ctx context.Context, headless bool, cookies []auth.Cookie, feedURL string) (*Chrome, error) {
	opts := browser.Options(headless)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	c := &Chrome{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}

	if err := c.injectCookies(cookies); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to inject cookies: %w", err)
	}

	if err := chromedp.Run(browserCtx, chromedp.Navigate(feedURL)); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}

	return c, nil
}

// injectCookies sets cookies in the browser context
func (c *Chrome) injectCookies(cookies []auth.Cookie) error {
	params := auth.SetCookieParams(cookies)
	return chromedp.Run(c.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, p := range params {
				if err := p.Do(ctx); err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// QueryAll returns the visible text of all elements matching selector.
func (c *Chrome) QueryAll(ctx context.Context, selector string) ([]string, error) {
	extractJS := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.innerText)`,
		selector,
	)

	var texts []string
	if err := c.runWith(ctx, chromedp.Evaluate(extractJS, &texts)); err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	return texts, nil
}

// WaitFor blocks until selector is visible or timeout elapses.
func (c *Chrome) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.runWith(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// Advance scrolls to the end of the page, the equivalent of pressing End,
// which triggers the feed to load more items.
func (c *Chrome) Advance(ctx context.Context) error {
	err := c.runWith(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
	if err != nil {
		return fmt.Errorf("failed to advance feed: %w", err)
	}
	return nil
}

// Content returns the serialized page HTML, used for the login-identity scan.
func (c *Chrome) Content(ctx context.Context) (string, error) {
	var html string
	if err := c.runWith(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Close tears down the browser session.
func (c *Chrome) Close() error {
	c.cancelBrowser()
	c.cancelAlloc()
	return nil
}

// runWith executes CDP actions on the browser context while honoring
// cancellation of the caller's context.
func (c *Chrome) runWith(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		// Report the caller's cancellation or deadline if that is what
		// aborted the command.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
