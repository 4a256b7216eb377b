// Package feed abstracts the live TikTok feed behind a small capability
// interface so the scraping core can be tested against a fake feed.
package feed

import (
	"context"
	"time"
)

// Source is the browser-automation capability the scraping core consumes.
// Implementations own exactly one live session; all methods are called from
// the polling goroutine only.
type Source interface {
	// QueryAll returns the visible text of every element matching selector,
	// in document order.
	QueryAll(ctx context.Context, selector string) ([]string, error)

	// WaitFor blocks until an element matching selector is visible or the
	// timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Advance scrolls the feed to its end to trigger loading of new items.
	Advance(ctx context.Context) error

	// Content returns the full serialized page content.
	Content(ctx context.Context) (string, error)

	// Close tears down the session.
	Close() error
}
