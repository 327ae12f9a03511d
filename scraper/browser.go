// Package scraper defines the rendering client used by the site scrapers:
// a Browser loads a URL into a Page, and a Page exposes the rendered DOM as
// queryable Elements.
package scraper

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNavigation is returned when a page (or the browser behind it) fails to load.
	ErrNavigation = errors.New("navigation failed")
	// ErrTimeout is returned when a waited-for selector never appears.
	ErrTimeout = errors.New("timed out waiting for selector")
	// ErrNoMatch is returned by Element.Query when nothing matches.
	ErrNoMatch = errors.New("no element matches selector")
)

// Browser loads pages. Close releases the underlying browser process.
type Browser interface {
	Load(url string) (Page, error)
	Close() error
}

// Page is a loaded document.
type Page interface {
	WaitFor(selector string, timeout time.Duration) error
	QueryAll(selector string) ([]Element, error)
	Title() (string, error)
	URL() (string, error)
	HTML() (string, error)
}

// Element is a handle to one node of a Page.
type Element interface {
	// Query resolves selector relative to the element and returns the
	// first match, or ErrNoMatch.
	Query(selector string) (Element, error)
	// Text returns the element's trimmed text.
	Text() (string, error)
}

// WithBrowser opens a browser, hands it to fn and closes it on every exit
// path, including a panic unwinding out of fn.
func WithBrowser(open func() (Browser, error), fn func(Browser) error) (err error) {
	b, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("scraper: close browser: %w", cerr)
		}
	}()
	return fn(b)
}
