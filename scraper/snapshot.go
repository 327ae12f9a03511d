package scraper

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// SnapshotBrowser serves a saved HTML document instead of a live page.
// Every Load returns a freshly parsed copy of the same markup.
type SnapshotBrowser struct {
	html   string
	closed bool
}

// NewSnapshotBrowser wraps in-memory markup.
func NewSnapshotBrowser(html string) *SnapshotBrowser {
	return &SnapshotBrowser{html: html}
}

// NewSnapshotBrowserFromFile reads the markup from a saved page on disk.
func NewSnapshotBrowserFromFile(path string) (*SnapshotBrowser, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot %q: %v", ErrNavigation, path, err)
	}
	return NewSnapshotBrowser(string(b)), nil
}

func (b *SnapshotBrowser) Load(url string) (Page, error) {
	if b.closed {
		return nil, fmt.Errorf("%w: snapshot browser closed", ErrNavigation)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse snapshot: %v", ErrNavigation, err)
	}
	return &snapshotPage{doc: doc, url: url}, nil
}

func (b *SnapshotBrowser) Close() error {
	b.closed = true
	return nil
}

type snapshotPage struct {
	doc *goquery.Document
	url string
}

// WaitFor cannot block on static markup: the selector either matches now
// or never will.
func (p *snapshotPage) WaitFor(selector string, timeout time.Duration) error {
	sel, err := find(p.doc.Selection, selector)
	if err != nil {
		return err
	}
	if sel.Length() == 0 {
		return fmt.Errorf("%w: %q after %v", ErrTimeout, selector, timeout)
	}
	return nil
}

func (p *snapshotPage) QueryAll(selector string) ([]Element, error) {
	sel, err := find(p.doc.Selection, selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &snapshotElement{sel: s})
	})
	return elements, nil
}

func (p *snapshotPage) Title() (string, error) {
	return strings.TrimSpace(p.doc.Find("title").First().Text()), nil
}

func (p *snapshotPage) URL() (string, error) {
	return p.url, nil
}

func (p *snapshotPage) HTML() (string, error) {
	return p.doc.Html()
}

type snapshotElement struct {
	sel *goquery.Selection
}

func (e *snapshotElement) Query(selector string) (Element, error) {
	sel, err := find(e.sel, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, selector)
	}
	return &snapshotElement{sel: sel.First()}, nil
}

func (e *snapshotElement) Text() (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func find(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("snapshot: compile selector %q: %w", selector, err)
	}
	return root.FindMatcher(m), nil
}
