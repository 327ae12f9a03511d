package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"apartment-scraper/config"
	"apartment-scraper/utils"
)

const (
	navigationTimeout = 60 * time.Second
	elementTimeout    = 5 * time.Second
)

// ChromeBrowser drives a single headless Chrome tab through chromedp.
type ChromeBrowser struct {
	logger      *utils.Logger
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewChromeBrowser launches Chrome with the configured flags and opens one tab.
func NewChromeBrowser(cfg *config.Config, logger *utils.Logger) (*ChromeBrowser, error) {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[chrome] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	b := &ChromeBrowser{
		logger:      logger,
		ctx:         tabCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}

	// An empty Run starts the browser process.
	if err := chromedp.Run(tabCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: start chrome: %v", ErrNavigation, err)
	}
	return b, nil
}

// Load navigates the tab to url.
func (b *ChromeBrowser) Load(url string) (Page, error) {
	ctx, cancel := context.WithTimeout(b.ctx, navigationTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return &chromePage{ctx: b.ctx}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *ChromeBrowser) Close() error {
	var err error
	if b.ctx != nil {
		if cerr := chromedp.Cancel(b.ctx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = cerr
		}
		b.ctx = nil
	}
	if b.cancelTab != nil {
		b.cancelTab()
		b.cancelTab = nil
	}
	if b.cancelAlloc != nil {
		b.cancelAlloc()
		b.cancelAlloc = nil
	}
	return err
}

type chromePage struct {
	ctx context.Context
}

func (p *chromePage) WaitFor(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q after %v", ErrTimeout, selector, timeout)
	}
	return fmt.Errorf("chrome: wait for %q: %w", selector, err)
}

func (p *chromePage) QueryAll(selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(p.ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("chrome: query %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{ctx: p.ctx, node: n})
	}
	return elements, nil
}

func (p *chromePage) Title() (string, error) {
	var title string
	if err := chromedp.Run(p.ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("chrome: title: %w", err)
	}
	return title, nil
}

func (p *chromePage) URL() (string, error) {
	var loc string
	if err := chromedp.Run(p.ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("chrome: location: %w", err)
	}
	return loc, nil
}

func (p *chromePage) HTML() (string, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("chrome: outer html: %w", err)
	}
	return html, nil
}

type chromeElement struct {
	ctx  context.Context
	node *cdp.Node
}

func (e *chromeElement) Query(selector string) (Element, error) {
	ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(selector, &nodes,
		chromedp.ByQuery, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("chrome: query %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, selector)
	}
	return &chromeElement{ctx: e.ctx, node: nodes[0]}, nil
}

// Text returns the node's rendered innerText, trimmed.
func (e *chromeElement) Text() (string, error) {
	ctx, cancel := context.WithTimeout(e.ctx, elementTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx, chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("chrome: text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
