// Package browser wraps a headless Chrome instance behind the small surface
// the preview and export pipelines need: height measurement, full-content
// screenshots with hyperlink geometry, and print-to-PDF.
//
// A Session reuses one browser process across calls and is safe for
// concurrent use; each call runs in its own tab.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrClosed is returned when using a closed Session.
var ErrClosed = errors.New("browser: session is closed")

// sessionConfig holds internal configuration for a Session.
type sessionConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	settleDelay  time.Duration
}

func defaultConfig() sessionConfig {
	return sessionConfig{
		timeout:     60 * time.Second,
		settleDelay: 100 * time.Millisecond,
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithChromePath sets the Chrome/Chromium executable path explicitly.
func WithChromePath(path string) Option {
	return func(c *sessionConfig) { c.chromePath = path }
}

// WithTimeout bounds a single browser operation. Defaults to 60s.
func WithTimeout(d time.Duration) Option {
	return func(c *sessionConfig) { c.timeout = d }
}

// WithNoSandbox disables the Chrome sandbox (needed when running as root,
// for example inside containers).
func WithNoSandbox() Option {
	return func(c *sessionConfig) { c.noSandbox = true }
}

// WithAutoDownload downloads a compatible Chromium binary when none is
// found in PATH. The binary is cached under the user cache directory.
func WithAutoDownload() Option {
	return func(c *sessionConfig) { c.autoDownload = true }
}

// WithSettleDelay sets the fixed post-fonts reflow wait used before
// measurement and capture. Defaults to 100ms.
func WithSettleDelay(d time.Duration) Option {
	return func(c *sessionConfig) { c.settleDelay = d }
}

// Session owns a running headless browser.
type Session struct {
	cfg           sessionConfig
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewSession starts the browser eagerly so errors surface at creation time.
// The caller must call Close when finished.
func NewSession(opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("browser: downloading chromium: %w", err)
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("browser: starting: %w", err)
	}

	return &Session{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases the browser process. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.browserCancel()
	s.allocCancel()
	return nil
}

func (s *Session) checkClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// settle waits for font loading to finish and then a short fixed delay.
// Layout reflow after a font swap is asynchronous; measuring before this
// double wait yields a too-small height on first paint.
func (s *Session) settle() chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, nil,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
		chromedp.Sleep(s.cfg.settleDelay),
	}
}

// withTab runs tasks in a fresh tab navigated to html.
func (s *Session) withTab(ctx context.Context, html string, tasks ...chromedp.Action) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	f, err := os.CreateTemp("", "cvbuilder-*.html")
	if err != nil {
		return fmt.Errorf("browser: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("browser: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("browser: closing temp file: %w", err)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("browser: resolving path: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()
	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, s.cfg.timeout)
		defer cancel()
	}
	// Honor caller cancellation on top of the tab context.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-done:
		}
	}()

	all := append(chromedp.Tasks{
		chromedp.Navigate("file://" + abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}, tasks...)
	if err := chromedp.Run(tabCtx, all...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

// MeasureHeight lays out html at the fixed page width and returns the total
// content height in CSS pixels, after the two-stage settle.
func (s *Session) MeasureHeight(ctx context.Context, html string) (float64, error) {
	var height float64
	err := s.withTab(ctx, html,
		chromedp.EmulateViewport(794, 1122),
		s.settle(),
		chromedp.Evaluate(`Math.max(document.body.scrollHeight, document.documentElement.scrollHeight) * 1.0`, &height),
	)
	if err != nil {
		return 0, err
	}
	return height, nil
}
