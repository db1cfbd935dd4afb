// Package browser drives a Chromium instance and captures live pages
// into the dom package's model: it owns the session lifecycle, the
// DOMSnapshot capture, and mounting highlight overlays onto the page.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls one browser session.
type Config struct {
	// Headless runs Chromium without a visible window.
	Headless bool

	// ViewportWidth and ViewportHeight set the emulated viewport.
	ViewportWidth  int
	ViewportHeight int

	// Stealth configures the anti-detection measures applied to the page.
	Stealth StealthConfig

	// PageLoadTimeout bounds how long Navigate waits for the load event.
	PageLoadTimeout time.Duration

	// Logger receives session lifecycle logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a headless 1280x720 session with stealth on.
func DefaultConfig() Config {
	return Config{
		Headless:        true,
		ViewportWidth:   1280,
		ViewportHeight:  720,
		Stealth:         DefaultStealthConfig(),
		PageLoadTimeout: 30 * time.Second,
	}
}

// Browser owns one Chromium instance and the single page snapshots are
// taken from. It is not safe for concurrent use.
type Browser struct {
	cfg Config
	log *slog.Logger

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// New returns an unstarted browser.
func New(cfg Config) *Browser {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Browser{cfg: cfg, log: log}
}

// Start launches Chromium, connects, and opens a blank page with the
// configured viewport and stealth measures applied.
func (b *Browser) Start(ctx context.Context) error {
	l := launcher.New().Headless(b.cfg.Headless)
	if b.cfg.Stealth.Enabled {
		for _, f := range stealthFlags {
			if f.value == "" {
				l = l.Set(flags.Flag(f.name))
			} else {
				l = l.Set(flags.Flag(f.name), f.value)
			}
		}
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}

	br := rod.New().ControlURL(u).Context(ctx)
	if err := br.Connect(); err != nil {
		return fmt.Errorf("connect to chromium: %w", err)
	}

	page, err := br.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = br.Close()
		return fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.ViewportWidth,
		Height:            b.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = br.Close()
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := applyStealth(page, b.cfg.Stealth); err != nil {
		_ = br.Close()
		return err
	}

	b.launcher = l
	b.browser = br
	b.page = page
	b.log.Info("browser started",
		"headless", b.cfg.Headless,
		"viewport_width", b.cfg.ViewportWidth,
		"viewport_height", b.cfg.ViewportHeight,
		"stealth", b.cfg.Stealth.Enabled)
	return nil
}

// Navigate loads the URL and waits for the load event.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if b.cfg.PageLoadTimeout > 0 {
		page = page.Timeout(b.cfg.PageLoadTimeout)
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load of %s: %w", url, err)
	}
	b.log.Info("page loaded", "url", url)
	return nil
}

// Screenshot captures the current viewport as PNG bytes.
func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	img, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return img, nil
}

// Page exposes the underlying rod page for operations this package does
// not wrap, such as clicking and typing.
func (b *Browser) Page() *rod.Page { return b.page }

// Close shuts the browser down and cleans up the launcher's temp state.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return fmt.Errorf("close browser: %w", err)
		}
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
	b.log.Info("browser closed")
	return nil
}
