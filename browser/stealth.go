package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// StealthConfig configures anti-detection measures. Snapshot capture
// itself needs none of this, but pages that fingerprint automation
// often serve bot walls instead of their real DOM.
type StealthConfig struct {
	// Enabled turns the stealth measures on.
	Enabled bool

	// UserAgent overrides the browser user agent.
	UserAgent string

	// Locale is sent as the Accept-Language value (e.g. "en-US").
	Locale string

	// Timezone overrides the browser timezone (e.g. "America/New_York").
	Timezone string

	// WebGLVendor and WebGLRenderer spoof the WebGL strings headless
	// Chromium exposes.
	WebGLVendor   string
	WebGLRenderer string
}

// DefaultStealthConfig returns a plausible desktop Chrome profile.
func DefaultStealthConfig() StealthConfig {
	return StealthConfig{
		Enabled:       true,
		UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Locale:        "en-US",
		Timezone:      "America/Los_Angeles",
		WebGLVendor:   "Google Inc. (Apple)",
		WebGLRenderer: "ANGLE (Apple, ANGLE Metal Renderer: Apple M2 Pro, Unspecified Version)",
	}
}

// stealthJS patches the fingerprint surfaces headless detection checks:
// the webdriver flag, plugin and language lists, the permissions query,
// the chrome runtime object, and hardware hints.
const stealthJS = `
(() => {
    Object.defineProperty(navigator, 'webdriver', { get: () => undefined, configurable: true });
    delete navigator.__proto__.webdriver;

    const plugins = [
        { name: 'Chrome PDF Plugin', description: 'Portable Document Format', filename: 'internal-pdf-viewer' },
        { name: 'Chrome PDF Viewer', description: '', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai' },
        { name: 'Native Client', description: '', filename: 'internal-nacl-plugin' }
    ];
    plugins.item = (i) => plugins[i];
    plugins.namedItem = (n) => plugins.find((p) => p.name === n) || null;
    plugins.refresh = () => {};
    Object.defineProperty(navigator, 'plugins', { get: () => plugins, configurable: true });

    Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'], configurable: true });

    const query = navigator.permissions.query.bind(navigator.permissions);
    navigator.permissions.query = (p) =>
        p.name === 'notifications'
            ? Promise.resolve({ state: Notification.permission })
            : query(p);

    if (!window.chrome) window.chrome = {};
    if (!window.chrome.runtime) {
        window.chrome.runtime = {
            connect: () => {},
            sendMessage: () => {},
            onMessage: { addListener: () => {}, removeListener: () => {} }
        };
    }
    if (!window.chrome.loadTimes) {
        window.chrome.loadTimes = () => ({
            commitLoadTime: Date.now() / 1000,
            connectionInfo: 'h2',
            navigationType: 'Other'
        });
    }

    Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => 8 });
    Object.defineProperty(navigator, 'deviceMemory', { get: () => 8 });
    Object.defineProperty(screen, 'availWidth', { get: () => window.innerWidth });
    Object.defineProperty(screen, 'availHeight', { get: () => window.innerHeight });
})();
`

// applyStealth installs the configured overrides on the page. The
// script goes in through EvalOnNewDocument so it runs before any page
// script on every navigation.
func applyStealth(page *rod.Page, cfg StealthConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.Locale,
		}); err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}

	if cfg.Timezone != "" {
		// Timezone spoofing is best-effort; some platforms reject it.
		_ = proto.EmulationSetTimezoneOverride{TimezoneID: cfg.Timezone}.Call(page)
	}

	script := stealthJS
	if cfg.WebGLVendor != "" || cfg.WebGLRenderer != "" {
		script += webglOverride(cfg.WebGLVendor, cfg.WebGLRenderer)
	}
	if _, err := page.EvalOnNewDocument(script); err != nil {
		return fmt.Errorf("inject stealth script: %w", err)
	}
	return nil
}

// webglOverride patches getParameter on both WebGL contexts. 37445 and
// 37446 are UNMASKED_VENDOR_WEBGL and UNMASKED_RENDERER_WEBGL.
func webglOverride(vendor, renderer string) string {
	return fmt.Sprintf(`
(() => {
    for (const ctx of [WebGLRenderingContext, WebGL2RenderingContext]) {
        const orig = ctx.prototype.getParameter;
        ctx.prototype.getParameter = function (p) {
            if (p === 37445) return %q;
            if (p === 37446) return %q;
            return orig.call(this, p);
        };
    }
})();
`, vendor, renderer)
}

type launchFlag struct {
	name  string
	value string
}

// stealthFlags are the Chromium switches applied in stealth mode. The
// blink feature switch is the one that actually hides webdriver; the
// rest keep background pages responsive and avoid headless-only
// failure modes.
var stealthFlags = []launchFlag{
	{"disable-blink-features", "AutomationControlled"},
	{"disable-infobars", ""},
	{"disable-dev-shm-usage", ""},
	{"disable-renderer-backgrounding", ""},
	{"disable-backgrounding-occluded-windows", ""},
	{"disable-background-timer-throttling", ""},
	{"no-sandbox", ""},
}
