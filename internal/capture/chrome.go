package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/bobmcallan/dev-center-review/internal/common"
	"github.com/bobmcallan/dev-center-review/internal/config"
)

// ChromeEngine launches headless Chrome through chromedp, or attaches to a
// remote DevTools endpoint when one is configured.
type ChromeEngine struct {
	cfg    config.BrowserConfig
	logger *common.Logger
}

// NewChromeEngine creates an engine from browser config.
func NewChromeEngine(cfg config.BrowserConfig, logger *common.Logger) *ChromeEngine {
	return &ChromeEngine{cfg: cfg, logger: logger}
}

func (e *ChromeEngine) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, e.cfg.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", e.cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.ExecPath))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

// Launch starts the browser eagerly so launch failures surface here rather
// than on the first page action.
func (e *ChromeEngine) Launch(ctx context.Context) (Browser, error) {
	allocCtx, allocCancel := e.allocator(ctx)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			e.logger.Debug().Msgf("chromedp: "+format, args...)
		}),
	)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	mode := "local"
	if e.cfg.RemoteURL != "" {
		mode = "remote"
	}
	e.logger.Debug().Str("mode", mode).Msg("browser started")

	return &chromeBrowser{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
	}, nil
}

type chromeBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewPage opens a new tab in the browser with lifecycle events enabled.
func (b *chromeBrowser) NewPage(ctx context.Context) (Page, error) {
	pageCtx, pageCancel := chromedp.NewContext(b.ctx)
	stop := context.AfterFunc(ctx, pageCancel)
	defer stop()

	tracker := newLifecycleTracker()
	jsErrs := &jsErrorCollector{}
	chromedp.ListenTarget(pageCtx, func(ev interface{}) {
		tracker.handle(ev)
		jsErrs.handle(ev)
	})

	if err := chromedp.Run(pageCtx, page.SetLifecycleEventsEnabled(true)); err != nil {
		pageCancel()
		return nil, err
	}

	// The main frame of a page target shares the target's id.
	tracker.setFrame(cdp.FrameID(chromedp.FromContext(pageCtx).Target.TargetID))

	return &chromePage{ctx: pageCtx, lifecycle: tracker, jsErrs: jsErrs}, nil
}

// Close shuts the browser down once; later calls return the first result.
func (b *chromeBrowser) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = chromedp.Cancel(b.ctx)
		b.cancel()
		b.allocCancel()
	})
	return b.closeErr
}

type chromePage struct {
	ctx       context.Context
	lifecycle *lifecycleTracker
	jsErrs    *jsErrorCollector

	// loader identifies the document started by the last Navigate.
	loader    cdp.LoaderID
	navigated bool
}

// run executes actions on the page with a timeout, also stopping when the
// caller's ctx is done.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && runCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timeout %s exceeded: %w", timeout, err)
	}
	return err
}

// Navigate loads url and waits for the load event of the new document.
func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, NavigationTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		_, loaderID, errorText, _, err := page.Navigate(url).Do(ctx)
		switch {
		case err != nil:
			return err
		case errorText != "":
			return fmt.Errorf("page load error %s", errorText)
		}

		p.loader = loaderID
		p.navigated = true

		// Same-document navigations keep the current document.
		if loaderID == "" {
			return nil
		}

		select {
		case <-p.lifecycle.wait(loaderID, lifecycleLoad):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}))
}

// WaitNetworkIdle waits for networkIdle of the document started by Navigate.
func (p *chromePage) WaitNetworkIdle(ctx context.Context) error {
	if !p.navigated {
		return errors.New("no navigation to wait on")
	}
	if p.loader == "" {
		return nil
	}

	timer := time.NewTimer(NetworkIdleTimeout)
	defer timer.Stop()

	select {
	case <-p.lifecycle.wait(p.loader, lifecycleNetworkIdle):
		return nil
	case <-timer.C:
		return fmt.Errorf("timeout %s exceeded waiting for network idle", NetworkIdleTimeout)
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *chromePage) JSErrors() []string {
	return p.jsErrs.Errors()
}

// FullScreenshot captures the whole scrollable page as PNG (quality 100).
func (p *chromePage) FullScreenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, ScreenshotTimeout, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}
