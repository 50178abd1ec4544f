// Package capture drives a headless browser through one review capture:
// launch, open a page, navigate, wait for network idle, settle, and save a
// full-page screenshot.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/dev-center-review/internal/common"
)

const (
	// DefaultURL is the local development page under review.
	DefaultURL = "http://localhost:3000/dev-center"
	// DefaultOutputPath is relative to the working directory.
	DefaultOutputPath = "dev_center_review.png"
	// SettleDelay lets animations finish after the network goes idle.
	SettleDelay = 2 * time.Second

	NavigationTimeout  = 30 * time.Second
	NetworkIdleTimeout = 30 * time.Second
	ScreenshotTimeout  = 30 * time.Second

	// FailureLabel prefixes the console line printed for a caught failure.
	FailureLabel = "An error occurred:"
)

// Steps inside the capture error boundary.
const (
	StepNewPage     = "open page"
	StepNavigate    = "navigate"
	StepNetworkIdle = "wait for network idle"
	StepScreenshot  = "screenshot"
	StepWrite       = "write screenshot"
)

// ErrOperationFailed matches every failure caught by the capture boundary.
var ErrOperationFailed = errors.New("operation failed")

// OperationError is the single error kind produced between opening the page
// and writing the screenshot.
type OperationError struct {
	Step string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func (e *OperationError) Is(target error) bool { return target == ErrOperationFailed }

// Engine launches browser instances.
type Engine interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a launched browser instance. Close releases it and must be
// safe to call more than once.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single navigable surface owned by a Browser.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitNetworkIdle(ctx context.Context) error
	FullScreenshot(ctx context.Context) ([]byte, error)
}

// jsErrorSource is implemented by pages that observe script errors.
type jsErrorSource interface {
	JSErrors() []string
}

// Target describes what to capture and where to write it.
type Target struct {
	URL         string
	OutputPath  string
	SettleDelay time.Duration
}

// DefaultTarget returns the fixed dev-center review target.
func DefaultTarget() Target {
	return Target{
		URL:         DefaultURL,
		OutputPath:  DefaultOutputPath,
		SettleDelay: SettleDelay,
	}
}

// Result describes one completed capture attempt. Err holds the caught
// failure, if any; it always satisfies errors.Is(Err, ErrOperationFailed).
type Result struct {
	CorrelationID string
	URL           string
	Path          string
	Bytes         int
	Elapsed       time.Duration
	// JSErrors lists script errors the page reported while loading.
	JSErrors []string
	Err      error
}

// OK reports whether the screenshot was written.
func (r *Result) OK() bool { return r.Err == nil }

// Message is the console line for this result.
func (r *Result) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %v", FailureLabel, r.Err)
	}
	return fmt.Sprintf("Screenshot saved to %s", r.Path)
}

// Runner performs review captures against an Engine.
type Runner struct {
	Target Target

	engine Engine
	logger *common.Logger
	out    io.Writer
	sleep  func(time.Duration)
}

// NewRunner creates a Runner for the default target. Console lines go to out.
func NewRunner(engine Engine, logger *common.Logger, out io.Writer) *Runner {
	return &Runner{
		Target: DefaultTarget(),
		engine: engine,
		logger: logger,
		out:    out,
		sleep:  time.Sleep,
	}
}

// Run performs one capture and prints its outcome. Only a launch failure is
// returned; failures after launch are printed and swallowed.
func (r *Runner) Run(ctx context.Context) error {
	res, err := r.Capture(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, res.Message())
	return nil
}

// Capture launches the browser and captures the target. The browser is closed
// before Capture returns on every path after a successful launch.
func (r *Runner) Capture(ctx context.Context) (*Result, error) {
	id := uuid.New().String()
	logger := r.logger.WithCorrelationId(id)
	start := time.Now()

	logger.Info().Str("url", r.Target.URL).Msg("launching headless browser")

	browser, err := r.engine.Launch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("browser launch failed")
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn().Err(err).Msg("browser close failed")
			return
		}
		logger.Debug().Msg("browser closed")
	}()

	res := &Result{
		CorrelationID: id,
		URL:           r.Target.URL,
		Path:          r.Target.OutputPath,
	}
	res.Err = r.capture(ctx, logger, browser, res)
	res.Elapsed = time.Since(start)

	for _, msg := range res.JSErrors {
		logger.Warn().Str("js_error", msg).Msg("page reported a script error")
	}

	if res.Err != nil {
		logger.Warn().Err(res.Err).Dur("elapsed", res.Elapsed).Msg("capture failed")
	} else {
		logger.Info().
			Str("path", res.Path).
			Int("bytes", res.Bytes).
			Dur("elapsed", res.Elapsed).
			Msg("capture complete")
	}
	return res, nil
}

func (r *Runner) capture(ctx context.Context, logger *common.Logger, browser Browser, res *Result) error {
	page, err := browser.NewPage(ctx)
	if err != nil {
		return &OperationError{Step: StepNewPage, Err: err}
	}
	if src, ok := page.(jsErrorSource); ok {
		defer func() { res.JSErrors = src.JSErrors() }()
	}

	logger.Debug().Str("url", r.Target.URL).Msg("navigating")
	if err := page.Navigate(ctx, r.Target.URL); err != nil {
		return &OperationError{Step: StepNavigate, Err: fmt.Errorf("%s: %w", r.Target.URL, err)}
	}

	if err := page.WaitNetworkIdle(ctx); err != nil {
		return &OperationError{Step: StepNetworkIdle, Err: err}
	}

	logger.Debug().Dur("delay", r.Target.SettleDelay).Msg("network idle, settling")
	r.sleep(r.Target.SettleDelay)

	buf, err := page.FullScreenshot(ctx)
	if err != nil {
		return &OperationError{Step: StepScreenshot, Err: err}
	}

	if err := writeFileAtomic(r.Target.OutputPath, buf, 0644); err != nil {
		return &OperationError{Step: StepWrite, Err: err}
	}
	res.Bytes = len(buf)
	return nil
}
