package capture

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
)

// jsErrorCollector gathers uncaught exceptions and console.error calls seen
// on a page while it loads.
type jsErrorCollector struct {
	mu     sync.Mutex
	errors []string
}

// handle is registered with chromedp.ListenTarget and must not block.
func (c *jsErrorCollector) handle(ev interface{}) {
	switch e := ev.(type) {
	case *runtime.EventExceptionThrown:
		desc := e.ExceptionDetails.Text
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			desc = e.ExceptionDetails.Exception.Description
		}
		if isNoise(desc) {
			return
		}
		c.add(fmt.Sprintf("EXCEPTION: %s", desc))

	case *runtime.EventConsoleAPICalled:
		if e.Type != runtime.APITypeError {
			return
		}
		var parts []string
		for _, arg := range e.Args {
			if arg.Value != nil {
				parts = append(parts, string(arg.Value))
			} else if arg.Description != "" {
				parts = append(parts, arg.Description)
			}
		}
		if len(parts) == 0 {
			return
		}
		msg := strings.Join(parts, " ")
		if isNoise(msg) {
			return
		}
		c.add(fmt.Sprintf("console.error: %s", msg))
	}
}

// isNoise reports messages that say nothing about the page itself: a missing
// favicon, or a Content Security Policy violation reported by the browser.
func isNoise(msg string) bool {
	return strings.Contains(msg, "favicon") || strings.Contains(msg, "Content Security Policy")
}

func (c *jsErrorCollector) add(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
}

// Errors returns a copy of the collected messages.
func (c *jsErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	copy(out, c.errors)
	return out
}
