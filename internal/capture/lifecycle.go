package capture

import (
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

// Page lifecycle event names emitted by Chrome.
const (
	lifecycleLoad        = "load"
	lifecycleNetworkIdle = "networkIdle"
)

type lifecycleKey struct {
	loader cdp.LoaderID
	name   string
}

// lifecycleTracker records lifecycle events of one page's main frame, keyed
// by loader id, so an event from an earlier document (the initial
// about:blank) never satisfies a wait on the document being navigated to.
// Chrome fires networkIdle once no network connections have been open for 500ms.
type lifecycleTracker struct {
	mu      sync.Mutex
	frameID cdp.FrameID
	signals map[lifecycleKey]chan struct{}
}

func newLifecycleTracker() *lifecycleTracker {
	return &lifecycleTracker{signals: make(map[lifecycleKey]chan struct{})}
}

func (t *lifecycleTracker) setFrame(id cdp.FrameID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frameID = id
}

// signal returns the channel for k, creating it if needed. Caller holds mu.
func (t *lifecycleTracker) signal(k lifecycleKey) chan struct{} {
	ch, ok := t.signals[k]
	if !ok {
		ch = make(chan struct{})
		t.signals[k] = ch
	}
	return ch
}

// handle is registered with chromedp.ListenTarget and must not block.
func (t *lifecycleTracker) handle(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frameID == "" || e.FrameID != t.frameID || e.LoaderID == "" {
		return
	}

	ch := t.signal(lifecycleKey{loader: e.LoaderID, name: e.Name})
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// wait returns a channel closed once the named event has fired for loader.
// Events that arrived before the call are not lost.
func (t *lifecycleTracker) wait(loader cdp.LoaderID, name string) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.signal(lifecycleKey{loader: loader, name: name})
}
