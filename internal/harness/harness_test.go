package harness_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/hex1b/hex1b/internal/harness"
	"github.com/hex1b/hex1b/internal/widget"
)

type noopTheme struct{}

func (noopTheme) Foreground(string) *widget.TokenColor { return nil }
func (noopTheme) Background(string) *widget.TokenColor { return nil }

func TestHarnessFeedUpdatesSnapshot(t *testing.T) {
	h := harness.New(10, 2, noopTheme{})
	h.Feed([]byte("Hello"))
	snap := h.Snapshot()
	if snap[:5] != "Hello" {
		t.Fatalf("snapshot = %q, want to start with Hello", snap)
	}
}

func TestHarnessFrameAndTypeInteraction(t *testing.T) {
	h := harness.New(20, 3, noopTheme{})
	h.Frame(func() widget.Description {
		return widget.TextFieldDesc{Value: ""}
	})
	h.Type("hi")
	tf, ok := h.Router.Focused().(interface{ InsertText(string) })
	if !ok {
		t.Fatalf("expected focused node to be a text input")
	}
	_ = tf
}

func TestWaitUntilSucceedsWhenConditionBecomesTrue(t *testing.T) {
	var ready atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		ready.Store(true)
	}()
	ok := harness.WaitUntil(time.Second, 5*time.Millisecond, ready.Load)
	if !ok {
		t.Fatalf("expected WaitUntil to observe the condition becoming true")
	}
}

func TestWaitUntilTimesOut(t *testing.T) {
	ok := harness.WaitUntil(30*time.Millisecond, 5*time.Millisecond, func() bool { return false })
	if ok {
		t.Fatalf("expected WaitUntil to time out")
	}
}
