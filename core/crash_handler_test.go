package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withExitCapture(t *testing.T) <-chan int {
	t.Helper()
	codes := make(chan int, 1)
	prev := crashExit
	crashExit = func(code int) { codes <- code }
	t.Cleanup(func() { crashExit = prev })
	return codes
}

func TestGoRecoversAndRunsCleanup(t *testing.T) {
	codes := withExitCapture(t)

	var order []string
	var mu sync.Mutex
	unregA := OnCrash(func() {
		mu.Lock()
		order = append(order, "screen")
		mu.Unlock()
	})
	defer unregA()
	unregB := OnCrash(func() {
		mu.Lock()
		order = append(order, "audio")
		mu.Unlock()
		panic("cleanup failure is swallowed")
	})
	defer unregB()

	Go(func() { panic("frame callback exploded") })

	select {
	case code := <-codes:
		assert.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("crash handler did not exit")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"audio", "screen"}, order)
}

func TestUnregisteredCleanupSkipped(t *testing.T) {
	codes := withExitCapture(t)

	called := false
	unreg := OnCrash(func() { called = true })
	unreg()

	HandleCrash("boom")
	assert.Equal(t, 1, <-codes)
	assert.False(t, called)
}

func TestHandleCrashNilIsNoop(t *testing.T) {
	codes := withExitCapture(t)
	HandleCrash(nil)
	select {
	case <-codes:
		t.Fatal("nil panic value must not exit")
	default:
	}
}
