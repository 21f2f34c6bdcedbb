package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashCleanup []func()
	crashExit    = os.Exit
)

// OnCrash registers cleanup run before the stack trace is printed, most recent first
// The terminal host registers screen teardown here so the trace lands on a sane tty
func OnCrash(fn func()) (unregister func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashCleanup = append(crashCleanup, fn)
	idx := len(crashCleanup) - 1
	return func() {
		crashMu.Lock()
		defer crashMu.Unlock()
		if idx < len(crashCleanup) {
			crashCleanup[idx] = nil
		}
	}
}

// HandleCrash runs registered cleanup, prints the panic value with stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	cleanup := make([]func(), len(crashCleanup))
	copy(cleanup, crashCleanup)
	crashMu.Unlock()

	for i := len(cleanup) - 1; i >= 0; i-- {
		if cleanup[i] != nil {
			runCleanup(cleanup[i])
		}
	}

	// \r\n in case the tty is still raw
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mSTARFIELD CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	crashExit(1)
}

// runCleanup swallows a panic from a cleanup func so remaining cleanup still runs
func runCleanup(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so the terminal is restored on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
